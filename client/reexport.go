package client

import (
	"hash"

	"github.com/adamwoolhether/freesound/client/async"
	"github.com/adamwoolhether/freesound/client/download"
	"github.com/adamwoolhether/freesound/client/model"
)

// ————————————————————————————————————————————————————————————————————
// Type aliases for user-facing types from sub-packages.
// ————————————————————————————————————————————————————————————————————

type (
	// DecodeError reports a payload that did not match the expected shape.
	DecodeError = model.DecodeError

	// DownloadError wraps a sentinel error with additional detail.
	DownloadError = download.Error

	// PanicError resolves a handle whose work panicked.
	PanicError = async.PanicError

	// DownloadProgress is a snapshot handed to [WithProgressFunc].
	DownloadProgress = download.Progress
)

// ————————————————————————————————————————————————————————————————————
// Sentinel errors
// ————————————————————————————————————————————————————————————————————

var (
	// ErrDecode is wrapped by every decode failure.
	ErrDecode = model.ErrDecode

	// ErrMissingField indicates a required field was absent or null.
	ErrMissingField = model.ErrMissingField

	// ErrWrongType indicates a field held a value of the wrong JSON type.
	ErrWrongType = model.ErrWrongType

	// ErrNoMorePages indicates a page has no successor to follow.
	ErrNoMorePages = model.ErrNoMorePages

	// ErrExecutorShutdown resolves submissions made after [Client.Close].
	ErrExecutorShutdown = async.ErrExecutorShutdown

	// ErrContentLengthMismatch indicates the byte count did not match Content-Length.
	ErrContentLengthMismatch = download.ErrContentLengthMismatch

	// ErrChecksumMismatch indicates the file checksum did not match the expected value.
	ErrChecksumMismatch = download.ErrChecksumMismatch

	// ErrDownloadCancelled indicates the download was cancelled via context.
	ErrDownloadCancelled = download.ErrDownloadCancelled

	// ErrEmptyDestination indicates a download was submitted without a path.
	ErrEmptyDestination = download.ErrEmptyDestination
)

// ————————————————————————————————————————————————————————————————————
// Download option forwarding functions
// ————————————————————————————————————————————————————————————————————

// WithChecksum enables checksum validation of the downloaded file.
// h is a [hash.Hash] instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
func WithChecksum(h hash.Hash, expected string) DownloadOption {
	return download.WithChecksum(h, expected)
}

// WithProgress enables periodic download progress logging.
func WithProgress() DownloadOption { return download.WithProgress() }

// WithProgressFunc reports download progress to fn instead of the logger.
func WithProgressFunc(fn func(DownloadProgress)) DownloadOption {
	return download.WithProgressFunc(fn)
}

// WithSkipExisting resolves a download immediately, without a request, when
// the destination file already exists.
func WithSkipExisting() DownloadOption { return download.WithSkipExisting() }
