package download

import (
	"errors"
	"hash"
	"strings"
)

// Option configures a single [ToFile] call.
type Option func(*options) error

type options struct {
	checksum     *checksumVerifier
	progress     bool
	report       func(Progress)
	skipExisting bool
}

// WithChecksum verifies the written bytes against expected, the
// hex-encoded digest produced by h (e.g. sha256.New()).
func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}
		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}

		opts.checksum = &checksumVerifier{hash: h, expected: strings.ToLower(expected)}
		return nil
	}
}

// WithProgress logs transfer progress at most once per second.
func WithProgress() Option {
	return func(opts *options) error {
		opts.progress = true
		return nil
	}
}

// WithProgressFunc hands progress snapshots to fn instead of the logger.
// fn runs on the downloading goroutine and must not block.
func WithProgressFunc(fn func(Progress)) Option {
	return func(opts *options) error {
		if fn == nil {
			return errors.New("progress func must not be nil")
		}
		opts.progress = true
		opts.report = fn
		return nil
	}
}

// WithSkipExisting makes [ToFile] a no-op when the destination already exists.
func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}

// SkipsExisting reports whether optFns include [WithSkipExisting], letting
// callers avoid a request whose body would be discarded.
func SkipsExisting(optFns ...Option) bool {
	var opts options
	for _, opt := range optFns {
		if opt == nil {
			continue
		}
		_ = opt(&opts)
	}
	return opts.skipExisting
}
