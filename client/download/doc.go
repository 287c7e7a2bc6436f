// Package download writes sound files to disk with optional checksum
// validation and progress reporting.
//
// [ToFile] streams into a temporary file alongside the destination path and
// renames it into place only once the copy is complete and verified:
//
//	err := download.ToFile(ctx, resp.Body, resp.ContentLength, "rain.mp3", logger,
//		download.WithChecksum(sha256.New(), expectedHex),
//		download.WithProgress(),
//	)
//
// Most callers go through [github.com/adamwoolhether/freesound/client.Client.DownloadPreview],
// which runs the transfer asynchronously and re-exports these options.
package download
