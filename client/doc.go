// Package client talks to the Freesound APIv2 asynchronously.
//
// # Building a Client
//
// Use [Build] with functional options. Credentials and transport are fixed
// for the lifetime of the Client:
//
//	c, err := client.Build(
//		client.WithToken(os.Getenv("FREESOUND_TOKEN")),
//		client.WithTimeout(10 * time.Second),
//		client.WithThrottle(1, 5),
//	)
//	defer c.Close()
//
// # Submitting Requests
//
// Every call returns an [async.Handle] immediately; the request and the
// decode of its payload run on another goroutine:
//
//	h := c.Sound(ctx, 1234)
//	// ... do other work ...
//	sound, err := h.Await()
//
// Failures are classified by sentinel: [ErrTransport] when no response was
// obtained, [ErrUnexpectedStatusCode] (with [ErrAuthFailure] for 401/403)
// for non-2xx answers, and [ErrDecode] when the payload does not match.
//
// Searches take a [query.Expression] and list options:
//
//	expr := query.New().Include("rain").Exclude("thunder")
//	page, err := c.Search(ctx, expr,
//		request.WithFields("id", "name", "previews"),
//		request.WithSort(request.SortRatingDesc),
//	).Await()
//
// Any descriptor can be sent with [Client.Request] for the raw payload, or
// with [Submit] and a custom [model.DecodeFunc].
//
// # Downloading Files
//
// Previews stream to disk with optional checksum verification:
//
//	path, err := c.DownloadPreview(ctx, sound, model.PreviewHQMP3, "rain.mp3",
//		client.WithChecksum(sha256.New(), expectedHex),
//	).Await()
package client
