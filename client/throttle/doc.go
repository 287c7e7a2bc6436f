// Package throttle keeps outbound API calls under a rate limit using the
// token bucket from [golang.org/x/time/rate].
//
// Wrap a transport with [NewRoundTripper]:
//
//	rt, err := throttle.NewRoundTripper(
//		throttle.PerMinute(60, 5),
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//	httpClient := &http.Client{Transport: rt}
//
// Requests over the limit block until a token frees up or the request
// context ends. Nothing is retried.
package throttle
