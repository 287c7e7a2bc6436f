// Package freesound exposes the Freesound API client builder.
package freesound

import (
	"github.com/adamwoolhether/freesound/client"
)

// NewClient instantiates a new *Client with the provided options.
// Without options it targets [client.DefaultBaseURL] unauthenticated, which
// only a handful of endpoints accept; pass [client.WithToken] for the rest.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}
