package client

import (
	"context"
	"net/http"

	"github.com/adamwoolhether/freesound/client/async"
	"github.com/adamwoolhether/freesound/client/model"
	"github.com/adamwoolhether/freesound/client/query"
	"github.com/adamwoolhether/freesound/client/request"
)

// Request submits an arbitrary descriptor and resolves with the raw payload.
func (c *Client) Request(ctx context.Context, d request.Descriptor) *async.Handle[model.Object] {
	return Submit(c, ctx, d, model.DecodeObject)
}

// Sound fetches a single sound by id.
func (c *Client) Sound(ctx context.Context, id int) *async.Handle[model.Sound] {
	return Submit(c, ctx, request.Sound(id).Build(), model.DecodeSound)
}

// SimilarSounds lists sounds acoustically similar to the sound with id.
func (c *Client) SimilarSounds(ctx context.Context, id int, opts ...request.ListOption) *async.Handle[model.SoundPage] {
	return Submit(c, ctx, request.SimilarSounds(id, opts...).Build(), model.DecodeSoundPage)
}

// Search runs a text search for the terms in expr.
func (c *Client) Search(ctx context.Context, expr *query.Expression, opts ...request.ListOption) *async.Handle[model.SoundPage] {
	return Submit(c, ctx, request.TextSearch(expr, opts...).Build(), model.DecodeSoundPage)
}

// User fetches a user profile.
func (c *Client) User(ctx context.Context, username string) *async.Handle[model.User] {
	return Submit(c, ctx, request.User(username).Build(), model.DecodeUser)
}

// UserSounds lists the sounds uploaded by username.
func (c *Client) UserSounds(ctx context.Context, username string, opts ...request.ListOption) *async.Handle[model.SoundPage] {
	return Submit(c, ctx, request.UserSounds(username, opts...).Build(), model.DecodeSoundPage)
}

// UserPacks lists the packs created by username.
func (c *Client) UserPacks(ctx context.Context, username string, opts ...request.ListOption) *async.Handle[model.PackPage] {
	return Submit(c, ctx, request.UserPacks(username, opts...).Build(), model.DecodePackPage)
}

// Pack fetches a pack by id.
func (c *Client) Pack(ctx context.Context, id int) *async.Handle[model.Pack] {
	return Submit(c, ctx, request.Pack(id).Build(), model.DecodePack)
}

// PackSounds lists the sounds in a pack.
func (c *Client) PackSounds(ctx context.Context, id int, opts ...request.ListOption) *async.Handle[model.SoundPage] {
	return Submit(c, ctx, request.PackSounds(id, opts...).Build(), model.DecodeSoundPage)
}

// NextSounds follows page.Next. It resolves with [model.ErrNoMorePages] on
// the last page.
func (c *Client) NextSounds(ctx context.Context, page model.SoundPage) *async.Handle[model.SoundPage] {
	return next(c, ctx, page, model.DecodeSoundPage)
}

// NextPacks follows page.Next. It resolves with [model.ErrNoMorePages] on
// the last page.
func (c *Client) NextPacks(ctx context.Context, page model.PackPage) *async.Handle[model.PackPage] {
	return next(c, ctx, page, model.DecodePackPage)
}

func next[T any](c *Client, ctx context.Context, page model.Page[T], decode model.DecodeFunc[model.Page[T]]) *async.Handle[model.Page[T]] {
	if !page.HasNext() {
		return async.Failed[model.Page[T]](model.ErrNoMorePages)
	}
	return submit(c, ctx, "NextPage", http.MethodGet, c.upgrade(page.Next), nil, decode)
}
