package request

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/adamwoolhether/freesound/client/query"
)

// Variant names reported by Descriptor.Variant.
const (
	VariantSimple        = "SimpleRequest"
	VariantSound         = "SoundRequest"
	VariantSimilarSounds = "SimilarSounds"
	VariantTextSearch    = "TextSearch"
	VariantUser          = "UserRequest"
	VariantUserSounds    = "UserSounds"
	VariantUserPacks     = "UserPacks"
	VariantPack          = "PackRequest"
	VariantPackSounds    = "PackSounds"
	VariantDownload      = "SoundDownload"
)

// Simple returns a GET builder for an arbitrary path. Each segment is
// formatted with fmt.Sprint, so ids can be passed as numbers.
func Simple(segments ...any) *Builder {
	b := New(VariantSimple, http.MethodGet)
	for _, s := range segments {
		b.Path(fmt.Sprint(s))
	}
	return b
}

// Sound fetches a single sound instance.
func Sound(id int) *Builder {
	return New(VariantSound, http.MethodGet).
		Path("sounds").
		Path(strconv.Itoa(id))
}

// SimilarSounds lists sounds similar to the sound with the given id.
func SimilarSounds(id int, opts ...ListOption) *Builder {
	b := New(VariantSimilarSounds, http.MethodGet).
		Path("sounds").
		Path(strconv.Itoa(id)).
		Path("similar")
	return apply(b, opts)
}

// TextSearch searches sounds with the rendered expression as the query.
func TextSearch(expr *query.Expression, opts ...ListOption) *Builder {
	b := New(VariantTextSearch, http.MethodGet).
		Path("search").
		Path("text").
		URLParam("query", expr.String())
	return apply(b, opts)
}

// User fetches a user profile by username.
func User(username string) *Builder {
	return New(VariantUser, http.MethodGet).
		Path("users").
		Path(url.PathEscape(username))
}

// UserSounds lists the sounds uploaded by a user.
func UserSounds(username string, opts ...ListOption) *Builder {
	b := New(VariantUserSounds, http.MethodGet).
		Path("users").
		Path(url.PathEscape(username)).
		Path("sounds")
	return apply(b, opts)
}

// UserPacks lists the packs created by a user.
func UserPacks(username string, opts ...ListOption) *Builder {
	b := New(VariantUserPacks, http.MethodGet).
		Path("users").
		Path(url.PathEscape(username)).
		Path("packs")
	return apply(b, opts)
}

// Pack fetches a single pack instance.
func Pack(id int) *Builder {
	return New(VariantPack, http.MethodGet).
		Path("packs").
		Path(strconv.Itoa(id))
}

// PackSounds lists the sounds in a pack.
func PackSounds(id int, opts ...ListOption) *Builder {
	b := New(VariantPackSounds, http.MethodGet).
		Path("packs").
		Path(strconv.Itoa(id)).
		Path("sounds")
	return apply(b, opts)
}

// Download fetches the original file of a sound. The API only serves it to
// OAuth2-authenticated callers.
func Download(id int) *Builder {
	return New(VariantDownload, http.MethodGet).
		Path("sounds").
		Path(strconv.Itoa(id)).
		Path("download")
}

func apply(b *Builder, opts []ListOption) *Builder {
	for _, opt := range opts {
		opt(b)
	}
	return b
}
