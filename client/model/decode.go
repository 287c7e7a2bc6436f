// Package model maps decoded API payloads onto read-only domain objects.
//
// Raw bytes are parsed into a generic [Object]; a [DecodeFunc] then either
// passes the Object through ([DecodeObject]) or reads named fields with
// expected types into a domain type such as [Sound], [User] or [Pack].
// Missing required fields and type mismatches fail with a [*DecodeError]
// that wraps [ErrDecode].
package model

import (
	"errors"
	"fmt"
)

// ErrNoMorePages is returned when following a page that has no successor.
var ErrNoMorePages = errors.New("no more pages")

// DecodeFunc turns a parsed payload into a result value.
type DecodeFunc[T any] func(Object) (T, error)

// Decode parses data and applies fn.
func Decode[T any](data []byte, fn DecodeFunc[T]) (T, error) {
	obj, err := Parse(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return fn(obj)
}

// DecodeObject passes the parsed payload through unchanged.
func DecodeObject(o Object) (Object, error) {
	return o, nil
}

// Page is one page of a paginated list response. Next and Previous are
// absolute URLs, empty at either end of the listing.
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Results  []T    `json:"results"`
}

// HasNext reports whether another page follows.
func (p Page[T]) HasNext() bool { return p.Next != "" }

type (
	SoundPage = Page[Sound]
	PackPage  = Page[Pack]
)

// DecodeSoundPage maps a paginated list of sounds. Elements may carry only
// the fields the request selected, but a malformed element fails the page.
func DecodeSoundPage(o Object) (SoundPage, error) {
	return decodePage(o, decodePartialSound)
}

// DecodePackPage maps a paginated list of packs.
func DecodePackPage(o Object) (PackPage, error) {
	return decodePage(o, decodePartialPack)
}

func decodePage[T any](o Object, elem DecodeFunc[T]) (Page[T], error) {
	var (
		p   Page[T]
		err error
	)

	if p.Count, err = o.OptInt("count"); err != nil {
		return Page[T]{}, err
	}
	if p.Next, err = o.OptString("next"); err != nil {
		return Page[T]{}, err
	}
	if p.Previous, err = o.OptString("previous"); err != nil {
		return Page[T]{}, err
	}

	objs, err := o.Objects("results")
	if err != nil {
		return Page[T]{}, err
	}

	p.Results = make([]T, len(objs))
	for i, obj := range objs {
		if p.Results[i], err = elem(obj); err != nil {
			return Page[T]{}, nest(fmt.Sprintf("results[%d]", i), err)
		}
	}

	return p, nil
}
