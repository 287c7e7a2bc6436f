// Package request describes individual API calls: the path, URL parameters,
// headers and HTTP method of one outbound request.
//
// A [Builder] collects the parts fluently and [Builder.Build] produces a
// read-only [Descriptor]:
//
//	d := request.New("Custom", http.MethodGet).
//		Path("/sounds/").
//		Path("1234").
//		URLParam("fields", "id,name").
//		Build()
//	d.URL() // sounds/1234?fields=id%2Cname
//
// Most callers use the predefined variants such as [Sound], [TextSearch] or
// [User] instead of assembling paths by hand.
package request

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

const separator = "/"

// Builder assembles a Descriptor. It is not safe for concurrent use.
type Builder struct {
	variant string
	method  string
	path    []string
	params  map[string]string
	headers map[string]string
}

// New returns a Builder for a request variant using the given HTTP method.
// The variant name only appears in the Descriptor's String form.
func New(variant, method string) *Builder {
	return &Builder{
		variant: variant,
		method:  method,
		params:  make(map[string]string),
		headers: make(map[string]string),
	}
}

// Path appends a raw path segment. Leading and trailing separators are
// stripped when the URL is rendered, not here.
func (b *Builder) Path(segment string) *Builder {
	b.path = append(b.path, segment)
	return b
}

// URLParam sets a URL parameter, replacing any previous value for key.
func (b *Builder) URLParam(key, value string) *Builder {
	b.params[key] = value
	return b
}

// Header sets a header, replacing any previous value for name.
func (b *Builder) Header(name, value string) *Builder {
	b.headers[name] = value
	return b
}

// RemoveHeader deletes a header. Removing an absent header is a no-op.
func (b *Builder) RemoveHeader(name string) *Builder {
	delete(b.headers, name)
	return b
}

// Build returns a Descriptor holding copies of the builder's state. Later
// changes to the builder do not affect previously built descriptors.
func (b *Builder) Build() Descriptor {
	return Descriptor{
		variant: b.variant,
		method:  b.method,
		path:    slices.Clone(b.path),
		params:  maps.Clone(b.params),
		headers: maps.Clone(b.headers),
	}
}

// Descriptor is the finalized description of one API call.
// Accessors return independent copies, so a Descriptor can be shared
// freely between goroutines.
type Descriptor struct {
	variant string
	method  string
	path    []string
	params  map[string]string
	headers map[string]string
}

// Variant returns the name of the request variant that built d.
func (d Descriptor) Variant() string { return d.variant }

// Method returns the HTTP method.
func (d Descriptor) Method() string { return d.method }

// Path returns a copy of the raw path segments as they were appended.
func (d Descriptor) Path() []string { return slices.Clone(d.path) }

// Params returns a copy of the URL parameters.
func (d Descriptor) Params() map[string]string { return cloneMap(d.params) }

// Headers returns a copy of the headers.
func (d Descriptor) Headers() map[string]string { return cloneMap(d.headers) }

// URL renders the relative request URL: the trimmed path segments joined
// with a single separator, a '?', then the query string. Parameters are
// sorted by key and both keys and values are percent-encoded.
func (d Descriptor) URL() string {
	return joinPath(d.path) + "?" + encodeParams(d.params)
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s (%s, %s)", d.variant, d.method, d.URL())
}

// joinPath trims every segment independently and skips the ones that end up
// empty, so the result never holds doubled or dangling separators.
func joinPath(segments []string) string {
	trimmed := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, separator)
		if s == "" {
			continue
		}
		trimmed = append(trimmed, s)
	}

	return strings.Join(trimmed, separator)
}

func encodeParams(params map[string]string) string {
	var sb strings.Builder
	for i, k := range slices.Sorted(maps.Keys(params)) {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(escape(k))
		sb.WriteByte('=')
		sb.WriteString(escape(params[k]))
	}

	return sb.String()
}

// escape percent-encodes everything outside the RFC 3986 unreserved set.
// url.QueryEscape already leaves only unreserved bytes alone but writes a
// space as '+'; a literal '+' is emitted as %2B, so the swap is unambiguous.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	maps.Copy(out, m)
	return out
}
