// Package refs finds the asset references embedded in an article body.
//
// A reference is an attribute of the form src="/api/assets/<token>". The
// token is percent-decoded once to recover the stored asset filename.
package refs

import (
	"errors"
	"iter"
	"net/url"
	"regexp"
	"unicode/utf8"
)

// AssetPathPrefix is the retrieval path prefix under which assets are served
// and embedded.
const AssetPathPrefix = "/api/assets/"

var assetRef = regexp.MustCompile(`src="` + regexp.QuoteMeta(AssetPathPrefix) + `([^"]+)"`)

// ErrInvalidEncoding is returned by Decode for tokens that do not decode to
// valid UTF-8.
var ErrInvalidEncoding = errors.New("decoded asset name is not valid UTF-8")

// DecodeErrorHandler is told about tokens skipped because they failed to decode.
type DecodeErrorHandler func(token string, err error)

// Option configures Extract
type Option func(*scanner)

// OnDecodeError registers a handler for tokens that fail to decode.
func OnDecodeError(fn DecodeErrorHandler) Option {
	return func(s *scanner) {
		s.onDecodeError = fn
	}
}

type scanner struct {
	onDecodeError DecodeErrorHandler
}

// Extract returns the asset filenames referenced by content, in order of
// first occurrence. Duplicates are kept. Matches are found lazily, one per
// iteration step, and a token that fails to decode is skipped without
// stopping the scan.
func Extract(content string, opts ...Option) iter.Seq[string] {
	s := &scanner{}
	for _, opt := range opts {
		opt(s)
	}

	return func(yield func(string) bool) {
		rest := content
		for {
			loc := assetRef.FindStringSubmatchIndex(rest)
			if loc == nil {
				return
			}
			token := rest[loc[2]:loc[3]]
			rest = rest[loc[1]:]

			name, err := Decode(token)
			if err != nil {
				if s.onDecodeError != nil {
					s.onDecodeError(token, err)
				}
				continue
			}
			if !yield(name) {
				return
			}
		}
	}
}

// Decode percent-decodes a captured token exactly once. A '+' is kept as is.
func Decode(token string) (string, error) {
	name, err := url.PathUnescape(token)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(name) {
		return "", ErrInvalidEncoding
	}
	return name, nil
}

// Unique drops repeated names from seq, keeping the first occurrence.
func Unique(seq iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]struct{})
		for name := range seq {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			if !yield(name) {
				return
			}
		}
	}
}

// Collect drains seq into a slice.
func Collect(seq iter.Seq[string]) []string {
	var names []string
	for name := range seq {
		names = append(names, name)
	}
	return names
}

// AssetURL returns the retrieval path for a stored asset filename.
func AssetURL(fileName string) string {
	return AssetPathPrefix + fileName
}
