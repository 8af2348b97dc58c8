// Package search turns user search input into backend query parameters.
package search

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"taskview/internal/service"
)

// MinQueryLen is the minimum number of characters in a trimmed query.
const MinQueryLen = 2

var (
	// ErrEmptyQuery means the search should be cleared and the unfiltered
	// listing shown. It is not a user-facing error.
	ErrEmptyQuery = errors.New("empty search query")

	// ErrQueryTooShort is wrapped by the ValidationError for short queries.
	ErrQueryTooShort = errors.New("search query too short")
)

// ValidationError reports input rejected before any request is built.
type ValidationError struct {
	Query string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %q (minimum %d characters)", e.Err, e.Query, MinQueryLen)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Mode records which search parameters a request carries.
type Mode struct {
	Semantic bool
	Contains bool
}

// ResolveMode applies the default: with neither mode selected, search is semantic.
func ResolveMode(useSemantic, useContains bool) Mode {
	if !useSemantic && !useContains {
		return Mode{Semantic: true}
	}
	return Mode{Semantic: useSemantic, Contains: useContains}
}

func (m Mode) String() string {
	switch {
	case m.Semantic && m.Contains:
		return "semantic+contains"
	case m.Contains:
		return "contains"
	default:
		return "semantic"
	}
}

// BuildRequest validates query and builds the listing parameters for the
// selected modes. The query text is passed through unmodified.
//
// A blank query returns ErrEmptyQuery. A query shorter than MinQueryLen
// characters after trimming returns a *ValidationError.
func BuildRequest(query string, useSemantic, useContains bool) (service.Query, error) {
	if err := Validate(query); err != nil {
		return service.Query{}, err
	}

	var q service.Query
	mode := ResolveMode(useSemantic, useContains)
	if mode.Semantic {
		q.Semantic = query
	}
	if mode.Contains {
		q.Contains = query
	}
	return q, nil
}

// Validate checks query without building a request.
func Validate(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return ErrEmptyQuery
	}
	if utf8.RuneCountInString(trimmed) < MinQueryLen {
		return &ValidationError{Query: query, Err: ErrQueryTooShort}
	}
	return nil
}
