// Package scope implements permission scopes of the form "resource.action"
// and the wildcard form "resource.*", plus the matching predicate used to
// gate API operations.
package scope

import (
	"errors"
	"fmt"
	"strings"
)

// Wildcard is the action token that grants every action on a resource.
const Wildcard = "*"

// ErrMalformed reports a scope string without a resource/action separator.
// Malformed scopes are a configuration error and must be rejected at load
// time, never at request time.
var ErrMalformed = errors.New("scope: malformed scope string")

// Scope is an immutable permission token. The Wildcard flag is set once at
// parse time so authorization checks never re-parse strings.
type Scope struct {
	Resource string
	Action   string
	Wildcard bool
}

// Parse validates and splits a scope string. The resource is everything
// before the last "." separator, so resources may themselves contain dots.
func Parse(s string) (Scope, error) {
	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return Scope{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	resource, action := s[:i], s[i+1:]
	return Scope{
		Resource: resource,
		Action:   action,
		Wildcard: action == Wildcard,
	}, nil
}

// MustParse parses or panics. Useful for hard-coded scopes in route tables
// and tests.
func MustParse(s string) Scope {
	sc, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return sc
}

// String returns the canonical "resource.action" form.
func (s Scope) String() string {
	return s.Resource + "." + s.Action
}

// Set is the unordered collection of scopes held by a user. It is built
// wholesale from a user record or the configured default list and never
// partially mutated.
type Set map[Scope]struct{}

// NewSet builds a Set from already-parsed scopes.
func NewSet(scopes ...Scope) Set {
	set := make(Set, len(scopes))
	for _, sc := range scopes {
		set[sc] = struct{}{}
	}
	return set
}

// ParseSet parses each string and fails on the first malformed entry.
// Use it wherever scope lists enter the system (configuration, user
// creation, permission edits).
func ParseSet(raw []string) (Set, error) {
	set := make(Set, len(raw))
	for _, s := range raw {
		sc, err := Parse(s)
		if err != nil {
			return nil, err
		}
		set[sc] = struct{}{}
	}
	return set, nil
}

// Strings returns the canonical string form of every scope in the set.
// Order is unspecified.
func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for sc := range s {
		out = append(out, sc.String())
	}
	return out
}

// Authorize reports whether held grants the required scope. It is true iff
// held contains required verbatim, or the "resource.*" wildcard for the same
// resource. Matching is exact and case-sensitive; only the single trailing
// wildcard is honoured. A wildcard required scope is never granted; callers
// must ask for a concrete resource.action pair.
//
// Pure function over its inputs; safe for concurrent use.
func Authorize(held Set, required Scope) bool {
	if required.Wildcard {
		return false
	}
	if _, ok := held[required]; ok {
		return true
	}
	_, ok := held[Scope{Resource: required.Resource, Action: Wildcard, Wildcard: true}]
	return ok
}
