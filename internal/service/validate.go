package service

import (
	"regexp"
	"strings"

	"github.com/screfinery/screfinery/pkg/scope"
)

const (
	maxNameLen = 50
	maxMailLen = 250
)

// Mail only needs to look like local@domain. Anything stricter just rejects
// real addresses.
var mailPattern = regexp.MustCompile(`^[^@]+@[^@]+$`)

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name", "must not be empty")
	}
	if len(name) > maxNameLen {
		return invalid("name", "must be at most 50 characters")
	}
	return nil
}

func validateMail(mail string) error {
	if mail == "" {
		return invalid("mail", "must not be empty")
	}
	if len(mail) > maxMailLen {
		return invalid("mail", "must be at most 250 characters")
	}
	if !mailPattern.MatchString(mail) {
		return invalid("mail", "must be a valid mail address")
	}
	return nil
}

// validateScopes parses every scope string so malformed entries are rejected
// before they ever reach storage.
func validateScopes(scopes []string) error {
	if _, err := scope.ParseSet(scopes); err != nil {
		return invalid("scopes", err.Error())
	}
	return nil
}
