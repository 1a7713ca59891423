package service

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/rize-social/rize/internal/model"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

// reserved names collide with routes or impersonate the service.
var reserved = map[string]bool{
	"admin": true, "api": true, "app": true, "auth": true, "feed": true,
	"help": true, "login": true, "logout": true, "me": true, "new": true,
	"posts": true, "profile": true, "profiles": true, "rize": true,
	"root": true, "search": true, "settings": true, "signup": true,
	"support": true, "system": true,
}

// NormalizeUsername folds compatibility characters, trims and lowercases raw,
// then checks the result is an allowed username.
func NormalizeUsername(raw string) (string, error) {
	u := strings.ToLower(strings.TrimSpace(norm.NFKC.String(raw)))
	if !usernamePattern.MatchString(u) || reserved[u] {
		return "", model.ErrInvalidUsername
	}
	return u, nil
}
