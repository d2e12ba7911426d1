package service

import (
	"regexp"
	"strings"
)

// MaxCodeLength is the longest short code accepted
const MaxCodeLength = 23

// urlPattern accepts an optional http/https/ftp/ftps scheme followed by a
// domain, localhost, an IPv4 or an IPv6 host, an optional port and an
// optional path or query without whitespace.
var urlPattern = regexp.MustCompile(`(?i)^(?:(?:http|ftp)s?://)?` +
	`(?:(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+(?:[a-z]{2,6}\.?|[a-z0-9-]{2,}\.?)|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}|` +
	`\[?[a-f0-9]*:[a-f0-9:]+\]?)` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

var codePattern = regexp.MustCompile(`^[0-9a-zA-Z]{1,23}$`)

// Codes that collide with routes served next to /:code
var reservedCodes = map[string]bool{
	"health":  true,
	"metrics": true,
}

// ValidateURL trims the input and checks it against the URL shape.
// It returns the trimmed URL.
func ValidateURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !urlPattern.MatchString(trimmed) {
		return "", ErrInvalidURL
	}
	return trimmed, nil
}

// ValidateCustomCode checks a requested short code and returns it folded to
// lower case, which is how every code is stored and looked up.
func ValidateCustomCode(raw string) (string, error) {
	if !codePattern.MatchString(raw) {
		return "", ErrInvalidCode
	}
	code := strings.ToLower(raw)
	if IsReserved(code) {
		return "", ErrInvalidCode
	}
	return code, nil
}

// IsReserved reports whether code is kept for a route
func IsReserved(code string) bool {
	return reservedCodes[code]
}

// normalizeCode folds a requested code for lookup. ok is false when the
// code can never exist.
func normalizeCode(code string) (string, bool) {
	if !codePattern.MatchString(code) {
		return "", false
	}
	return strings.ToLower(code), true
}
