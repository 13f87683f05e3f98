package logging

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	urlPattern        = regexp.MustCompile(`https?://[^\s"']+`)
	credentialPattern = regexp.MustCompile(`(?i)(token|secret|password|auth)[=:]["']?([^\s"'&]+)`)
)

// MaskCredential keeps the first and last four characters of a long secret.
func MaskCredential(value string) string {
	if len(value) == 0 {
		return ""
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	if len(value) <= 8 {
		return value[:2] + strings.Repeat("*", len(value)-2)
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

// RedactURL masks everything after the first path segment of a URL, along
// with any query string. Incoming-webhook URLs carry their secret there.
func RedactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return MaskCredential(raw)
	}

	out := u.Scheme + "://" + u.Host
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if segments[0] != "" {
		out += "/" + segments[0]
	}
	if len(segments) > 1 {
		out += "/" + MaskCredential(strings.Join(segments[1:], "/"))
	}
	if u.RawQuery != "" {
		out += "?***"
	}
	return out
}

// MaskSecrets redacts URLs and key=value credentials found in s.
func MaskSecrets(s string) string {
	s = urlPattern.ReplaceAllStringFunc(s, RedactURL)
	return credentialPattern.ReplaceAllStringFunc(s, func(match string) string {
		sub := credentialPattern.FindStringSubmatch(match)
		return sub[1] + "=" + MaskCredential(sub[2])
	})
}
