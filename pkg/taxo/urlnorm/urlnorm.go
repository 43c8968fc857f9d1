// Package urlnorm canonicalizes URLs for equivalence testing and derives
// filesystem-safe slugs. Normalization never fails: input the parser
// rejects is passed through unchanged so callers can still group on it.
package urlnorm

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/idna"
)

// Normalize rewrites raw into its canonical form:
// scheme and host lowercased, internationalized hosts punycoded, leading
// "www." dropped, default ports 80/443 dropped, tracking parameters
// removed, remaining query pairs sorted by name, fragment dropped, and
// trailing slashes trimmed when no query follows. A missing scheme is
// treated as https. Unparseable input is returned as-is.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}

	withScheme := trimmed
	if !strings.Contains(trimmed, "://") {
		withScheme = "https://" + trimmed
	}

	u, err := url.Parse(withScheme)
	if err != nil || u.Host == "" {
		return raw
	}

	host := strings.ToLower(u.Hostname())
	if ascii, err := idna.Lookup.ToASCII(host); err == nil && ascii != "" {
		host = ascii
	}
	host = strings.TrimPrefix(host, "www.")
	if strings.Contains(host, ":") { // bare IPv6 literal from Hostname
		host = "[" + host + "]"
	}

	port := u.Port()
	if port == "80" || port == "443" {
		port = ""
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	query := cleanQuery(u.RawQuery)

	var b strings.Builder
	b.WriteString(strings.ToLower(u.Scheme))
	b.WriteString("://")
	if u.User != nil {
		b.WriteString(u.User.String())
		b.WriteByte('@')
	}
	b.WriteString(host)
	if port != "" {
		b.WriteByte(':')
		b.WriteString(port)
	}
	b.WriteString(path)

	result := b.String()
	if query != "" {
		return result + "?" + query
	}
	return strings.TrimRight(result, "/")
}

// CanonicalKey is the normalized form without its http(s) scheme, used
// solely for URL-equivalence grouping.
func CanonicalKey(raw string) string {
	n := Normalize(raw)
	n = strings.TrimPrefix(n, "https://")
	n = strings.TrimPrefix(n, "http://")
	return n
}

// Slugify reduces s to the alphabet [a-z0-9-]: lowercase, every other rune
// becomes a hyphen, runs collapse, leading/trailing hyphens are trimmed.
func Slugify(s string) string {
	lowered := strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '-' })
	return strings.Join(parts, "-")
}

// cleanQuery drops tracking parameters, stably sorts the survivors by
// name, and renders empty-valued pairs as the bare name.
func cleanQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	type pair struct{ key, value string }
	var pairs []pair
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		if key == "" || isTrackingParam(key) {
			continue
		}
		pairs = append(pairs, pair{key, value})
	}
	if len(pairs) == 0 {
		return ""
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	rendered := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.value == "" {
			rendered = append(rendered, p.key)
		} else {
			rendered = append(rendered, p.key+"="+p.value)
		}
	}
	return strings.Join(rendered, "&")
}

func isTrackingParam(key string) bool {
	lowered := strings.ToLower(key)
	if strings.HasPrefix(lowered, "utm_") || strings.HasPrefix(lowered, "mc_") {
		return true
	}
	switch lowered {
	case "fbclid", "gclid", "dclid", "msclkid",
		"ref", "ref_src", "_ga", "_gl", "yclid", "twclid", "igshid",
		"s", "source", "si":
		return true
	}
	return false
}
