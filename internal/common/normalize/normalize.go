// Package normalize holds the pure string transforms applied to user input
// before it reaches the store.
package normalize

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

const UntitledProblem = "Untitled Problem"

// URL canonicalizes an absolute URL by lowercasing its host, dropping the
// scheme's default port, the query string, the fragment and any trailing
// slashes from the path. Input that does not parse as an absolute URL is
// returned unchanged. URL(URL(s)) == URL(s).
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	u.Host = canonicalHost(u.Scheme, u.Host)
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = strings.TrimRight(u.RawPath, "/")
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
}

// canonicalHost lowercases host and strips an empty or default port.
// url.Parse has already lowercased the scheme.
func canonicalHost(scheme, host string) string {
	host = strings.ToLower(host)
	if strings.HasSuffix(host, ":") {
		return strings.TrimSuffix(host, ":")
	}
	if port, ok := defaultPorts[scheme]; ok {
		host = strings.TrimSuffix(host, ":"+port)
	}
	return host
}

// Title derives a display title from the last path segment of an absolute
// URL, e.g. ".../problems/two-sum/" becomes "Two Sum".
func Title(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return UntitledProblem
	}

	var last string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			last = seg
		}
	}
	if last == "" {
		return UntitledProblem
	}

	last = strings.NewReplacer("-", " ", "_", " ").Replace(last)
	words := strings.Split(last, " ")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	title := strings.Join(words, " ")
	if strings.TrimSpace(title) == "" {
		return UntitledProblem
	}
	return title
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	r, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}

// Tags splits a comma separated list, trimming each entry and dropping the
// empty ones. Order and duplicates are kept. The result is never nil.
func Tags(csv string) []string {
	tags := []string{}
	for _, t := range strings.Split(csv, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
