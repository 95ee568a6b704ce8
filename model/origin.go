package model

import "net/url"

// Origin validates the value of a request's Origin header against the
// scheme+host the handler's settings expect, by structural comparison of
// the parsed URLs (scheme, host, path, query, fragment all equal).
type Origin struct {
	expectedScheme string
	expectedDomain string
	header         string
}

// NewOrigin builds an Origin validator for the given header value, checked
// against scheme://domain.
func NewOrigin(header, scheme, domain string) *Origin {
	return &Origin{expectedScheme: scheme, expectedDomain: domain, header: header}
}

// Expected returns the scheme://domain URL the header is compared against.
func (o *Origin) Expected() string {
	return GetURL(o.expectedScheme, o.expectedDomain, "", "", "")
}

// Valid reports whether the header matches Expected() under structural URL
// equality. An empty path and "/" are treated as the same root path, so
// that a bare scheme://host settings pair matches a browser-supplied
// Origin header, which always carries a trailing slash.
func (o *Origin) Valid() bool {
	expected, err := url.Parse(o.Expected())
	if err != nil {
		return false
	}
	got, err := url.Parse(o.header)
	if err != nil {
		return false
	}
	return expected.Scheme == got.Scheme &&
		expected.Host == got.Host &&
		normalizeRootPath(expected.Path) == normalizeRootPath(got.Path) &&
		expected.RawQuery == got.RawQuery &&
		expected.Fragment == got.Fragment
}

func normalizeRootPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

// GetURL composes a URL from its parts, mirroring
// spresso.utils.base.get_url (a thin wrapper around urlunparse there, and
// around net/url.URL here).
func GetURL(scheme, host, path, rawQuery, fragment string) string {
	u := url.URL{Scheme: scheme, Host: host, Path: path, RawQuery: rawQuery, Fragment: fragment}
	return u.String()
}
