package model

import "regexp"

// DefaultEmailRegexp recognizes a syntactically valid address and splits
// off its domain.
var DefaultEmailRegexp = regexp.MustCompile(`^[^#&]+@([a-zA-Z0-9\-.]+)$`)

// User is the minimal identity the SPRESSO core cares about: an email
// address and the IdP domain derived from it. It is immutable after
// construction.
type User struct {
	email  string
	netloc string
	valid  bool
}

// NewUser parses email against rx (DefaultEmailRegexp if nil) and returns
// the resulting User. An invalid address yields a User with IsValid()
// false and an empty Netloc().
func NewUser(email string, rx *regexp.Regexp) *User {
	if rx == nil {
		rx = DefaultEmailRegexp
	}
	u := &User{email: email}
	if email == "" {
		return u
	}
	m := rx.FindStringSubmatch(email)
	if m == nil {
		return u
	}
	u.valid = true
	u.netloc = m[len(m)-1]
	return u
}

// Email returns the address the user supplied.
func (u *User) Email() string { return u.email }

// Netloc returns the domain portion of the address, or "" if invalid.
func (u *User) Netloc() string { return u.netloc }

// IsValid reports whether the email matched the configured pattern.
func (u *User) IsValid() bool { return u.valid }
