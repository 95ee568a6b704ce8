// Package idp implements the Identity Provider subsystem: well-known
// info publication, login page issuance and signed Identity Assertion
// issuance. Authentication and page rendering are delegated to site
// adapters the host application supplies, mapping the Python
// mixin-based site adapters onto small Go interfaces.
package idp

import (
	"github.com/insaplace/spresso/model"
	"github.com/insaplace/spresso/transport"
)

// LoginSiteAdapter backs the login handler: it tells the handler
// whether the browser already carries a locally authenticated user, and
// renders whatever HTML/JS page the handler decided on.
type LoginSiteAdapter interface {
	// AuthenticateUser returns the locally authenticated User for req,
	// or nil if the browser has no local session yet.
	AuthenticateUser(req transport.Request) (*model.User, error)
	// SetJavascript stores the script the next RenderPage call should
	// embed (the login page script, or the post-authentication script
	// carrying the user's email).
	SetJavascript(script string)
	// RenderPage writes the adapter's template, using whatever
	// SetJavascript last stored, to res.
	RenderPage(req transport.Request, res transport.Response) error
}

// SignatureSiteAdapter backs the signature handler: it authenticates
// the caller (returning spressoerr.UserNotAuthenticated on failure) and
// supplies any additional data the site wants folded into the signed
// Identity Assertion.
type SignatureSiteAdapter interface {
	// AuthenticateUser authenticates the request's caller, returning a
	// *spressoerr.UserNotAuthenticated error if it cannot.
	AuthenticateUser(req transport.Request) error
	// GetAdditionalData returns extra fields the site adapter wants
	// UpdateExistingKeys to merge into the Identity Assertion before it
	// is signed. A nil map means no additional data.
	GetAdditionalData(req transport.Request) (map[string]string, error)
}
