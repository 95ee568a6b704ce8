// Package rp implements the Relying Party subsystem: login initiation,
// session construction, IdP metadata retrieval with caching, redirect
// payload construction and final assertion verification.
package rp

import (
	"github.com/insaplace/spresso/model"
	"github.com/insaplace/spresso/transport"
)

// IndexSiteAdapter backs the index handler: it renders the RP's HTML
// index embedding the RP JS template.
type IndexSiteAdapter interface {
	SetJavascript(script string)
	RenderPage(req transport.Request, res transport.Response) error
}

// WaitSiteAdapter backs the wait handler: a static template, no
// authentication concern, so it only needs to render.
type WaitSiteAdapter interface {
	RenderPage(req transport.Request, res transport.Response) error
}

// StartLoginSiteAdapter backs the start-login handler: it persists the
// freshly constructed Session (NEW → PERSISTED).
type StartLoginSiteAdapter interface {
	SaveSession(session *model.Session) error
}

// RedirectSiteAdapter backs the redirect handler: it looks up the
// Session a prior StartLogin persisted.
type RedirectSiteAdapter interface {
	LoadSession(token []byte) (*model.Session, bool)
}

// RedirectTemplateAdapter renders the redirect template with the
// computed login URL; kept separate from RedirectSiteAdapter because
// session loading and page rendering are independent site concerns.
type RedirectTemplateAdapter interface {
	RenderRedirect(req transport.Request, res transport.Response, loginURL string) error
}

// LoginSiteAdapter backs the login handler: it loads and replaces the
// Session (PERSISTED → AUTHENTICATED), sets the service cookie the RP
// site uses to recognize the browser afterwards, and supplies any
// additional data to fold into assertion verification.
type LoginSiteAdapter interface {
	LoadSession(token []byte) (*model.Session, bool)
	SaveSession(session *model.Session) error
	SetCookie(serviceToken []byte, res transport.Response)
	GetAdditionalData(req transport.Request) (map[string]string, error)
}
