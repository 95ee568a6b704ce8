package rp

import (
	"encoding/base64"
	"net/url"

	"github.com/insaplace/spresso/config"
	"github.com/insaplace/spresso/spressoerr"
	"github.com/insaplace/spresso/transport"
)

// RedirectHandler serves GET /redirect?login_session_token=....
type RedirectHandler struct {
	Settings  *config.RelyingPartySettings
	Session   RedirectSiteAdapter
	Template  RedirectTemplateAdapter
	endpoints []*config.Endpoint
}

// NewRedirectHandler builds a RedirectHandler.
func NewRedirectHandler(settings *config.RelyingPartySettings, session RedirectSiteAdapter, template RedirectTemplateAdapter) *RedirectHandler {
	ep, ok := settings.Endpoints().Get("redirect")
	if !ok {
		ep, _ = config.NewEndpoint("redirect", "/redirect", []string{"GET"})
	}
	return &RedirectHandler{Settings: settings, Session: session, Template: template, endpoints: []*config.Endpoint{ep}}
}

// Endpoints implements dispatch.Grant.
func (h *RedirectHandler) Endpoints() []*config.Endpoint { return h.endpoints }

// Handle implements dispatch.Grant.
func (h *RedirectHandler) Handle(req transport.Request, res transport.Response) error {
	raw, ok := req.QueryParam("login_session_token")
	if !ok || raw == "" {
		return spressoerr.NewInvalid("invalid_token", "", "missing login_session_token")
	}

	unquoted, err := url.QueryUnescape(raw)
	if err != nil {
		return spressoerr.NewInvalid("invalid_token", "", err.Error())
	}
	token, err := base64.StdEncoding.DecodeString(unquoted)
	if err != nil || len(token) == 0 {
		return spressoerr.NewInvalid("invalid_token", "", "login_session_token is not valid base64")
	}

	session, ok := h.Session.LoadSession(token)
	if !ok {
		return spressoerr.NewInvalid("invalid_session", "", "no session for the given token")
	}

	loginURL, err := session.GetLoginURL()
	if err != nil {
		return spressoerr.NewInvalid("invalid_session", "", err.Error())
	}

	return h.Template.RenderRedirect(req, res, loginURL)
}
