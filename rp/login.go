package rp

import (
	"encoding/base64"

	"github.com/insaplace/spresso/config"
	"github.com/insaplace/spresso/model"
	"github.com/insaplace/spresso/spressoerr"
	"github.com/insaplace/spresso/transport"
)

// LoginHandler serves POST /login.
type LoginHandler struct {
	Settings  *config.RelyingPartySettings
	Adapter   LoginSiteAdapter
	endpoints []*config.Endpoint
}

// NewLoginHandler builds a LoginHandler.
func NewLoginHandler(settings *config.RelyingPartySettings, adapter LoginSiteAdapter) *LoginHandler {
	ep, ok := settings.Endpoints().Get("login")
	if !ok {
		ep, _ = config.NewEndpoint("login", "/login", []string{"POST"})
	}
	return &LoginHandler{Settings: settings, Adapter: adapter, endpoints: []*config.Endpoint{ep}}
}

// Endpoints implements dispatch.Grant.
func (h *LoginHandler) Endpoints() []*config.Endpoint { return h.endpoints }

// Handle implements dispatch.Grant.
func (h *LoginHandler) Handle(req transport.Request, res transport.Response) error {
	tokenB64, ok1 := req.PostParam("login_session_token")
	eiaJSON, ok2 := req.PostParam("eia")
	if !ok1 || !ok2 || tokenB64 == "" || eiaJSON == "" {
		return spressoerr.NewInvalid("missing_param", "", "login_session_token and eia are required")
	}

	origin := model.NewOrigin(req.Origin(), h.Settings.Scheme, h.Settings.Domain)
	if !origin.Valid() {
		return spressoerr.NewInvalid("origin", "", "Origin header does not match the RP origin")
	}

	token, err := base64.StdEncoding.DecodeString(tokenB64)
	if err != nil {
		return spressoerr.NewInvalid("invalid_session", "", "login_session_token is not valid base64")
	}

	session, ok := h.Adapter.LoadSession(token)
	if !ok {
		return spressoerr.NewInvalid("invalid_session", "", "no session for the given token")
	}

	ia := &model.IdentityAssertion{}
	ia.FromSession(session)

	signedJSON, err := ia.Decrypt([]byte(eiaJSON))
	if err != nil {
		return spressoerr.NewInvalid("invalid_eia", "", err.Error())
	}

	additional, err := h.Adapter.GetAdditionalData(req)
	if err != nil {
		return spressoerr.NewUnsupportedAdditionalData(err.Error())
	}

	if err := ia.Verify(signedJSON, additional); err != nil {
		return spressoerr.NewInvalid("invalid_signature", "", err.Error())
	}

	session.Authenticated = true
	if err := h.Adapter.SaveSession(session); err != nil {
		return err
	}

	h.Adapter.SetCookie(session.Token, res)
	transport.WriteJSON(res, []byte(session.User.Email()))
	return nil
}
