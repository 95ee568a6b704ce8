package rp

import (
	"encoding/base64"
	"encoding/json"

	"github.com/insaplace/spresso/config"
	"github.com/insaplace/spresso/crypto"
	"github.com/insaplace/spresso/model"
	"github.com/insaplace/spresso/schema"
	"github.com/insaplace/spresso/spressoerr"
	"github.com/insaplace/spresso/transport"
)

// StartLoginHandler serves POST /startLogin.
type StartLoginHandler struct {
	Settings    *config.RelyingPartySettings
	Adapter     StartLoginSiteAdapter
	InfoRequest *IdpInfoRequest
	endpoints   []*config.Endpoint
}

// NewStartLoginHandler builds a StartLoginHandler.
func NewStartLoginHandler(settings *config.RelyingPartySettings, adapter StartLoginSiteAdapter, infoRequest *IdpInfoRequest) *StartLoginHandler {
	ep, ok := settings.Endpoints().Get("start_login")
	if !ok {
		ep, _ = config.NewEndpoint("start_login", "/startLogin", []string{"POST"})
	}
	return &StartLoginHandler{Settings: settings, Adapter: adapter, InfoRequest: infoRequest, endpoints: []*config.Endpoint{ep}}
}

// Endpoints implements dispatch.Grant.
func (h *StartLoginHandler) Endpoints() []*config.Endpoint { return h.endpoints }

// Handle implements dispatch.Grant.
func (h *StartLoginHandler) Handle(req transport.Request, res transport.Response) error {
	email, ok := req.PostParam("email")
	if !ok {
		return spressoerr.NewInvalid("invalid_email", "", "missing email parameter")
	}

	user := model.NewUser(email, h.Settings.EmailRegexp)
	if !user.IsValid() {
		return spressoerr.NewInvalid("invalid_email", "", "malformed email address")
	}

	idpInfoJSON, err := h.InfoRequest.GetContent(req.Context(), user.Netloc())
	if err != nil {
		return err
	}

	session, err := model.NewSession(user, idpInfoJSON, h.Settings, crypto.Nonce)
	if err != nil {
		return spressoerr.NewInvalid("invalid_idp_info", "", err.Error())
	}

	if err := h.Adapter.SaveSession(session); err != nil {
		return err
	}

	info := model.StartLoginInfo{
		ForwarderDomain:   session.ForwarderDomain,
		LoginSessionToken: base64.StdEncoding.EncodeToString(session.Token),
		TagKey:            base64.StdEncoding.EncodeToString(session.TagKey),
	}
	obj := map[string]string{
		"forwarder_domain":    info.ForwarderDomain,
		"login_session_token": info.LoginSessionToken,
		"tag_key":             info.TagKey,
	}
	if err := schema.StartLogin.Validate(obj); err != nil {
		return spressoerr.NewInvalid("invalid_idp_info", "", err.Error())
	}

	body, err := json.Marshal(info)
	if err != nil {
		return err
	}
	transport.WriteJSON(res, body)
	return nil
}
