package idp

import (
	"encoding/json"

	"github.com/insaplace/spresso/config"
	"github.com/insaplace/spresso/model"
	"github.com/insaplace/spresso/schema"
	"github.com/insaplace/spresso/spressoerr"
	"github.com/insaplace/spresso/transport"
)

// SignatureHandler serves POST /.well-known/spresso-sign.
type SignatureHandler struct {
	Settings  *config.IdentityProviderSettings
	Adapter   SignatureSiteAdapter
	endpoints []*config.Endpoint
}

// NewSignatureHandler builds a SignatureHandler.
func NewSignatureHandler(settings *config.IdentityProviderSettings, adapter SignatureSiteAdapter) *SignatureHandler {
	ep, ok := settings.Endpoints().Get("sign")
	if !ok {
		ep, _ = config.NewEndpoint("sign", "/.well-known/spresso-sign", []string{"POST"})
	}
	return &SignatureHandler{Settings: settings, Adapter: adapter, endpoints: []*config.Endpoint{ep}}
}

// Endpoints implements dispatch.Grant.
func (h *SignatureHandler) Endpoints() []*config.Endpoint { return h.endpoints }

// Handle implements dispatch.Grant.
func (h *SignatureHandler) Handle(req transport.Request, res transport.Response) error {
	origin := model.NewOrigin(req.Origin(), h.Settings.Scheme, h.Settings.Domain)
	if !origin.Valid() {
		return spressoerr.NewInvalid("origin", "", "Origin header does not match the IdP origin")
	}

	if err := h.Adapter.AuthenticateUser(req); err != nil {
		if _, ok := err.(*spressoerr.UserNotAuthenticated); ok {
			return spressoerr.NewInvalid("authentication_failed", "", err.Error())
		}
		return err
	}

	ia := &model.IdentityAssertion{}
	ia.FromRequest(req)
	if ia.Tag == "" || ia.Email == "" || ia.ForwarderDomain == "" {
		return spressoerr.NewInvalid("missing_param", "", "tag, email and forwarder_domain are all required")
	}

	additional, err := h.Adapter.GetAdditionalData(req)
	if err != nil {
		return spressoerr.NewUnsupportedAdditionalData(err.Error())
	}

	sigB64, err := ia.Sign(h.Settings.PrivateKeyPEM, additional)
	if err != nil {
		return spressoerr.NewInvalid("signing_failed", "", err.Error())
	}

	signed := model.SignatureJSON(sigB64)
	if err := schema.IdentityAssert.Validate(map[string]string{"ia_signature": signed.IASignature}); err != nil {
		return spressoerr.NewInvalid("signing_failed", "", err.Error())
	}

	body, err := json.Marshal(signed)
	if err != nil {
		return spressoerr.NewInvalid("signing_failed", "", err.Error())
	}
	transport.WriteJSON(res, body)
	return nil
}
