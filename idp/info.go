package idp

import (
	"encoding/json"

	"github.com/insaplace/spresso/config"
	"github.com/insaplace/spresso/model"
	"github.com/insaplace/spresso/schema"
	"github.com/insaplace/spresso/spressoerr"
	"github.com/insaplace/spresso/transport"
)

// InfoHandler serves GET /.well-known/spresso-info.
type InfoHandler struct {
	Settings  *config.IdentityProviderSettings
	endpoints []*config.Endpoint
}

// NewInfoHandler builds an InfoHandler, resolving its endpoint from
// settings (falling back to the well-known default path).
func NewInfoHandler(settings *config.IdentityProviderSettings) *InfoHandler {
	ep, ok := settings.Endpoints().Get("info")
	if !ok {
		ep, _ = config.NewEndpoint("info", "/.well-known/spresso-info", []string{"GET"})
	}
	return &InfoHandler{Settings: settings, endpoints: []*config.Endpoint{ep}}
}

// Endpoints implements dispatch.Grant.
func (h *InfoHandler) Endpoints() []*config.Endpoint { return h.endpoints }

// Handle implements dispatch.Grant.
func (h *InfoHandler) Handle(req transport.Request, res transport.Response) error {
	wk := model.WellKnownInfo{PublicKey: string(h.Settings.PublicKeyPEM)}

	obj := map[string]string{"public_key": wk.PublicKey}
	if err := schema.WellKnownInfo.Validate(obj); err != nil {
		return spressoerr.NewInvalid("invalid_well_known_info", "", err.Error())
	}

	body, err := json.Marshal(wk)
	if err != nil {
		return err
	}
	transport.WriteJSON(res, body)
	return nil
}
