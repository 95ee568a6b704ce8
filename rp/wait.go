package rp

import (
	"github.com/insaplace/spresso/config"
	"github.com/insaplace/spresso/transport"
)

// WaitHandler serves GET /wait: the static template used by the browser
// as the Identity Assertion receiver frame.
type WaitHandler struct {
	Settings  *config.RelyingPartySettings
	Adapter   WaitSiteAdapter
	endpoints []*config.Endpoint
}

// NewWaitHandler builds a WaitHandler.
func NewWaitHandler(settings *config.RelyingPartySettings, adapter WaitSiteAdapter) *WaitHandler {
	ep, ok := settings.Endpoints().Get("wait")
	if !ok {
		ep, _ = config.NewEndpoint("wait", "/wait", []string{"GET"})
	}
	return &WaitHandler{Settings: settings, Adapter: adapter, endpoints: []*config.Endpoint{ep}}
}

// Endpoints implements dispatch.Grant.
func (h *WaitHandler) Endpoints() []*config.Endpoint { return h.endpoints }

// Handle implements dispatch.Grant.
func (h *WaitHandler) Handle(req transport.Request, res transport.Response) error {
	return h.Adapter.RenderPage(req, res)
}
