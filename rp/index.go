package rp

import (
	"github.com/insaplace/spresso/config"
	"github.com/insaplace/spresso/transport"
)

// IndexHandler serves GET /.
type IndexHandler struct {
	Settings  *config.RelyingPartySettings
	Adapter   IndexSiteAdapter
	Script    string
	endpoints []*config.Endpoint
}

// NewIndexHandler builds an IndexHandler. script is the RP JS template
// rendered into the index page's context.
func NewIndexHandler(settings *config.RelyingPartySettings, adapter IndexSiteAdapter, script string) *IndexHandler {
	ep, ok := settings.Endpoints().Get("index")
	if !ok {
		ep, _ = config.NewEndpoint("index", "/", []string{"GET"})
	}
	return &IndexHandler{Settings: settings, Adapter: adapter, Script: script, endpoints: []*config.Endpoint{ep}}
}

// Endpoints implements dispatch.Grant.
func (h *IndexHandler) Endpoints() []*config.Endpoint { return h.endpoints }

// Handle implements dispatch.Grant.
func (h *IndexHandler) Handle(req transport.Request, res transport.Response) error {
	h.Adapter.SetJavascript(h.Script)
	return h.Adapter.RenderPage(req, res)
}
