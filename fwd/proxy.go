// Package fwd implements the Forwarder subsystem: a single
// origin-restricted proxy document relaying postMessages between the RP
// and IdP windows.
package fwd

import (
	"github.com/insaplace/spresso/config"
	"github.com/insaplace/spresso/transport"
)

// TemplateAdapter renders the static proxy document; its content is an
// external template out of this handler's scope, which only decides
// when to render it.
type TemplateAdapter interface {
	RenderPage(req transport.Request, res transport.Response) error
}

// ProxyHandler serves GET /proxy.
type ProxyHandler struct {
	Settings  *config.ForwardSettings
	Adapter   TemplateAdapter
	endpoints []*config.Endpoint
}

// NewProxyHandler builds a ProxyHandler.
func NewProxyHandler(settings *config.ForwardSettings, adapter TemplateAdapter) *ProxyHandler {
	ep, ok := settings.Endpoints().Get("proxy")
	if !ok {
		ep, _ = config.NewEndpoint("proxy", "/proxy", []string{"GET"})
	}
	return &ProxyHandler{Settings: settings, Adapter: adapter, endpoints: []*config.Endpoint{ep}}
}

// Endpoints implements dispatch.Grant.
func (h *ProxyHandler) Endpoints() []*config.Endpoint { return h.endpoints }

// Handle implements dispatch.Grant.
func (h *ProxyHandler) Handle(req transport.Request, res transport.Response) error {
	return h.Adapter.RenderPage(req, res)
}
