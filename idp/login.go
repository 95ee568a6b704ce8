package idp

import (
	"github.com/insaplace/spresso/config"
	"github.com/insaplace/spresso/transport"
)

// LoginHandler serves GET /.well-known/spresso-login.
type LoginHandler struct {
	Settings  *config.IdentityProviderSettings
	Adapter   LoginSiteAdapter
	endpoints []*config.Endpoint
}

// NewLoginHandler builds a LoginHandler.
func NewLoginHandler(settings *config.IdentityProviderSettings, adapter LoginSiteAdapter) *LoginHandler {
	ep, ok := settings.Endpoints().Get("login")
	if !ok {
		ep, _ = config.NewEndpoint("login", "/.well-known/spresso-login", []string{"GET"})
	}
	return &LoginHandler{Settings: settings, Adapter: adapter, endpoints: []*config.Endpoint{ep}}
}

// Endpoints implements dispatch.Grant.
func (h *LoginHandler) Endpoints() []*config.Endpoint { return h.endpoints }

// Handle implements dispatch.Grant. If the adapter finds no locally
// authenticated user, the adapter's own login page is rendered as-is;
// otherwise the handler first passes the post-authentication script,
// carrying the authenticated email, to SetJavascript and then renders.
func (h *LoginHandler) Handle(req transport.Request, res transport.Response) error {
	user, err := h.Adapter.AuthenticateUser(req)
	if err != nil {
		return err
	}
	if user != nil {
		h.Adapter.SetJavascript(loginSuccessScript(user.Email()))
	}
	return h.Adapter.RenderPage(req, res)
}

// loginSuccessScript renders the JS snippet the login page embeds once
// a user has been authenticated, carrying their email to the browser's
// SPRESSO client script. The exact script body is an out-of-core
// template concern; this is the minimal payload a JS template keyed on
// the authenticated email needs.
func loginSuccessScript(email string) string {
	return "window.spressoAuthenticatedEmail = " + jsStringLiteral(email) + ";"
}

func jsStringLiteral(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			out = append(out, '\\', byte(r))
		default:
			out = append(out, string(r)...)
		}
	}
	out = append(out, '"')
	return string(out)
}
