// Command rp is a minimal, self-contained Relying Party binary wiring
// the rp package's handlers to net/http via goji, with an in-process
// session store and a JWT-backed service cookie standing in for
// whatever session system a real deployment would plug in.
package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/zenazn/goji"
	"gopkg.in/yaml.v3"

	"github.com/insaplace/spresso/config"
	"github.com/insaplace/spresso/dispatch"
	"github.com/insaplace/spresso/log"
	"github.com/insaplace/spresso/rp"
	"github.com/insaplace/spresso/schema"
	"github.com/insaplace/spresso/transport"
	"github.com/insaplace/spresso/transport/httpadapter"
)

type fwdConfig struct {
	Name    string `yaml:"name"`
	Domain  string `yaml:"domain"`
	Padding bool   `yaml:"padding"`
}

type fileConfig struct {
	Scheme      string      `yaml:"scheme"`
	Domain      string      `yaml:"domain"`
	JWTSecret   string      `yaml:"jwt_secret"`
	Forwarders  []fwdConfig `yaml:"forwarders"`
	CacheTTLSec int         `yaml:"cache_ttl_seconds"`
}

func loadConfig(path string) (*fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// serviceClaims is the RP's own browser-session JWT payload, distinct
// from the protocol's Identity Assertion; it is issued once Login has
// verified the assertion. Its Email claim holds the service token Login
// passes to SetCookie (the session's raw login token), not the user's
// address.
type serviceClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type serviceCookieAdapter struct {
	secret []byte
}

func (a *serviceCookieAdapter) issue(serviceToken []byte) (string, error) {
	claims := serviceClaims{
		Email: string(serviceToken),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// siteAdapter is the example site's single adapter implementation,
// covering index/wait rendering and the StoreAdapter-backed session
// persistence rp.StartLoginHandler/RedirectHandler/LoginHandler need.
type siteAdapter struct {
	*rp.StoreAdapter
	script  string
	cookies *serviceCookieAdapter
}

func (a *siteAdapter) SetJavascript(script string) { a.script = script }

func (a *siteAdapter) RenderPage(req transport.Request, res transport.Response) error {
	page := "<!doctype html><html><body><script>" + a.script + "</script></body></html>"
	transport.WriteHTML(res, []byte(page))
	return nil
}

func (a *siteAdapter) GetAdditionalData(req transport.Request) (map[string]string, error) {
	return nil, nil
}

func (a *siteAdapter) SetCookie(serviceToken []byte, res transport.Response) {
	token, err := a.cookies.issue(serviceToken)
	if err != nil {
		log.DefaultLogger.Errorw("issuing service cookie", "error", err)
		return
	}
	res.SetCookie(transport.Cookie{Name: "rp_session", Value: token, Path: "/", HTTPOnly: true})
}

type redirectTemplateAdapter struct{}

func (redirectTemplateAdapter) RenderRedirect(req transport.Request, res transport.Response, loginURL string) error {
	page := "<!doctype html><html><body><script>window.location.replace(" +
		jsonString(loginURL) + ");</script></body></html>"
	transport.WriteHTML(res, []byte(page))
	return nil
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func main() {
	configPath := flag.String("config", "rp.yaml", "path to the RP YAML configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.DefaultLogger.Fatalw("loading configuration", "error", err, "path", *configPath)
	}

	endpoints := config.NewContainer[*config.Endpoint]()
	for _, e := range []struct {
		name, path, method string
	}{
		{"index", "/", "GET"},
		{"wait", "/wait", "GET"},
		{"start_login", "/startLogin", "POST"},
		{"login", "/login", "POST"},
		{"redirect", "/redirect", "GET"},
	} {
		ep, err := config.NewEndpoint(e.name, e.path, []string{e.method})
		if err != nil {
			log.DefaultLogger.Fatalw("building endpoint", "error", err, "name", e.name)
		}
		endpoints.Update(ep)
	}

	fwdSelector := config.NewSelectionContainer[*config.ForwardDomain](config.StrategySelect)
	for _, f := range cfg.Forwarders {
		fwdSelector.Update(&config.ForwardDomain{Name: f.Name, Domain: f.Domain, Padding: f.Padding})
	}

	caching := config.NewContainer[*config.CachingSetting](&config.CachingSetting{
		Name: config.DefaultEntryName, InMemory: true, Lifetime: cfg.CacheTTLSec,
	})

	schemas := config.NewContainer[*config.SchemaEntry](&config.SchemaEntry{Name: "info", Schema: schema.WellKnownInfo})
	common := config.NewCommonSettings(cfg.Scheme, cfg.Domain, endpoints, nil, schemas)
	settings := config.NewRelyingPartySettings(common, fwdSelector, caching)

	store := rp.NewSessionStore()
	storeAdapter := rp.NewStoreAdapter(store)
	infoRequest := rp.NewIdpInfoRequest(settings, rp.NewCache(), nil, false)

	site := &siteAdapter{StoreAdapter: storeAdapter, cookies: &serviceCookieAdapter{secret: []byte(cfg.JWTSecret)}}

	dispatcher := dispatch.NewDispatcher()
	dispatcher.Register(rp.NewIndexHandler(settings, site, "/* rp client script */"))
	dispatcher.Register(rp.NewWaitHandler(settings, site))
	dispatcher.Register(rp.NewStartLoginHandler(settings, site, infoRequest))
	dispatcher.Register(rp.NewLoginHandler(settings, site))
	dispatcher.Register(rp.NewRedirectHandler(settings, site, redirectTemplateAdapter{}))

	catchAll := func(w http.ResponseWriter, r *http.Request) {
		correlationID := uuid.NewString()
		req, err := httpadapter.NewRequest(r)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		log.WithCorrelationID(correlationID).Infow("dispatching", "method", r.Method, "path", r.URL.Path)
		dispatcher.Dispatch(req, httpadapter.NewResponse(w))
	}
	goji.Get("/*", catchAll)
	goji.Post("/*", catchAll)

	goji.Serve()
}
