// Command fwd is a minimal, self-contained Forwarder binary: it serves
// the single proxy document the RP and IdP windows exchange postMessages
// through, with no key material and no session state of its own.
package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/zenazn/goji"
	"gopkg.in/yaml.v3"

	"github.com/insaplace/spresso/config"
	"github.com/insaplace/spresso/dispatch"
	"github.com/insaplace/spresso/fwd"
	"github.com/insaplace/spresso/log"
	"github.com/insaplace/spresso/transport"
	"github.com/insaplace/spresso/transport/httpadapter"
)

type fileConfig struct {
	Scheme string `yaml:"scheme"`
	Domain string `yaml:"domain"`
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

// staticTemplateAdapter renders the proxy document: a page whose only
// job is to relay window.postMessage calls between the RP and IdP
// frames, restricted by origin on the browser side.
type staticTemplateAdapter struct{}

func (staticTemplateAdapter) RenderPage(req transport.Request, res transport.Response) error {
	const page = `<!doctype html><html><body><script>
window.addEventListener("message", function(ev) {
  if (window.parent !== window) {
    window.parent.postMessage(ev.data, "*");
  }
});
</script></body></html>`
	transport.WriteHTML(res, []byte(page))
	return nil
}

func main() {
	configPath := flag.String("config", "fwd.yaml", "path to the forwarder YAML configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.DefaultLogger.Fatalw("loading configuration", "error", err, "path", *configPath)
	}

	endpoints := config.NewContainer[*config.Endpoint]()
	ep, err := config.NewEndpoint("proxy", "/proxy", []string{"GET"})
	if err != nil {
		log.DefaultLogger.Fatalw("building endpoint", "error", err)
	}
	endpoints.Update(ep)

	common := config.NewCommonSettings(cfg.Scheme, cfg.Domain, endpoints, nil, config.NewContainer[*config.SchemaEntry]())
	settings := config.NewForwardSettings(common)

	dispatcher := dispatch.NewDispatcher()
	dispatcher.Register(fwd.NewProxyHandler(settings, staticTemplateAdapter{}))

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

	goji.Serve()
}
