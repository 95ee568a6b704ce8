// Package dispatch routes an inbound request to the grant that
// registered a matching (path, method) endpoint, and renders the JSON
// error envelope for protocol failures and unmatched requests.
package dispatch

import (
	"encoding/json"
	"net/http"

	"github.com/crewjam/httperr"

	"github.com/insaplace/spresso/config"
	"github.com/insaplace/spresso/log"
	"github.com/insaplace/spresso/spressoerr"
	"github.com/insaplace/spresso/transport"
)

// Grant is anything the dispatcher can route to: a set of endpoints it
// answers, and a handler invoked once one of them matches.
type Grant interface {
	Endpoints() []*config.Endpoint
	Handle(req transport.Request, res transport.Response) error
}

// Dispatcher holds the registered grants and routes requests to them in
// registration order, first match wins.
type Dispatcher struct {
	grants []Grant
}

// NewDispatcher builds a Dispatcher over the given grants.
func NewDispatcher(grants ...Grant) *Dispatcher {
	return &Dispatcher{grants: grants}
}

// Register appends a grant to the dispatch table.
func (d *Dispatcher) Register(g Grant) {
	d.grants = append(d.grants, g)
}

// Dispatch matches req against every registered grant's endpoints and
// invokes the first match's handler. A protocol error the handler
// returns is rendered as JSON 400; any other error is logged and
// surfaced as a JSON 500. No match renders UnsupportedGrantError as
// JSON 400.
func (d *Dispatcher) Dispatch(req transport.Request, res transport.Response) {
	for _, g := range d.grants {
		for _, ep := range g.Endpoints() {
			if ep.Path != req.Path() || !methodAllowed(ep.Methods, req.Method()) {
				continue
			}
			if err := g.Handle(req, res); err != nil {
				writeError(res, err)
			}
			return
		}
	}
	writeError(res, spressoerr.NewUnsupportedGrantError("no grant registered for "+req.Method()+" "+req.Path()))
}

func methodAllowed(methods []string, method string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

// errorBody is the JSON shape used for protocol errors:
// {error, error_description, uri?}.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	URI              string `json:"uri,omitempty"`
}

func writeError(res transport.Response, err error) {
	res.SetHeader("Content-Type", "application/json")
	res.SetHeader("Cache-Control", "no-store")
	res.SetHeader("Pragma", "no-cache")

	switch e := err.(type) {
	case *spressoerr.SpressoInvalidError:
		res.SetStatus(http.StatusBadRequest)
		body, _ := json.Marshal(errorBody{Error: e.Err, ErrorDescription: e.Explanation, URI: e.URI})
		res.Write(body)
	case *spressoerr.UnsupportedGrantError:
		res.SetStatus(http.StatusBadRequest)
		body, _ := json.Marshal(errorBody{Error: "unsupported_grant", ErrorDescription: e.Error()})
		res.Write(body)
	case *spressoerr.UnsupportedAdditionalData:
		wrapped := httperr.New(http.StatusInternalServerError, e.Error(), e)
		log.DefaultLogger.Errorw("unsupported additional data from site adapter", "error", wrapped)
		res.SetStatus(http.StatusInternalServerError)
		body, _ := json.Marshal(errorBody{Error: "server_error", ErrorDescription: e.Error()})
		res.Write(body)
	default:
		wrapped := httperr.New(http.StatusInternalServerError, "unhandled error", err)
		log.DefaultLogger.Errorw("unhandled handler error", "error", wrapped)
		res.SetStatus(http.StatusInternalServerError)
		body, _ := json.Marshal(errorBody{Error: "server_error", ErrorDescription: "internal error"})
		res.Write(body)
	}
}
