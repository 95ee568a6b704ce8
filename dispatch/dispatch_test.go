package dispatch_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insaplace/spresso/config"
	"github.com/insaplace/spresso/dispatch"
	"github.com/insaplace/spresso/spressoerr"
	"github.com/insaplace/spresso/transport"
)

type fakeRequest struct {
	method string
	path   string
}

func (r *fakeRequest) Method() string                              { return r.method }
func (r *fakeRequest) Path() string                                { return r.path }
func (r *fakeRequest) Origin() string                              { return "" }
func (r *fakeRequest) PostParam(string) (string, bool)             { return "", false }
func (r *fakeRequest) QueryParam(string) (string, bool)            { return "", false }
func (r *fakeRequest) Context() context.Context                    { return context.Background() }

type fakeResponse struct {
	status int
	body   []byte
}

func (r *fakeResponse) SetStatus(code int)           { r.status = code }
func (r *fakeResponse) SetHeader(string, string)     {}
func (r *fakeResponse) SetCookie(transport.Cookie)   {}
func (r *fakeResponse) Write(body []byte)            { r.body = append(r.body, body...) }

type fakeGrant struct {
	endpoints []*config.Endpoint
	err       error
	called    bool
}

func (g *fakeGrant) Endpoints() []*config.Endpoint { return g.endpoints }
func (g *fakeGrant) Handle(transport.Request, transport.Response) error {
	g.called = true
	return g.err
}

func mustEndpoint(t *testing.T, name, path string, methods ...string) *config.Endpoint {
	t.Helper()
	ep, err := config.NewEndpoint(name, path, methods)
	require.NoError(t, err)
	return ep
}

func TestDispatchMatchesAndInvokesGrant(t *testing.T) {
	grant := &fakeGrant{endpoints: []*config.Endpoint{mustEndpoint(t, "login", "/login", "GET")}}
	d := dispatch.NewDispatcher(grant)

	res := &fakeResponse{}
	d.Dispatch(&fakeRequest{method: "GET", path: "/login"}, res)

	assert.True(t, grant.called)
	assert.Zero(t, res.status)
}

func TestDispatchNoMatchYieldsUnsupportedGrant(t *testing.T) {
	d := dispatch.NewDispatcher()

	res := &fakeResponse{}
	d.Dispatch(&fakeRequest{method: "GET", path: "/nowhere"}, res)

	assert.Equal(t, 400, res.status)

	var body map[string]string
	require.NoError(t, json.Unmarshal(res.body, &body))
	assert.Equal(t, "unsupported_grant", body["error"])
}

func TestDispatchRendersInvalidErrorAsJSON400(t *testing.T) {
	grant := &fakeGrant{
		endpoints: []*config.Endpoint{mustEndpoint(t, "login", "/login", "GET")},
		err:       spressoerr.NewInvalid("invalid_origin", "", "origin mismatch"),
	}
	d := dispatch.NewDispatcher(grant)

	res := &fakeResponse{}
	d.Dispatch(&fakeRequest{method: "GET", path: "/login"}, res)

	assert.Equal(t, 400, res.status)

	var body map[string]string
	require.NoError(t, json.Unmarshal(res.body, &body))
	assert.Equal(t, "invalid_origin", body["error"])
}

func TestDispatchRendersUnhandledErrorAsJSON500(t *testing.T) {
	grant := &fakeGrant{
		endpoints: []*config.Endpoint{mustEndpoint(t, "login", "/login", "GET")},
		err:       assertErr{},
	}
	d := dispatch.NewDispatcher(grant)

	res := &fakeResponse{}
	d.Dispatch(&fakeRequest{method: "GET", path: "/login"}, res)

	assert.Equal(t, 500, res.status)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestDispatchMethodMismatchFallsThroughToUnsupported(t *testing.T) {
	grant := &fakeGrant{endpoints: []*config.Endpoint{mustEndpoint(t, "login", "/login", "GET")}}
	d := dispatch.NewDispatcher(grant)

	res := &fakeResponse{}
	d.Dispatch(&fakeRequest{method: "POST", path: "/login"}, res)

	assert.False(t, grant.called)
	assert.Equal(t, 400, res.status)
}
