package idp_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insaplace/spresso/config"
	"github.com/insaplace/spresso/idp"
	"github.com/insaplace/spresso/model"
	"github.com/insaplace/spresso/spressoerr"
	"github.com/insaplace/spresso/transport"
)

func generateIdPKeyPair(t *testing.T) (privPEM, pubPEM []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	privPEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return
}

func idpSettings(t *testing.T, privPEM, pubPEM []byte) *config.IdentityProviderSettings {
	t.Helper()
	endpoints := config.NewContainer[*config.Endpoint]()
	schemas := config.NewContainer[*config.SchemaEntry]()
	common := config.NewCommonSettings("http", "idp.example", endpoints, nil, schemas)
	return config.NewIdentityProviderSettings(common, privPEM, pubPEM)
}

type fakeRequest struct {
	method, path, origin string
	post                 map[string]string
}

func (r *fakeRequest) Method() string { return r.method }
func (r *fakeRequest) Path() string   { return r.path }
func (r *fakeRequest) Origin() string { return r.origin }
func (r *fakeRequest) PostParam(name string) (string, bool) {
	v, ok := r.post[name]
	return v, ok
}
func (r *fakeRequest) QueryParam(string) (string, bool) { return "", false }
func (r *fakeRequest) Context() context.Context         { return context.Background() }

type fakeResponse struct {
	status  int
	headers map[string]string
	body    []byte
}

func newFakeResponse() *fakeResponse { return &fakeResponse{headers: make(map[string]string)} }

func (r *fakeResponse) SetStatus(code int)          { r.status = code }
func (r *fakeResponse) SetHeader(name, v string)    { r.headers[name] = v }
func (r *fakeResponse) SetCookie(transport.Cookie)  {}
func (r *fakeResponse) Write(body []byte)           { r.body = append(r.body, body...) }

func TestInfoHandlerServesPublicKey(t *testing.T) {
	_, pubPEM := generateIdPKeyPair(t)
	settings := idpSettings(t, nil, pubPEM)
	h := idp.NewInfoHandler(settings)

	res := newFakeResponse()
	err := h.Handle(&fakeRequest{method: "GET", path: "/.well-known/spresso-info"}, res)
	require.NoError(t, err)

	var wk model.WellKnownInfo
	require.NoError(t, json.Unmarshal(res.body, &wk))
	assert.Equal(t, string(pubPEM), wk.PublicKey)
}

type fakeLoginAdapter struct {
	user      *model.User
	authErr   error
	script    string
	rendered  bool
}

func (a *fakeLoginAdapter) AuthenticateUser(transport.Request) (*model.User, error) {
	return a.user, a.authErr
}
func (a *fakeLoginAdapter) SetJavascript(script string) { a.script = script }
func (a *fakeLoginAdapter) RenderPage(transport.Request, transport.Response) error {
	a.rendered = true
	return nil
}

func TestLoginHandlerNoLocalSessionRendersWithoutScript(t *testing.T) {
	_, pubPEM := generateIdPKeyPair(t)
	settings := idpSettings(t, nil, pubPEM)
	adapter := &fakeLoginAdapter{}
	h := idp.NewLoginHandler(settings, adapter)

	require.NoError(t, h.Handle(&fakeRequest{method: "GET", path: "/.well-known/spresso-login"}, newFakeResponse()))

	assert.True(t, adapter.rendered)
	assert.Empty(t, adapter.script)
}

func TestLoginHandlerAuthenticatedSetsScript(t *testing.T) {
	_, pubPEM := generateIdPKeyPair(t)
	settings := idpSettings(t, nil, pubPEM)
	adapter := &fakeLoginAdapter{user: model.NewUser("foo@idp.example", nil)}
	h := idp.NewLoginHandler(settings, adapter)

	require.NoError(t, h.Handle(&fakeRequest{method: "GET", path: "/.well-known/spresso-login"}, newFakeResponse()))

	assert.True(t, adapter.rendered)
	assert.Contains(t, adapter.script, "foo@idp.example")
}

type fakeSignatureAdapter struct {
	authErr    error
	additional map[string]string
	additionalErr error
}

func (a *fakeSignatureAdapter) AuthenticateUser(transport.Request) error { return a.authErr }
func (a *fakeSignatureAdapter) GetAdditionalData(transport.Request) (map[string]string, error) {
	return a.additional, a.additionalErr
}

func TestSignatureHandlerRejectsOriginMismatch(t *testing.T) {
	privPEM, pubPEM := generateIdPKeyPair(t)
	settings := idpSettings(t, privPEM, pubPEM)
	h := idp.NewSignatureHandler(settings, &fakeSignatureAdapter{})

	req := &fakeRequest{method: "POST", path: "/.well-known/spresso-sign", origin: "http://evil.example"}
	err := h.Handle(req, newFakeResponse())
	require.Error(t, err)
	_, ok := err.(*spressoerr.SpressoInvalidError)
	assert.True(t, ok)
}

func TestSignatureHandlerHappyPath(t *testing.T) {
	privPEM, pubPEM := generateIdPKeyPair(t)
	settings := idpSettings(t, privPEM, pubPEM)
	h := idp.NewSignatureHandler(settings, &fakeSignatureAdapter{})

	req := &fakeRequest{
		method: "POST",
		path:   "/.well-known/spresso-sign",
		origin: "http://idp.example",
		post: map[string]string{
			"email":            "foo@idp.example",
			"tag":              "tag-envelope-json",
			"forwarder_domain": "fwd.example",
		},
	}
	res := newFakeResponse()
	require.NoError(t, h.Handle(req, res))

	var signed model.SignedAssertion
	require.NoError(t, json.Unmarshal(res.body, &signed))
	assert.NotEmpty(t, signed.IASignature)

	verifier := &model.IdentityAssertion{
		Tag:             "tag-envelope-json",
		Email:           "foo@idp.example",
		ForwarderDomain: "fwd.example",
		PublicKey:       string(pubPEM),
	}
	assert.NoError(t, verifier.Verify(res.body, nil))
}

func TestSignatureHandlerRejectsUnauthenticated(t *testing.T) {
	privPEM, pubPEM := generateIdPKeyPair(t)
	settings := idpSettings(t, privPEM, pubPEM)
	h := idp.NewSignatureHandler(settings, &fakeSignatureAdapter{authErr: spressoerr.NewUserNotAuthenticated("no session")})

	req := &fakeRequest{method: "POST", path: "/.well-known/spresso-sign", origin: "http://idp.example"}
	err := h.Handle(req, newFakeResponse())
	require.Error(t, err)
	_, ok := err.(*spressoerr.SpressoInvalidError)
	assert.True(t, ok)
}
