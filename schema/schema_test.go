package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insaplace/spresso/schema"
)

func TestWellKnownInfoSchema(t *testing.T) {
	s, err := schema.Load("wk_info")
	require.NoError(t, err)

	assert.NoError(t, s.Validate(map[string]string{"public_key": "PEM..."}))
	assert.Error(t, s.Validate(map[string]string{}))
	assert.Error(t, s.Validate(map[string]string{"public_key": "PEM...", "extra": "nope"}))
}

func TestStartLoginSchema(t *testing.T) {
	ok := map[string]string{
		"forwarder_domain":    "fwd.example",
		"login_session_token": "dG9rZW4=",
		"tag_key":             "a2V5",
	}
	assert.NoError(t, schema.StartLogin.Validate(ok))

	missing := map[string]string{"forwarder_domain": "fwd.example"}
	assert.Error(t, schema.StartLogin.Validate(missing))
}

func TestEnvelopeSchemaValidateJSON(t *testing.T) {
	raw := []byte(`{"iv":"aXY=","ciphertext":"Y3Q="}`)
	obj, err := schema.Envelope.ValidateJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, "aXY=", obj["iv"])
}
