package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/insaplace/spresso/model"
)

func TestOriginValid(t *testing.T) {
	o := model.NewOrigin("http://a/", "http", "a")
	assert.True(t, o.Valid())
}

func TestOriginSchemeMismatch(t *testing.T) {
	o := model.NewOrigin("http://a/", "https", "a")
	assert.False(t, o.Valid())
}

func TestOriginHostMismatch(t *testing.T) {
	o := model.NewOrigin("http://evil.example/", "http", "rp.example")
	assert.False(t, o.Valid())
}
