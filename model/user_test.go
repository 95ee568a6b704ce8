package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/insaplace/spresso/model"
)

func TestUserValidity(t *testing.T) {
	assert.True(t, model.NewUser("foo@bar", nil).IsValid())
	assert.False(t, model.NewUser("foo#x@bar", nil).IsValid())
	assert.False(t, model.NewUser("", nil).IsValid())
}

func TestUserNetloc(t *testing.T) {
	u := model.NewUser("foo@idp.example", nil)
	assert.True(t, u.IsValid())
	assert.Equal(t, "idp.example", u.Netloc())
	assert.Equal(t, "foo@idp.example", u.Email())
}

func TestUserInvalidHasNoNetloc(t *testing.T) {
	u := model.NewUser("foo#bar@x", nil)
	assert.False(t, u.IsValid())
	assert.Equal(t, "", u.Netloc())
}
