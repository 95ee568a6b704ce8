package config_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insaplace/spresso/config"
)

func TestNewEndpointRequiresLeadingSlash(t *testing.T) {
	_, err := config.NewEndpoint("login", "login", []string{"GET"})
	assert.Error(t, err)
}

func TestNewEndpointRejectsUnsupportedMethod(t *testing.T) {
	_, err := config.NewEndpoint("login", "/login", []string{"TRACE"})
	assert.Error(t, err)
}

func TestNewEndpointHappyPath(t *testing.T) {
	ep, err := config.NewEndpoint("login", "/login", []string{"GET", "POST"})
	require.NoError(t, err)
	assert.Equal(t, "login", ep.EntryName())
}

func TestResolveEndpointsFallsBackToDefaults(t *testing.T) {
	defaults := config.NewContainer[*config.Endpoint]()
	login, _ := config.NewEndpoint("login", "/default-login", []string{"GET"})
	info, _ := config.NewEndpoint("info", "/default-info", []string{"GET"})
	defaults.Update(login)
	defaults.Update(info)

	got := config.ResolveEndpoints(nil, defaults, "idp.example")
	assert.Equal(t, "/default-login", got.LoginPath)
	assert.Equal(t, "/default-info", got.InfoPath)
}

func TestResolveEndpointsAppliesPerNetlocOverride(t *testing.T) {
	defaults := config.NewContainer[*config.Endpoint]()
	login, _ := config.NewEndpoint("login", "/default-login", []string{"GET"})
	info, _ := config.NewEndpoint("info", "/default-info", []string{"GET"})
	defaults.Update(login)
	defaults.Update(info)

	ext := config.NewContainer[*config.EndpointOverride](&config.EndpointOverride{
		Netloc:    "idp.example",
		LoginPath: "/custom-login",
	})

	got := config.ResolveEndpoints(ext, defaults, "idp.example")
	want := config.ResolvedEndpoints{LoginPath: "/custom-login", InfoPath: "/default-info"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveEndpoints mismatch (-want +got):\n%s", diff)
	}

	gotOther := config.ResolveEndpoints(ext, defaults, "other.example")
	assert.Equal(t, "/default-login", gotOther.LoginPath)
}
