package config

import "regexp"

// CommonSettings holds the configuration every SPRESSO role (RP, IdP, FWD)
// needs: its own scheme/domain (used to build its own origin and to sign
// or validate URLs against it), the default endpoint table, per-netloc
// endpoint overrides, and the wire schemas it validates against.
type CommonSettings struct {
	Scheme string
	Domain string

	endpoints    *Container[*Endpoint]
	endpointsExt *Container[*EndpointOverride]
	schemas      *Container[*SchemaEntry]
}

// NewCommonSettings builds a CommonSettings. endpointsExt may be nil when
// the deployment has no per-netloc overrides.
func NewCommonSettings(scheme, domain string, endpoints *Container[*Endpoint], endpointsExt *Container[*EndpointOverride], schemas *Container[*SchemaEntry]) CommonSettings {
	return CommonSettings{
		Scheme:       scheme,
		Domain:       domain,
		endpoints:    endpoints,
		endpointsExt: endpointsExt,
		schemas:      schemas,
	}
}

// Endpoints returns the default, role-wide endpoint table.
func (c *CommonSettings) Endpoints() *Container[*Endpoint] { return c.endpoints }

// EndpointsExt returns the per-netloc endpoint override table, if any was
// configured.
func (c *CommonSettings) EndpointsExt() (*Container[*EndpointOverride], bool) {
	return c.endpointsExt, c.endpointsExt != nil
}

// Schemas returns the wire-message schema table.
func (c *CommonSettings) Schemas() *Container[*SchemaEntry] { return c.schemas }

// RelyingPartySettings is the configuration an RP grant needs to validate
// a user, select a forwarder and resolve the IdP it is about to redirect
// to.
type RelyingPartySettings struct {
	CommonSettings

	fwdSelector *SelectionContainer[*ForwardDomain]
	caching     *Container[*CachingSetting]

	// EmailRegexp validates and splits a user-supplied address; nil
	// falls back to model.DefaultEmailRegexp.
	EmailRegexp *regexp.Regexp
}

// NewRelyingPartySettings builds a RelyingPartySettings.
func NewRelyingPartySettings(common CommonSettings, fwdSelector *SelectionContainer[*ForwardDomain], caching *Container[*CachingSetting]) *RelyingPartySettings {
	return &RelyingPartySettings{CommonSettings: common, fwdSelector: fwdSelector, caching: caching}
}

// FwdSelector returns the forwarder-domain selection container used to
// pick which FWD masks this RP's origin for a given IdP netloc.
func (s *RelyingPartySettings) FwdSelector() *SelectionContainer[*ForwardDomain] {
	return s.fwdSelector
}

// Caching returns the per-netloc IdP well-known info caching policy.
func (s *RelyingPartySettings) Caching() *Container[*CachingSetting] { return s.caching }

// IdentityProviderSettings is the configuration an IdP grant needs: its
// signing key and the site adapter's login/signature hooks are wired at
// the idp package level, but the key material and schema/endpoint tables
// live here.
type IdentityProviderSettings struct {
	CommonSettings

	PrivateKeyPEM []byte
	PublicKeyPEM  []byte
}

// NewIdentityProviderSettings builds an IdentityProviderSettings.
func NewIdentityProviderSettings(common CommonSettings, privateKeyPEM, publicKeyPEM []byte) *IdentityProviderSettings {
	return &IdentityProviderSettings{CommonSettings: common, PrivateKeyPEM: privateKeyPEM, PublicKeyPEM: publicKeyPEM}
}

// ForwardSettings is the configuration the FWD proxy needs: just the
// common endpoint/schema surface, since a forwarder has no key material
// of its own and no site adapter.
type ForwardSettings struct {
	CommonSettings
}

// NewForwardSettings builds a ForwardSettings.
func NewForwardSettings(common CommonSettings) *ForwardSettings {
	return &ForwardSettings{CommonSettings: common}
}

// ApiInformationSettings configures the optional "api information" grant
// exposed alongside each role for operational introspection (version/
// health style responses); kept minimal since no wire format beyond
// "informational" is defined for it.
type ApiInformationSettings struct {
	CommonSettings

	Version string
}

// NewApiInformationSettings builds an ApiInformationSettings.
func NewApiInformationSettings(common CommonSettings, version string) *ApiInformationSettings {
	return &ApiInformationSettings{CommonSettings: common, Version: version}
}
