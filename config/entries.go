package config

import (
	"fmt"

	"github.com/insaplace/spresso/schema"
)

var validMethods = map[string]bool{
	"GET": true, "HEAD": true, "POST": true, "PUT": true,
	"DELETE": true, "CONNECT": true, "OPTIONS": true,
}

// Endpoint is a URL endpoint configuration entry: a path and the HTTP
// methods it answers to.
type Endpoint struct {
	Name    string
	Path    string
	Methods []string
}

// NewEndpoint validates and constructs an Endpoint.
func NewEndpoint(name, path string, methods []string) (*Endpoint, error) {
	if len(path) == 0 || path[0] != '/' {
		return nil, fmt.Errorf("config: endpoint %q path must start with '/'", name)
	}
	for _, m := range methods {
		if !validMethods[m] {
			return nil, fmt.Errorf("config: endpoint %q uses unsupported HTTP method %q", name, m)
		}
	}
	return &Endpoint{Name: name, Path: path, Methods: methods}, nil
}

// EntryName implements Entry.
func (e *Endpoint) EntryName() string { return e.Name }

// SchemaEntry binds a name (e.g. "info", "start_login") to the embedded
// JSON Schema document that validates it.
type SchemaEntry struct {
	Name   string
	Schema *schema.Schema
}

// EntryName implements Entry.
func (s *SchemaEntry) EntryName() string { return s.Name }

// ForwardDomain is a selectable forwarder configuration: the FWD's domain
// and whether Tag encryption should pad the RP origin to mask its length.
type ForwardDomain struct {
	Name    string
	Domain  string
	Padding bool
}

// EntryName implements Entry.
func (f *ForwardDomain) EntryName() string { return f.Name }

// CachingSetting controls how IdP well-known info is cached for a given
// netloc: in-memory vs. temp-file-backed, and for how long.
type CachingSetting struct {
	Name    string
	InMemory bool
	Lifetime int // seconds; <=0 disables caching for this entry
}

// EntryName implements Entry.
func (c *CachingSetting) EntryName() string { return c.Name }

// EndpointOverride holds per-netloc IdP endpoint overrides, keyed by
// netloc, carrying just the paths that can differ per-IdP; any path
// left empty falls back to the grant's default Endpoints container.
type EndpointOverride struct {
	Netloc    string
	LoginPath string
	InfoPath  string
}

// EntryName implements Entry.
func (e *EndpointOverride) EntryName() string { return e.Netloc }

// ResolvedEndpoints is the per-request result of resolving an
// EndpointOverride against the grant's default Endpoints container.
type ResolvedEndpoints struct {
	LoginPath string
	InfoPath  string
}

// ResolveEndpoints looks up netloc in ext, falling back field-by-field to
// defaults's "login"/"info" Endpoint paths.
func ResolveEndpoints(ext *Container[*EndpointOverride], defaults *Container[*Endpoint], netloc string) ResolvedEndpoints {
	var out ResolvedEndpoints

	if d, ok := defaults.Get("login"); ok {
		out.LoginPath = d.Path
	}
	if d, ok := defaults.Get("info"); ok {
		out.InfoPath = d.Path
	}

	if ext == nil {
		return out
	}
	if override, ok := ext.Get(netloc); ok {
		if override.LoginPath != "" {
			out.LoginPath = override.LoginPath
		}
		if override.InfoPath != "" {
			out.InfoPath = override.InfoPath
		}
	}
	return out
}
