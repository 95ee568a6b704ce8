// Package schema ships the SPRESSO wire messages' JSON Schemas as embedded
// data resources (spresso/model/authentication/json_schema.py's
// file_path-backed resources, loaded here at build time via go:embed
// instead of pkgutil.get_data) and a minimal validator.
//
// No JSON Schema engine appears anywhere in the example corpus this module
// was grounded on, so rather than hand-roll a full draft-07 evaluator this
// validator reads each document's own "required"/"additionalProperties"
// declarations and checks candidate objects against them — schema-driven,
// but deliberately narrow to the "are the wire fields present and is
// nothing extra leaking" question the wire protocol needs answered (see
// DESIGN.md for the stdlib-only justification).
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed json/*.json
var resources embed.FS

// Schema is a parsed JSON Schema document together with the name it was
// loaded under.
type Schema struct {
	Name                 string
	Required             []string
	Properties           map[string]json.RawMessage
	AdditionalProperties *bool
}

type document struct {
	Required             []string                   `json:"required"`
	Properties           map[string]json.RawMessage `json:"properties"`
	AdditionalProperties *bool                      `json:"additionalProperties"`
}

// Load reads and parses json/<name>.json from the embedded resource set.
func Load(name string) (*Schema, error) {
	raw, err := resources.ReadFile("json/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("schema: loading %q: %w", name, err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("schema: parsing %q: %w", name, err)
	}
	return &Schema{
		Name:                 name,
		Required:             doc.Required,
		Properties:           doc.Properties,
		AdditionalProperties: doc.AdditionalProperties,
	}, nil
}

// MustLoad is Load, panicking on error; used for package-level schema
// handles that must always be present.
func MustLoad(name string) *Schema {
	s, err := Load(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks that every required field is present and non-empty in
// obj, and — when the schema declares additionalProperties: false — that
// obj carries no field the schema doesn't know about.
func (s *Schema) Validate(obj map[string]string) error {
	for _, req := range s.Required {
		v, ok := obj[req]
		if !ok || v == "" {
			return fmt.Errorf("schema: %s: missing required field %q", s.Name, req)
		}
	}
	if s.AdditionalProperties != nil && !*s.AdditionalProperties {
		var unknown []string
		for k := range obj {
			if _, known := s.Properties[k]; !known {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return fmt.Errorf("schema: %s: unexpected field(s) %v", s.Name, unknown)
		}
	}
	return nil
}

// ValidateJSON unmarshals raw into a string-keyed map and validates it.
func (s *Schema) ValidateJSON(raw []byte) (map[string]string, error) {
	var obj map[string]string
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("schema: %s: %w", s.Name, err)
	}
	if err := s.Validate(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// Well-known schema handles used throughout the module.
var (
	WellKnownInfo   = MustLoad("wk_info")
	IdentityAssert  = MustLoad("ia_sig")
	StartLogin      = MustLoad("start_login")
	Envelope        = MustLoad("envelope")
)
