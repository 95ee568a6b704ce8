// Package model holds the SPRESSO wire messages and the session/cache
// state the RP and IdP handlers operate on. Where the original
// implementation used a dynamic dict-as-struct Composition object, this
// port uses explicit typed structs with an explicit canonicalization step.
package model

import (
	"encoding/json"
	"sort"
)

// WellKnownInfo is the IdP's published metadata: its RSA public key.
type WellKnownInfo struct {
	PublicKey string `json:"public_key"`
}

// StartLoginInfo is returned by the RP's StartLogin handler.
type StartLoginInfo struct {
	ForwarderDomain   string `json:"forwarder_domain"`
	LoginSessionToken string `json:"login_session_token"`
	TagKey            string `json:"tag_key"`
}

// TagEnvelope is the AES-GCM-sealed Tag (or, reusing the same shape, the
// sealed SignedAssertion that makes up an EncryptedIA).
type TagEnvelope struct {
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
}

// SignedAssertion carries the IdP's signature over a canonical Identity
// Assertion.
type SignedAssertion struct {
	IASignature string `json:"ia_signature"`
}

// TagPlain is the plaintext sealed inside a TagEnvelope.
type TagPlain struct {
	RPOrigin string `json:"rp_origin"`
	RPNonce  string `json:"rp_nonce"`
}

// IdentityAssertionFields is the canonical Identity Assertion body that
// gets signed by the IdP and re-derived by the RP for verification:
// exactly {tag, email, forwarder_domain}.
type IdentityAssertionFields struct {
	Tag             string `json:"tag"`
	Email           string `json:"email"`
	ForwarderDomain string `json:"forwarder_domain"`
}

// AsMap returns the fields as a plain map, the representation
// CanonicalJSON and UpdateExistingKeys operate on.
func (f IdentityAssertionFields) AsMap() map[string]string {
	return map[string]string{
		"tag":              f.Tag,
		"email":            f.Email,
		"forwarder_domain": f.ForwarderDomain,
	}
}

// CanonicalJSON serializes fields with lexicographically sorted keys and
// compact separators, matching Python's json.dumps(obj, sort_keys=True).
// Go's encoding/json already emits map[string]string keys in sorted order
// and without superfluous whitespace, so this is a direct encode.
func CanonicalJSON(fields map[string]string) ([]byte, error) {
	return json.Marshal(fields)
}

// UpdateExistingKeys merges source into target, but only for keys that
// already exist in target — mirrors
// spresso.utils.base.update_existing_keys, used to let a site adapter's
// additional data override (but never introduce) Identity Assertion
// fields.
func UpdateExistingKeys(source, target map[string]string) {
	keys := make([]string, 0, len(target))
	for k := range target {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v, ok := source[k]; ok {
			target[k] = v
		}
	}
}
