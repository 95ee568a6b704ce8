package model

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/insaplace/spresso/crypto"
	"github.com/insaplace/spresso/spressoerr"
)

// IdentityAssertion composes, signs, seals and verifies the canonical
// {tag, email, forwarder_domain} body at the heart of the protocol. The
// IdP side populates Tag/Email/ForwarderDomain from the incoming
// /spresso-sign request and calls Sign; the RP side populates the same
// fields from its Session and calls Decrypt then Verify.
type IdentityAssertion struct {
	Tag             string
	Email           string
	ForwarderDomain string

	// IAKey seals/opens the EncryptedIA transported via the browser.
	IAKey []byte

	// PublicKey is the IdP's PEM-encoded RSA public key, used by Verify.
	PublicKey string
}

// FromSession populates the expected Identity Assertion fields from an RP
// Session, the fields the RP expects the IdP's signature to cover.
func (ia *IdentityAssertion) FromSession(s *Session) {
	ia.Tag = s.TagEncJSON
	ia.Email = s.User.Email()
	ia.ForwarderDomain = s.ForwarderDomain
	ia.IAKey = s.IAKey
	ia.PublicKey = s.IdPWellKnown.PublicKey
}

// RequestParams is the minimal view of an inbound POST the IdP's
// /spresso-sign handler needs to build an Identity Assertion.
type RequestParams interface {
	PostParam(name string) (string, bool)
}

// FromRequest populates tag/email/forwarder_domain from the IdP's
// /spresso-sign POST body.
func (ia *IdentityAssertion) FromRequest(req RequestParams) {
	if v, ok := req.PostParam("email"); ok {
		ia.Email = v
	}
	if v, ok := req.PostParam("tag"); ok {
		ia.Tag = v
	}
	if v, ok := req.PostParam("forwarder_domain"); ok {
		ia.ForwarderDomain = v
	}
}

// Sign produces the base64-encoded PKCS#1v15/SHA-256 signature over the
// canonical {tag, email, forwarder_domain} body, after merging in any
// additional data the site adapter contributed (additional data can only
// override fields that already exist in the body, never add new ones).
func (ia *IdentityAssertion) Sign(privateKeyPEM []byte, additional map[string]string) (string, error) {
	if len(privateKeyPEM) == 0 {
		return "", spressoerr.NewInvalidSettings("no private key configured for signing")
	}
	if ia.Tag == "" || ia.Email == "" || ia.ForwarderDomain == "" {
		return "", errors.New("model: incomplete identity assertion, cannot sign")
	}

	fields := IdentityAssertionFields{Tag: ia.Tag, Email: ia.Email, ForwarderDomain: ia.ForwarderDomain}.AsMap()
	UpdateExistingKeys(additional, fields)

	canonical, err := CanonicalJSON(fields)
	if err != nil {
		return "", err
	}

	sig, err := crypto.RSASign(privateKeyPEM, canonical)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// SignatureJSON wraps a base64 signature in the SignedAssertion wire shape.
func SignatureJSON(signatureB64 string) SignedAssertion {
	return SignedAssertion{IASignature: signatureB64}
}

// Decrypt opens an EncryptedIA JSON document (the browser-transported
// envelope around the IdP's SignedAssertion) with IAKey.
func (ia *IdentityAssertion) Decrypt(eiaJSON []byte) ([]byte, error) {
	if len(eiaJSON) == 0 {
		return nil, errors.New("model: empty encrypted identity assertion")
	}
	var env TagEnvelope
	if err := json.Unmarshal(eiaJSON, &env); err != nil {
		return nil, err
	}
	iv, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil {
		return nil, err
	}
	ctAndTag, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, err
	}
	return crypto.AEADOpen(ia.IAKey, iv, ctAndTag, nil)
}

// Verify checks signedJSON (a SignedAssertion document) against the
// canonical {tag, email, forwarder_domain} this IdentityAssertion was
// populated with via FromSession, after merging in the RP's own
// additional data the same way Sign does on the IdP side.
func (ia *IdentityAssertion) Verify(signedJSON []byte, additional map[string]string) error {
	var signed SignedAssertion
	if err := json.Unmarshal(signedJSON, &signed); err != nil {
		return err
	}
	sigBytes, err := base64.StdEncoding.DecodeString(signed.IASignature)
	if err != nil {
		return err
	}

	fields := IdentityAssertionFields{Tag: ia.Tag, Email: ia.Email, ForwarderDomain: ia.ForwarderDomain}.AsMap()
	UpdateExistingKeys(additional, fields)

	canonical, err := CanonicalJSON(fields)
	if err != nil {
		return err
	}

	if err := crypto.RSAVerify([]byte(ia.PublicKey), sigBytes, canonical); err != nil {
		return err
	}
	return nil
}
