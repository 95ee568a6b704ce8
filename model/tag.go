package model

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/dchest/uniuri"

	"github.com/insaplace/spresso/crypto"
)

// paddingChars mirrors the original's create_random_characters default
// charset (ASCII uppercase letters and digits).
const paddingChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// tagEnvelopeWidth is the total byte length an RP-origin-padded Tag
// plaintext field aims for, masking the true length of the RP's origin
// from the IdP.
const tagEnvelopeWidth = 256

// Tag is the plaintext that gets sealed into a TagEnvelope, binding a
// login attempt to the RP's origin.
type Tag struct {
	RPOrigin string
	RPNonce  []byte
	Key      []byte
	IV       []byte
}

// NewTag constructs a Tag for the given RP origin, nonce, AEAD key and IV.
func NewTag(rpOrigin string, rpNonce, key, iv []byte) *Tag {
	return &Tag{RPOrigin: rpOrigin, RPNonce: rpNonce, Key: key, IV: iv}
}

// Encrypt seals the Tag into a TagEnvelope. When padding is true, RPOrigin
// is extended with a literal "=" separator followed by random
// uppercase/digit characters up to tagEnvelopeWidth-1 bytes, so an
// honest-but-curious IdP cannot infer the RP's origin length from the
// ciphertext size.
func (t *Tag) Encrypt(padding bool) (*TagEnvelope, error) {
	if t.RPNonce == nil {
		return nil, errors.New("model: tag has no rp_nonce set")
	}

	origin := t.RPOrigin
	if padding {
		padLen := tagEnvelopeWidth - len(origin) - 1
		if padLen < 0 {
			return nil, errors.New("model: rp_origin too long to pad")
		}
		origin = origin + "=" + uniuri.NewLenChars(padLen, []byte(paddingChars))
	}

	plain := TagPlain{
		RPOrigin: origin,
		RPNonce:  base64.StdEncoding.EncodeToString(t.RPNonce),
	}
	data, err := CanonicalJSON(map[string]string{
		"rp_origin": plain.RPOrigin,
		"rp_nonce":  plain.RPNonce,
	})
	if err != nil {
		return nil, err
	}

	sealed, err := crypto.AEADSeal(t.Key, t.IV, data, nil)
	if err != nil {
		return nil, err
	}

	return &TagEnvelope{
		IV:         base64.StdEncoding.EncodeToString(t.IV),
		Ciphertext: base64.StdEncoding.EncodeToString(sealed),
	}, nil
}

// DecryptTag opens a TagEnvelope with the given key, returning the
// plaintext TagPlain. Used by tests exercising the origin-binding
// invariant end to end.
func DecryptTag(env *TagEnvelope, key []byte) (*TagPlain, error) {
	iv, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil {
		return nil, err
	}
	ctAndTag, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, err
	}
	plaintext, err := crypto.AEADOpen(key, iv, ctAndTag, nil)
	if err != nil {
		return nil, err
	}
	var tp TagPlain
	if err := json.Unmarshal(plaintext, &tp); err != nil {
		return nil, err
	}
	return &tp, nil
}
