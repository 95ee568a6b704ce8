package model

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/insaplace/spresso/config"
	"github.com/insaplace/spresso/schema"
)

// Session is the per-login-attempt RP state created at StartLogin, read at
// Redirect and Login. After creation only two fields change: TagEncJSON,
// recorded by GetLoginURL at Redirect, and Authenticated, flipped on a
// successful Login.
type Session struct {
	Token []byte // 16 random bytes, base64-encoded on the wire

	User         *User
	IdPWellKnown *WellKnownInfo

	TagKey     []byte // 32 bytes
	TagIV      []byte // 12 bytes
	TagEncJSON string // serialized TagEnvelope, set by GetLoginURL

	IAKey   []byte // 32 bytes
	RPNonce []byte // 16 bytes

	RPOrigin        string
	ForwarderDomain string
	Padding         bool

	Scheme         string
	IdPEndpoints   config.ResolvedEndpoints
	WellKnownSchema *schema.Schema

	Authenticated bool
}

// NewSession validates user and idpInfoJSON against settings, and
// constructs a fresh Session with freshly sampled key material. It mirrors
// the original's Session(user, idp_info, settings=settings) followed by
// session.validate(): user validity, settings wiring (forwarder selection,
// endpoint resolution, well-known schema) and well-known info schema
// validation, all performed up front so a handler either gets back a
// ready-to-use Session or an error.
func NewSession(user *User, idpInfoJSON []byte, settings *config.RelyingPartySettings, nonce NonceFunc) (*Session, error) {
	if !user.IsValid() {
		return nil, errors.New("model: user is not valid")
	}

	s := &Session{User: user, Scheme: settings.Scheme}

	if err := s.validateSettings(settings); err != nil {
		return nil, err
	}
	if err := s.validateWellKnownInfo(idpInfoJSON); err != nil {
		return nil, err
	}

	var err error
	if s.Token, err = nonce(16); err != nil {
		return nil, err
	}
	if s.TagKey, err = nonce(32); err != nil {
		return nil, err
	}
	if s.TagIV, err = nonce(12); err != nil {
		return nil, err
	}
	if s.IAKey, err = nonce(32); err != nil {
		return nil, err
	}
	if s.RPNonce, err = nonce(16); err != nil {
		return nil, err
	}

	return s, nil
}

// NonceFunc generates n cryptographically random bytes; Session takes one
// as a parameter so tests can supply deterministic byte sequences.
type NonceFunc func(n int) ([]byte, error)

func (s *Session) validateSettings(settings *config.RelyingPartySettings) error {
	if settings == nil {
		return errors.New("model: session requires settings")
	}

	netloc := s.User.Netloc()

	ext, _ := settings.EndpointsExt()
	s.IdPEndpoints = config.ResolveEndpoints(ext, settings.Endpoints(), netloc)

	schemaEntry, ok := settings.Schemas().Get("info")
	if !ok {
		return errors.New("model: no 'info' schema configured")
	}
	s.WellKnownSchema = schemaEntry.Schema

	s.RPOrigin = GetURL(settings.Scheme, settings.Domain, "", "", "")

	fwd, ok := settings.FwdSelector().Select(netloc)
	if !ok {
		return errors.New("model: no forwarder configured")
	}
	s.ForwarderDomain = fwd.Domain
	s.Padding = fwd.Padding

	return nil
}

func (s *Session) validateWellKnownInfo(idpInfoJSON []byte) error {
	obj, err := s.WellKnownSchema.ValidateJSON(idpInfoJSON)
	if err != nil {
		return err
	}
	s.IdPWellKnown = &WellKnownInfo{PublicKey: obj["public_key"]}
	return nil
}

// CreateTag builds the Tag this Session's login URL will seal.
func (s *Session) CreateTag() *Tag {
	return NewTag(s.RPOrigin, s.RPNonce, s.TagKey, s.TagIV)
}

// createLoginURL builds the scheme://idp-domain<login-path> URL the
// RP's Redirect handler sends the browser to. The IdP login path comes
// from IdPEndpoints (resolved at session creation against per-netloc
// overrides), the host from the user's IdP netloc.
func (s *Session) createLoginURL() string {
	return GetURL(s.Scheme, s.User.Netloc(), s.IdPEndpoints.LoginPath, "", "")
}

// GetLoginURL computes the full RP→IdP login URL: the IdP login page URL
// with a fragment carrying the sealed Tag, the user's email, the base64
// IA key and the forwarder domain. It also records the sealed Tag's JSON
// on the Session (TagEncJSON), which the RP's Login handler later
// reconstructs the expected Identity Assertion from.
func (s *Session) GetLoginURL() (string, error) {
	tagEnc, err := s.CreateTag().Encrypt(s.Padding)
	if err != nil {
		return "", err
	}
	tagEncJSON, err := json.Marshal(tagEnc)
	if err != nil {
		return "", err
	}
	s.TagEncJSON = string(tagEncJSON)

	loginURL := s.createLoginURL()
	iaKeyB64 := base64.StdEncoding.EncodeToString(s.IAKey)

	fragment := url.QueryEscape(s.TagEncJSON) + "&" +
		url.QueryEscape(s.User.Email()) + "&" +
		url.QueryEscape(iaKeyB64) + "&" +
		s.ForwarderDomain

	return loginURL + "#" + fragment, nil
}
