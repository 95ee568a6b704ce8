// Command idp is a minimal, self-contained Identity Provider binary
// wiring the idp package's handlers to net/http via goji, with a
// single-file local user store standing in for whatever authentication
// system a real deployment would plug in.
package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/zenazn/goji"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/insaplace/spresso/config"
	"github.com/insaplace/spresso/dispatch"
	"github.com/insaplace/spresso/idp"
	"github.com/insaplace/spresso/log"
	"github.com/insaplace/spresso/model"
	"github.com/insaplace/spresso/spressoerr"
	"github.com/insaplace/spresso/transport"
	"github.com/insaplace/spresso/transport/httpadapter"
)

type fileConfig struct {
	Scheme         string            `yaml:"scheme"`
	Domain         string            `yaml:"domain"`
	PrivateKeyPath string            `yaml:"private_key_path"`
	PublicKeyPath  string            `yaml:"public_key_path"`
	JWTSecret      string            `yaml:"jwt_secret"`
	Users          map[string]string `yaml:"users"`
}

func loadConfig(path string) (*fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// sessionClaims is the local-login JWT payload stored in the idp_session
// cookie, distinct from the protocol's own signed Identity Assertion.
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// userStore authenticates local credentials and issues/validates the
// idp_session cookie, standing in for whatever the IdP's real login
// backend looks like.
type userStore struct {
	users     map[string]string // email -> bcrypt hash
	jwtSecret []byte
}

func (u *userStore) checkPassword(email, password string) bool {
	hash, ok := u.users[email]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (u *userStore) issueToken(email string) (string, error) {
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(u.jwtSecret)
}

func (u *userStore) emailFromToken(tokenString string) (string, bool) {
	if tokenString == "" {
		return "", false
	}
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return u.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	return claims.Email, true
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// localLoginAdapter implements idp.LoginSiteAdapter.
type localLoginAdapter struct {
	store  *userStore
	script string
}

func (a *localLoginAdapter) AuthenticateUser(req transport.Request) (*model.User, error) {
	raw, ok := req.(*httpadapter.Request)
	if !ok {
		return nil, nil
	}
	email, ok := a.store.emailFromToken(cookieValue(raw.Raw(), "idp_session"))
	if !ok {
		return nil, nil
	}
	return model.NewUser(email, nil), nil
}

func (a *localLoginAdapter) SetJavascript(script string) { a.script = script }

func (a *localLoginAdapter) RenderPage(req transport.Request, res transport.Response) error {
	page := "<!doctype html><html><body>" +
		"<form method=\"post\" action=\"/local-login\">" +
		"<input name=\"email\"><input name=\"password\" type=\"password\">" +
		"<button type=\"submit\">Sign in</button></form>" +
		"<script>" + a.script + "</script></body></html>"
	transport.WriteHTML(res, []byte(page))
	return nil
}

// localSignatureAdapter implements idp.SignatureSiteAdapter.
type localSignatureAdapter struct {
	store *userStore
}

func (a *localSignatureAdapter) AuthenticateUser(req transport.Request) error {
	raw, ok := req.(*httpadapter.Request)
	if !ok {
		return spressoerr.NewUserNotAuthenticated("request carries no local session")
	}
	if _, ok := a.store.emailFromToken(cookieValue(raw.Raw(), "idp_session")); !ok {
		return spressoerr.NewUserNotAuthenticated("no valid idp_session cookie")
	}
	return nil
}

func (a *localSignatureAdapter) GetAdditionalData(req transport.Request) (map[string]string, error) {
	return nil, nil
}

func main() {
	configPath := flag.String("config", "idp.yaml", "path to the IdP YAML configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.DefaultLogger.Fatalw("loading configuration", "error", err, "path", *configPath)
	}

	privPEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		log.DefaultLogger.Fatalw("reading private key", "error", err, "path", cfg.PrivateKeyPath)
	}
	pubPEM, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		log.DefaultLogger.Fatalw("reading public key", "error", err, "path", cfg.PublicKeyPath)
	}

	endpoints := config.NewContainer[*config.Endpoint]()
	for _, e := range []struct {
		name, path, method string
	}{
		{"info", "/.well-known/spresso-info", "GET"},
		{"login", "/.well-known/spresso-login", "GET"},
		{"sign", "/.well-known/spresso-sign", "POST"},
	} {
		ep, err := config.NewEndpoint(e.name, e.path, []string{e.method})
		if err != nil {
			log.DefaultLogger.Fatalw("building endpoint", "error", err, "name", e.name)
		}
		endpoints.Update(ep)
	}

	common := config.NewCommonSettings(cfg.Scheme, cfg.Domain, endpoints, nil, config.NewContainer[*config.SchemaEntry]())
	settings := config.NewIdentityProviderSettings(common, privPEM, pubPEM)

	store := &userStore{users: cfg.Users, jwtSecret: []byte(cfg.JWTSecret)}
	loginAdapter := &localLoginAdapter{store: store}
	signatureAdapter := &localSignatureAdapter{store: store}

	dispatcher := dispatch.NewDispatcher()
	dispatcher.Register(idp.NewInfoHandler(settings))
	dispatcher.Register(idp.NewLoginHandler(settings, loginAdapter))
	dispatcher.Register(idp.NewSignatureHandler(settings, signatureAdapter))

	goji.Post("/local-login", func(w http.ResponseWriter, r *http.Request) {
		correlationID := uuid.NewString()
		logger := log.WithCorrelationID(correlationID)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		email := r.PostFormValue("email")
		password := r.PostFormValue("password")

		if !store.checkPassword(email, password) {
			logger.Infow("local login failed", "email", email)
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		token, err := store.issueToken(email)
		if err != nil {
			logger.Errorw("issuing session token", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "idp_session", Value: token, Path: "/", HttpOnly: true})

		body, _ := json.Marshal(map[string]string{"email": email})
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	})

	catchAll := func(w http.ResponseWriter, r *http.Request) {
		req, err := httpadapter.NewRequest(r)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		dispatcher.Dispatch(req, httpadapter.NewResponse(w))
	}
	goji.Get("/*", catchAll)
	goji.Post("/*", catchAll)

	goji.Serve()
}
