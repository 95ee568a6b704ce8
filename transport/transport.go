// Package transport defines the request/response surface the SPRESSO
// core handlers consume, kept deliberately transport-agnostic per the
// "HTTP request/response adapters" out-of-core boundary: the core only
// ever talks to these two interfaces, and a concrete binding (see
// transport/httpadapter) supplies the net/http wiring.
package transport

import "context"

// Request is the minimal view of an inbound HTTP request a handler
// needs: method/path for dispatch, the Origin header for same-origin
// checks, form and query parameters, and a context for cancellation of
// any outbound call the handler makes.
type Request interface {
	Method() string
	Path() string
	Origin() string
	PostParam(name string) (string, bool)
	QueryParam(name string) (string, bool)
	Context() context.Context
}

// Cookie is a transport-agnostic cookie description; httpadapter
// translates it to an http.Cookie.
type Cookie struct {
	Name     string
	Value    string
	Path     string
	HTTPOnly bool
	Secure   bool
}

// Response is the minimal view of an outbound HTTP response a handler
// builds: status, headers, cookies and a body.
type Response interface {
	SetStatus(code int)
	SetHeader(name, value string)
	SetCookie(c Cookie)
	Write(body []byte)
}

// WriteJSON renders body as a successful JSON response with the headers
// every JSON response carries: no-store, no-cache, status 200.
func WriteJSON(res Response, body []byte) {
	res.SetHeader("Content-Type", "application/json")
	res.SetHeader("Cache-Control", "no-store")
	res.SetHeader("Pragma", "no-cache")
	res.SetStatus(200)
	res.Write(body)
}

// WriteHTML renders body as an HTML response with the same caching
// headers, for the login/index/wait/proxy template handlers.
func WriteHTML(res Response, body []byte) {
	res.SetHeader("Content-Type", "text/html; charset=utf-8")
	res.SetHeader("Cache-Control", "no-store")
	res.SetHeader("Pragma", "no-cache")
	res.SetStatus(200)
	res.Write(body)
}
