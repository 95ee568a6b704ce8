// Package httpadapter binds transport.Request/transport.Response to
// net/http, the reference HTTP transport this module ships the way
// insaplace-saml's samlsp package ships the net/http binding for the
// core SAML types.
package httpadapter

import (
	"context"
	"net/http"

	"github.com/insaplace/spresso/transport"
)

var (
	_ transport.Request  = (*Request)(nil)
	_ transport.Response = (*Response)(nil)
)

// Request adapts an *http.Request to transport.Request.
type Request struct {
	r *http.Request
}

// NewRequest wraps r. ParseForm is called eagerly so PostParam/QueryParam
// can be answered without a handler needing to know about net/http.
func NewRequest(r *http.Request) (*Request, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return &Request{r: r}, nil
}

func (req *Request) Method() string { return req.r.Method }
func (req *Request) Path() string   { return req.r.URL.Path }
func (req *Request) Origin() string { return req.r.Header.Get("Origin") }

func (req *Request) PostParam(name string) (string, bool) {
	if req.r.PostForm == nil {
		return "", false
	}
	v, ok := req.r.PostForm[name]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func (req *Request) QueryParam(name string) (string, bool) {
	v := req.r.URL.Query()
	values, ok := v[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (req *Request) Context() context.Context { return req.r.Context() }

// Raw returns the underlying *http.Request, for adapter-specific needs
// (reading cookies, headers) the transport.Request interface deliberately
// leaves out of the protocol-agnostic core.
func (req *Request) Raw() *http.Request { return req.r }

// Response adapts an http.ResponseWriter to transport.Response.
type Response struct {
	w           http.ResponseWriter
	wroteStatus bool
}

// NewResponse wraps w.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

func (res *Response) SetStatus(code int) {
	res.w.WriteHeader(code)
	res.wroteStatus = true
}

func (res *Response) SetHeader(name, value string) {
	res.w.Header().Set(name, value)
}

func (res *Response) SetCookie(c transport.Cookie) {
	http.SetCookie(res.w, &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		HttpOnly: c.HTTPOnly,
		Secure:   c.Secure,
	})
}

func (res *Response) Write(body []byte) {
	if !res.wroteStatus {
		res.w.WriteHeader(http.StatusOK)
		res.wroteStatus = true
	}
	_, _ = res.w.Write(body)
}
