package transport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/insaplace/spresso/transport"
)

type recordingResponse struct {
	status  int
	headers map[string]string
	cookies []transport.Cookie
	body    []byte
}

func newRecordingResponse() *recordingResponse {
	return &recordingResponse{headers: make(map[string]string)}
}

func (r *recordingResponse) SetStatus(code int)            { r.status = code }
func (r *recordingResponse) SetHeader(name, value string)  { r.headers[name] = value }
func (r *recordingResponse) SetCookie(c transport.Cookie)  { r.cookies = append(r.cookies, c) }
func (r *recordingResponse) Write(body []byte)             { r.body = append(r.body, body...) }

func TestWriteJSONSetsNoStoreHeaders(t *testing.T) {
	res := newRecordingResponse()
	transport.WriteJSON(res, []byte(`{"ok":true}`))

	assert.Equal(t, 200, res.status)
	assert.Equal(t, "application/json", res.headers["Content-Type"])
	assert.Equal(t, "no-store", res.headers["Cache-Control"])
	assert.Equal(t, "no-cache", res.headers["Pragma"])
	assert.Equal(t, []byte(`{"ok":true}`), res.body)
}

func TestWriteHTMLSetsContentType(t *testing.T) {
	res := newRecordingResponse()
	transport.WriteHTML(res, []byte("<html></html>"))

	assert.Equal(t, 200, res.status)
	assert.Equal(t, "text/html; charset=utf-8", res.headers["Content-Type"])
}
