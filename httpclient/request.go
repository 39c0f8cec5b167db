package httpclient

import "net/http"

// Request describes one call. Path is joined to Config.BaseURL unless it is
// already absolute.
type Request struct {
	Method  string
	Path    string
	Query   map[string]string
	Headers map[string]string
	// Body is sent as-is for io.Reader and []byte, as text/plain for string,
	// as multipart/form-data for *MultipartBody and as JSON otherwise.
	Body any
	// Auth replaces Config.Auth for this call.
	Auth Auth
}

// Response is a fully read reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return kindForStatus(r.StatusCode) == "" }
