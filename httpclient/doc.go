// Package httpclient calls the upstream services behind the stage backends:
// the whisper sidecar and the Google translate and speech endpoints.
// Failures come back as *Error with a Kind, so a backend can tell a
// rejected request (KindRejected, KindNotFound) from an unreachable or
// failing service.
//
//	client, _ := httpclient.New(httpclient.Config{
//	    Name:    "whisper",
//	    BaseURL: "http://localhost:8387",
//	    Timeout: 2 * time.Minute,
//	})
//	resp, err := client.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/load", Body: req})
//	if httpclient.IsRejected(err) { ... }
package httpclient
