// Package testutil serves the server's handler stack from an httptest listener.
//
//	srv := testutil.New(server.Config{})
//	srv.GinEngine().GET("/hello", handler)
//	base := srv.Serve(t)
//	resp, _ := http.Get(base + "/hello")
package testutil
