// Package version exposes build information, set at compile time:
//
//	go build -ldflags "-X github.com/kbukum/lingolink/version.Version=1.2.0" ./cmd/lingolink
package version
