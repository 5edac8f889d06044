// Package buildinfo exposes version data injected at link time:
//
//	go build -ldflags "-X github.com/NikitaDemidenko/FileCabinet-sub000/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo
