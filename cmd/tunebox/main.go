// Package main is the entry point for tunebox.
//
// Build:
//
//	go build -ldflags "-X github.com/tejashwikalptaru/tunebox/internal/app.Version=v0.1.0" -o build/tunebox ./cmd/tunebox
//
// Run:
//
//	./build/tunebox serve --config tunebox.yaml
package main

import "github.com/tejashwikalptaru/tunebox/internal/cli"

func main() {
	cli.Execute()
}
