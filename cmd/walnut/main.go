package main

import (
	"github.com/walnut-labs/walnut/internal/adapters/driving/cli"
)

// version is overridden at build time:
//
//	go build -ldflags "-X main.version=v1.2.3" ./cmd/walnut
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
