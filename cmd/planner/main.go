// Command planner projects net worth under return and inflation scenarios,
// compares scenarios side by side and serves the same engine over HTTP and MCP.
package main

import "os"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
