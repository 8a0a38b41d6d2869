// Command xsltdbg-mcp is the MCP server binary: exposes debug-session
// tools over stdio for AI agent callers.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/imdj360/xsltdbg/pkg/mcpadapter"
)

var version = "dev"

func main() {
	s := mcpadapter.NewServer(version)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
