// Package main provides the hagate-mcp binary — MCP server for AI agents.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	hmcp "github.com/homecfg/hagate/pkg/ecosystem/mcp"
)

var version = "dev"

func main() {
	s := hmcp.NewServer(version)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
