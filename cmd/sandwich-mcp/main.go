// Command sandwich-mcp exposes the bread/cheese/ham analyzer as an MCP
// stdio server. It is a thin shell over internal/mcpserver; "sandwich
// serve" does the same thing from the unified CLI binary.
package main

import (
	"fmt"
	"os"

	"github.com/sandwich-gate/complexity/internal/mcpserver"
	"github.com/sandwich-gate/complexity/pkg/gate"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println("sandwich-mcp 0.1.0")
		return
	}
	store := gate.NewStore()
	if err := mcpserver.Serve(store); err != nil {
		fmt.Fprintln(os.Stderr, "server error:", err)
		os.Exit(1)
	}
}
