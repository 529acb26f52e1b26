package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/magicka/internal/config"
	magickamcp "github.com/peterkuimelis/magicka/internal/mcp"
)

func main() {
	balanceFile := flag.String("balance", "balance.yaml", "path to balance file (defaults when missing)")
	flag.Parse()

	// stdout carries the MCP protocol.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	b, err := config.Load(*balanceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	magickamcp.SetBalance(b)

	s := server.NewMCPServer("magicka", "1.0.0")
	magickamcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
