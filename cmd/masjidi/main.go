package main

import (
	"context"
	"fmt"
	"os"

	"github.com/smokyabdulrahman/masjidi/internal/cli"
	"github.com/smokyabdulrahman/masjidi/internal/config"
	"github.com/smokyabdulrahman/masjidi/internal/otel"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	// The tracing endpoint may come from .env; the root command loads it
	// again, which does not override what is already set.
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	shutdown, err := otel.Setup(ctx, "masjidi")
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: tracing disabled: %v\n", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "warning: flushing traces: %v\n", err)
		}
	}()

	rootCmd := cli.NewRootCmd(version)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
