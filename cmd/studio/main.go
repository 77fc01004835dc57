// Command studio runs the AI app builder server.
//
//	studio            serve the HTTP API (default)
//	studio serve      same as above
//	studio mcp -app <id>
//	                  serve a launched app as an MCP server over stdio
//	studio genkey [-dir data]
//	                  write a persistent share-link signing key pair
//	studio version    print the version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ashita-ai/studio"
	"github.com/ashita-ai/studio/internal/auth"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run0(os.Args[1:]))
}

func run0(args []string) int {
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	// stdout belongs to the MCP protocol in stdio mode.
	var out io.Writer = os.Stdout
	if cmd == "mcp" {
		out = os.Stderr
	}
	level := slog.LevelInfo
	if os.Getenv("STUDIO_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, cmd, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		slog.Error("fatal error", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, logger *slog.Logger, cmd string, args []string) error {
	switch cmd {
	case "serve":
		app, err := studio.New(studio.WithVersion(version), studio.WithLogger(logger))
		if err != nil {
			return err
		}
		return app.Run(ctx)

	case "mcp":
		fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
		appID := fs.String("app", "", "launched app id to serve")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *appID == "" {
			fs.Usage()
			return fmt.Errorf("mcp: -app is required")
		}
		app, err := studio.New(studio.WithVersion(version), studio.WithLogger(logger))
		if err != nil {
			return err
		}
		return app.ServeMCP(ctx, *appID)

	case "genkey":
		fs := flag.NewFlagSet("genkey", flag.ContinueOnError)
		dir := fs.String("dir", "data", "directory for the PEM files")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := os.MkdirAll(*dir, 0o700); err != nil {
			return fmt.Errorf("genkey: create %s: %w", *dir, err)
		}
		privPath := filepath.Join(*dir, "jwt_private.pem")
		pubPath := filepath.Join(*dir, "jwt_public.pem")
		if err := auth.WriteKeyPair(privPath, pubPath); err != nil {
			return err
		}
		logger.Info("key pair written", "private_key", privPath, "public_key", pubPath)
		fmt.Printf("Set STUDIO_JWT_PRIVATE_KEY=%s and STUDIO_JWT_PUBLIC_KEY=%s to keep share links valid across restarts.\n", privPath, pubPath)
		return nil

	case "version":
		fmt.Println(version)
		return nil

	default:
		return fmt.Errorf("unknown command %q (want serve, mcp, genkey or version)", cmd)
	}
}
