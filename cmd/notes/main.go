// Command notes is an interactive terminal client for the notes API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/aussiebroadwan/notes/pkg/notesdk"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

const version = "v0.1.0"

func main() {
	logger := slogx.New(slogx.Config{
		Service: "notes-cli",
		Version: version,
		Env:     "cli",
		Level:   getEnvOrDefault("LOG_LEVEL", "warn"),
		Format:  getEnvOrDefault("LOG_FORMAT", "text"),
		Output:  os.Stderr,
	})

	baseURL := strings.TrimRight(getEnvOrDefault("NOTES_API_BASE", "http://localhost:8080"), "/")
	timeout := 15 * time.Second
	if v := os.Getenv("NOTES_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		} else {
			logger.Warn("ignoring NOTES_HTTP_TIMEOUT", "value", v, "error", err)
		}
	}

	client := notesdk.NewSDKClient(baseURL, notesdk.WithHTTPClient(&http.Client{Timeout: timeout}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("notes client started", "api", baseURL, "timeout", timeout)

	sh := &shell{api: client, in: os.Stdin, out: os.Stdout, logger: logger}
	if err := sh.Run(ctx); err != nil {
		logger.Error("input failed", "error", err)
		os.Exit(1)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
