// Command openqa generates question/answer sets from documents and evaluates
// a model's answers against them.
//
//	openqa generate --pdf paper.pdf --out qa.jsonl
//	openqa evaluate --in qa.jsonl --report report.json
//	openqa run --pdf paper.pdf
//	openqa serve --pdf paper.pdf
//
// Settings come from the environment (and .env), optionally overlaid by a
// YAML file passed with --config.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := buildRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
