// Command toolloop runs tool calling conversations against an OpenAI compatible model.
//
//	toolloop ask "What's the weather in Boston?"
//	toolloop chat --parallel 4
//	toolloop tools
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Ensure API Key is loaded
	_ "github.com/joho/godotenv/autoload"

	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
)

var (
	log   zerolog.Logger
	level = new(slog.LevelVar)
)

func init() {
	level.Set(slog.LevelWarn)
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log = zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: level}),
	))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
