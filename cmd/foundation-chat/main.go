// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command foundation-chat talks to a running site's assistant from a
// terminal, using the same widget state as the website.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/foundation-go/internal/chat"
	"github.com/olegiv/foundation-go/internal/logging"
)

func main() {
	_ = godotenv.Load()

	url := flag.String("url", envOr("FOUNDATION_SITE_URL", "http://localhost:8080"), "Base URL of the foundation site")
	supportEmail := flag.String("support-email", envOr("FOUNDATION_SUPPORT_EMAIL", "info@abbasshaffifoundation.org"), "Address shown when the assistant fails")
	timeout := flag.Duration("timeout", 60*time.Second, "Per-reply timeout")
	logLevel := flag.String("log-level", "warn", "Log level: debug|info|warn|error")
	flag.Parse()

	slog.SetDefault(logging.New(os.Stderr, *logLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := chat.NewWidget(chat.NewHTTPAssistant(*url, *timeout), *supportEmail)
	w.Open()
	if err := repl(ctx, w, os.Stdin, os.Stdout); err != nil {
		slog.Error("chat error", "error", err)
		os.Exit(1)
	}
}

// repl reads visitor turns line by line. A number picks a suggested
// question; /quit or EOF ends the session.
func repl(ctx context.Context, w *chat.Widget, in io.Reader, out io.Writer) error {
	_, _ = fmt.Fprintf(out, "Assistant: %s\n\n", chat.WelcomeMessage)
	for i, q := range chat.SuggestedQuestions {
		_, _ = fmt.Fprintf(out, "  [%d] %s\n", i+1, q)
	}
	_, _ = fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		_, _ = fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" {
			break
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(chat.SuggestedQuestions) {
			line = chat.SuggestedQuestions[n-1]
			_, _ = fmt.Fprintf(out, "You: %s\n", line)
		}

		reply, ok := w.Submit(ctx, line)
		if !ok {
			continue
		}
		_, _ = fmt.Fprintf(out, "Assistant: %s\n\n", reply.Content)

		if ctx.Err() != nil {
			break
		}
	}
	w.Close()
	_, _ = fmt.Fprintf(out, "\nSession %s ended after %d messages.\n", w.SessionID(), len(w.Transcript()))
	return scanner.Err()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
