package core

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/reelstats/internal/contract"
)

// headerOut receives run headers. Headers go to stderr so stdout stays machine-readable.
var headerOut io.Writer = os.Stderr

// logStatsHeader prints a concise, 2-line header for a statistics run.
func logStatsHeader(ctx context.Context, cfg *contract.Config, name string) {
	if shouldSuppressHeader(ctx) {
		return
	}
	if cfg.UseEmojis {
		fmt.Fprintf(headerOut, "🎬 Source: %s (Span: %s)\n", name, cfg.Span)
		fmt.Fprintf(headerOut, "📅 Top dates: %d, Cache: %s\n", cfg.TopWatchDates, cfg.CacheBackend)
		return
	}
	fmt.Fprintf(headerOut, "Source: %s (Span: %s)\n", name, cfg.Span)
	fmt.Fprintf(headerOut, "Top dates: %d, Cache: %s\n", cfg.TopWatchDates, cfg.CacheBackend)
}

// logNotice prints a one-line progress message, with an emoji when enabled.
func logNotice(ctx context.Context, cfg *contract.Config, emoji, format string, args ...any) {
	if shouldSuppressHeader(ctx) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if cfg.UseEmojis {
		msg = emoji + " " + msg
	}
	fmt.Fprintln(headerOut, msg)
}
