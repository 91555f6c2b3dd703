package internal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// InitSlog installs a JSON logger on stderr as the default slog logger.
// Unknown levels fall back to INFO.
func InitSlog(level string) {
	slog.SetDefault(NewLogger(os.Stderr, level))
}

func NewLogger(w io.Writer, level string) *slog.Logger {
	var programLevel slog.Level
	if err := (&programLevel).UnmarshalText([]byte(level)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %s: %v, using info\n", level, err)
		programLevel = slog.LevelInfo
	}

	leveler := &slog.LevelVar{}
	leveler.Set(programLevel)

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     leveler,
	})
	return slog.New(h)
}

// IdentityAttr is the log attribute for an identity. Raw identities never go
// into the logs, only their FastHash digest.
func IdentityAttr(identity string) slog.Attr {
	return slog.String("identity_hash", FastHash(identity))
}
