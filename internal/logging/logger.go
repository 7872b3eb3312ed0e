package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"londonpark/internal/config"

	"github.com/rs/zerolog"
)

// New constructs the root logger from config. Every line carries the app
// identity fields so aggregated logs from several deployments stay
// distinguishable. The returned closer is non-nil only for file output.
func New(cfg config.LoggingConfig, app config.AppConfig) (*zerolog.Logger, io.Closer, error) {
	output, closer, err := writerFor(cfg)
	if err != nil {
		return nil, nil, err
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	root := zerolog.New(output).
		Level(levelFor(cfg.Level)).
		With().
		Timestamp().
		Str("app", app.Name).
		Str("env", app.Environment).
		Str("version", app.Version).
		Logger()

	return &root, closer, nil
}

// Component derives a sub-logger tagged with a component name.
func Component(root *zerolog.Logger, name string) zerolog.Logger {
	return root.With().Str("component", name).Logger()
}

// levelFor parses the configured level, defaulting to info on anything
// unrecognized rather than failing startup.
func levelFor(raw string) zerolog.Level {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return zerolog.InfoLevel
	}
	parsed, err := zerolog.ParseLevel(trimmed)
	if err != nil {
		return zerolog.InfoLevel
	}
	return parsed
}

func writerFor(cfg config.LoggingConfig) (io.Writer, io.Closer, error) {
	var output io.Writer = os.Stdout
	var closer io.Closer

	switch strings.ToLower(strings.TrimSpace(cfg.Output)) {
	case "stderr":
		output = os.Stderr
	case "file":
		if cfg.FilePath == "" {
			return nil, nil, fmt.Errorf("logging.output=file requires logging.file_path")
		}
		file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		output = file
		closer = file
	}

	if strings.ToLower(strings.TrimSpace(cfg.Format)) == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	return output, closer, nil
}
