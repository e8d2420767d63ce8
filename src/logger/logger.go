package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldUserID    = "user_id"
	FieldRequestID = "request_id"
	FieldPipeline  = "pipeline"
	FieldRows      = "rows"
	FieldDuration  = "duration"
	FieldStatus    = "status"
	FieldSize      = "size"
)

const (
	ComponentHTTP   = "http"
	ComponentAuth   = "auth"
	ComponentStore  = "store"
	ComponentReport = "report"
	ComponentCache  = "cache"
)

const (
	OpCreate = "create"
	OpList   = "list"
	OpRead   = "read"
	OpUpdate = "update"
	OpDelete = "delete"
	OpReport = "report"
)

// New builds the process logger. Pretty output is meant for local development.
func New(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
