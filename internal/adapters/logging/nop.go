// Package logging provides zerolog-backed implementations of ports.Logger.
package logging

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/felixgeelhaar/plm/internal/ports"
)

// NewNop returns a logger that discards every entry.
func NewNop() *Logger {
	return &Logger{mu: &sync.Mutex{}, zl: zerolog.Nop(), level: ports.LevelError}
}
