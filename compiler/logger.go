package compiler

import (
	"sync"

	"go.uber.org/zap"
)

var (
	loggerMu sync.RWMutex
	log      = zap.NewNop()
)

// SetLogger installs the compiler's logger. A nil logger restores the
// default no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	log = l
	loggerMu.Unlock()
}

func logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return log
}
