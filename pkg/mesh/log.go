package mesh

import "go.uber.org/zap"

// log is a no-op until the host application installs a logger.
var log = zap.NewNop()

// SetLogger routes the package's diagnostics to l. Passing nil
// silences them again.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	log = l
}
