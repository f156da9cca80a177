package routemap

import "go.uber.org/zap"

type zapLogger struct {
	log *zap.SugaredLogger
}

// NewZapLogger adapts a zap logger to the package Logger interface, for
// applications that already carry a structured logger.
func NewZapLogger(l *zap.Logger) Logger {
	return &zapLogger{log: l.Sugar()}
}

func (z *zapLogger) Debug(format string, args ...any) {
	z.log.Debugf(format, args...)
}

func (z *zapLogger) Info(format string, args ...any) {
	z.log.Infof(format, args...)
}

func (z *zapLogger) Error(format string, args ...any) {
	z.log.Errorf(format, args...)
}
