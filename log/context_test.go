package log_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wanders/git-sleipnir/log"
)

// fakeLogger is a hand-written test double; the interface is small enough
// that generating one is not worth a codegen dependency.
type fakeLogger struct{}

func (fakeLogger) Debug(msg string, keysAndValues ...any) {}
func (fakeLogger) Info(msg string, keysAndValues ...any)  {}
func (fakeLogger) Error(msg string, keysAndValues ...any) {}
func (fakeLogger) Warn(msg string, keysAndValues ...any)  {}

func TestContextLogger(t *testing.T) {
	t.Run("adds logger to context", func(t *testing.T) {
		customLogger := &fakeLogger{}
		ctx := context.Background()
		newCtx := log.ToContext(ctx, customLogger)

		logger := log.FromContext(newCtx)
		require.Equal(t, customLogger, logger, "context should contain provided logger")

		originalLogger := log.FromContext(ctx)
		require.NotEqual(t, customLogger, originalLogger, "original context should not be modified")
	})

	t.Run("returns nil logger if no logger in context", func(t *testing.T) {
		ctx := context.Background()
		logger := log.FromContext(ctx)
		require.Nil(t, logger, "should return nil logger")
	})

	t.Run("FromContextOrNoop falls back to noop", func(t *testing.T) {
		ctx := context.Background()
		require.Equal(t, log.Noop, log.FromContextOrNoop(ctx))
	})
}
