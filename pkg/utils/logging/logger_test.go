package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

func TestLogger(t *testing.T) {
	t.Run("secret fields are masked", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON, false)
		logger.Info("hello",
			slog.String("secret_key", "xxx"),
			slog.String("normal_key", "aaa"),
		)

		gt.S(t, buf.String()).Contains("aaa").NotContains("xxx")
	})

	t.Run("level filter", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.New(&buf, slog.LevelWarn, logging.FormatJSON, false)
		logger.Info("not shown")
		logger.Warn("shown")

		gt.S(t, buf.String()).Contains("shown").NotContains("not shown")
	})

	t.Run("context logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON, false)
		ctx := logging.With(context.Background(), logger)
		logging.From(ctx).Info("from context")

		gt.S(t, buf.String()).Contains("from context")
	})
}

func TestParse(t *testing.T) {
	f, err := logging.ParseFormat("JSON")
	gt.NoError(t, err)
	gt.Equal(t, f, logging.FormatJSON)

	_, err = logging.ParseFormat("xml")
	gt.Error(t, err)

	l, err := logging.ParseLevel("warn")
	gt.NoError(t, err)
	gt.Equal(t, l, slog.LevelWarn)

	_, err = logging.ParseLevel("verbose")
	gt.Error(t, err)
}
