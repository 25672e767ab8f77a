package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"boutique/config"
	deliverycontext "boutique/internal/delivery/context"
	"boutique/internal/errors"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newCapturingGormLogger(t *testing.T, slowQuery time.Duration) (*gormSlogLogger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	cfg := &config.Config{}
	cfg.Env.SlowQuery = slowQuery
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return newGormSlogLogger(base, cfg).(*gormSlogLogger), &buf
}

func statement(sql string) func() (string, int64) {
	return func() (string, int64) { return sql, 1 }
}

func TestGormSlogLogger_Trace(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
		empty    bool
	}{
		{name: "not found is silent", err: gorm.ErrRecordNotFound, empty: true},
		{name: "duplicate key is debug", err: gorm.ErrDuplicatedKey, contains: "level=DEBUG msg=\"Query hit a constraint\""},
		{name: "foreign key is debug", err: errors.Wrap(gorm.ErrForeignKeyViolated, "delete category"), contains: "level=DEBUG"},
		{name: "other errors are errors", err: errors.New("connection reset"), contains: "level=ERROR msg=\"Query failed\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newCapturingGormLogger(t, 0)
			l.Trace(context.Background(), time.Now(), statement("SELECT 1"), tt.err)

			if tt.empty {
				assert.Empty(t, buf.String())

				return
			}
			assert.Contains(t, buf.String(), tt.contains)
			assert.Contains(t, buf.String(), "component=gorm")
		})
	}
}

func TestGormSlogLogger_SlowQuery(t *testing.T) {
	l, buf := newCapturingGormLogger(t, time.Millisecond)

	l.Trace(context.Background(), time.Now().Add(-time.Second), statement("SELECT * FROM products"), nil)
	assert.Contains(t, buf.String(), "Slow query")

	buf.Reset()
	l.Trace(context.Background(), time.Now(), statement("SELECT 1"), nil)
	assert.Empty(t, buf.String())
}

func TestGormSlogLogger_UsesRequestLogger(t *testing.T) {
	l, buf := newCapturingGormLogger(t, 0)
	l = l.LogMode(logger.Info).(*gormSlogLogger)

	reqLogger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})).With(slog.String("request_id", "req-42"))
	ctx := deliverycontext.WithLogger(context.Background(), reqLogger)

	l.Trace(ctx, time.Now(), statement("INSERT INTO orders "+strings.Repeat("x", maxLoggedSQL)), nil)

	out := buf.String()
	assert.Contains(t, out, "request_id=req-42")
	assert.Contains(t, out, "...")
	assert.Less(t, len(out), maxLoggedSQL+400)
}
