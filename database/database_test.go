package database

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gocrud/easylog/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type user struct {
	ID   uint
	Name string
}

func newTestLogger() (*logging.Logger, *bytes.Buffer) {
	var out bytes.Buffer
	l := logging.NewLoggingBuilder().
		AddConsole(logging.ConsoleLoggerOptions{Output: &out, Color: logging.ColorNever}).
		Build()
	return l, &out
}

func openMemory(t *testing.T, l *logging.Logger, configure func(*DatabaseOptions)) *gorm.DB {
	t.Helper()
	factory, err := NewBuilder(l).
		Add("default", sqlite.Open(":memory:"), func(o *DatabaseOptions) {
			o.MaxOpenConns = 1
			o.AutoMigrate = []any{&user{}}
			if configure != nil {
				configure(o)
			}
		}).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { factory.Close() })

	db, ok := factory.Get("default")
	require.True(t, ok)
	return db
}

func TestBuildRegistersDatabase(t *testing.T) {
	l, out := newTestLogger()
	openMemory(t, l, nil)

	assert.Contains(t, out.String(), "[INFO] Database registered name=default dialector=sqlite")
}

func TestBuilderErrors(t *testing.T) {
	l, _ := newTestLogger()

	_, err := NewBuilder(l).
		Add("a", sqlite.Open(":memory:"), nil).
		Add("a", sqlite.Open(":memory:"), nil).
		Build()
	assert.Error(t, err)

	_, err = NewBuilder(l).Add("b", nil, nil).Build()
	assert.Error(t, err)
}

func TestTraceQueriesAtInfo(t *testing.T) {
	l, out := newTestLogger()
	db := openMemory(t, l, func(o *DatabaseOptions) {
		o.Logger.LogLevel = gormlogger.Info
	})

	out.Reset()
	require.NoError(t, db.Create(&user{Name: "ada"}).Error)

	assert.Contains(t, out.String(), "[DEBUG] ")
	assert.Contains(t, out.String(), "INSERT INTO `users`")
	assert.Contains(t, out.String(), "[rows:1]")
}

func TestTraceRecordNotFound(t *testing.T) {
	l, out := newTestLogger()
	db := openMemory(t, l, nil)

	out.Reset()
	var u user
	err := db.First(&u, 42).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, out.String())

	l2, out2 := newTestLogger()
	db2 := openMemory(t, l2, func(o *DatabaseOptions) {
		o.Logger.IgnoreRecordNotFoundError = false
	})
	out2.Reset()
	require.Error(t, db2.First(&u, 42).Error)
	assert.Contains(t, out2.String(), "[ERROR] ")
	assert.Contains(t, out2.String(), "record not found")
}

func TestTraceErrors(t *testing.T) {
	l, out := newTestLogger()
	db := openMemory(t, l, nil)

	out.Reset()
	var rows []user
	require.Error(t, db.Table("missing_table").Find(&rows).Error)

	assert.True(t, strings.HasPrefix(out.String(), "[ERROR] "), out.String())
	assert.Contains(t, out.String(), "no such table")
}

func TestTraceSlowQuery(t *testing.T) {
	l, out := newTestLogger()
	adapter := NewLogger(l, LoggerOptions{SlowThreshold: 100 * time.Millisecond, LogLevel: gormlogger.Warn})

	fc := func() (string, int64) { return "SELECT 1", -1 }
	adapter.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)
	adapter.Trace(context.Background(), time.Now(), fc, nil)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "[WARNING] ")
	assert.Contains(t, lines[0], "SLOW SQL >= 100ms")
	assert.Contains(t, lines[0], "[rows:-] SELECT 1")
}

func TestLogMode(t *testing.T) {
	l, out := newTestLogger()
	adapter := NewLogger(l, DefaultLoggerOptions())
	ctx := context.Background()

	adapter.Info(ctx, "hidden %d", 1)
	adapter.Warn(ctx, "careful %s", "now")
	adapter.Error(ctx, "failed: %v", "oops")

	verbose := adapter.LogMode(gormlogger.Info)
	verbose.Info(ctx, "visible %d", 2)

	silent := adapter.LogMode(gormlogger.Silent)
	silent.Error(ctx, "never")
	silent.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 0 }, gorm.ErrInvalidData)

	assert.Equal(t, "[WARNING] careful now\n[ERROR] failed: oops\n[INFO] visible 2\n", out.String())
}
