package logging

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func useDefault(t *testing.T, l *Logger) {
	t.Helper()
	previous := Default()
	SetDefault(l)
	t.Cleanup(func() { SetDefault(previous) })
}

func TestDefaultIsStable(t *testing.T) {
	first := Default()
	assert.NotNil(t, first)
	assert.Same(t, first, Default())

	SetDefault(nil)
	assert.Same(t, first, Default())
}

func TestFacade(t *testing.T) {
	l := newTestLogger()
	useDefault(t, l.Logger)

	Debug("d")
	Infof("i=%d", 1)
	Warning("w")
	Errorf("%s", "e")
	Critical("c")

	assert.Equal(t, "[DEBUG] d\n[INFO] i=1\n[WARNING] w\n[ERROR] e\n[CRITICAL] c\n", l.out.String())
}

func TestFacadeLevels(t *testing.T) {
	l := newTestLogger()
	useDefault(t, l.Logger)

	notice := RegisterLevel(35, "NOTICE", ColorBlue)
	SetMinLevel(LogLevelWarning)

	Info("hidden")
	Log(notice, "shown")
	Logf(notice, "%s", "formatted")

	assert.Equal(t, "[NOTICE] shown\n[NOTICE] formatted\n", l.out.String())
}

func TestFacadeInit(t *testing.T) {
	l := newTestLogger()
	useDefault(t, l.Logger)

	Init()
	Info("quick")

	assert.Equal(t, "[2024-03-05 07:08:09] [INFO] quick\n", l.out.String())
	assert.False(t, l.Config().File)
}

func TestFacadeInitWith(t *testing.T) {
	l := newTestLogger()
	useDefault(t, l.Logger)
	path := filepath.Join(t.TempDir(), "init.log")

	InitWith(path, InitTemplate("%l: %m"), InitConsole(false))
	Warning("file only")

	assert.Empty(t, l.out.String())
	assert.Equal(t, []string{"WARNING: file only"}, readLines(t, path))

	InitWith(path, InitFile(false))
	Info("console only")

	assert.Equal(t, "[2024-03-05 07:08:09] [INFO] console only\n", l.out.String())
	assert.Equal(t, []string{"WARNING: file only"}, readLines(t, path))
}

func TestContext(t *testing.T) {
	assert.Same(t, Default(), FromContext(context.Background()))

	l := New()
	ctx := NewContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}
