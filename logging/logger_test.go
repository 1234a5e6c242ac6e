package logging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct {
	*Logger
	out  *bytes.Buffer
	diag *bytes.Buffer
}

func newTestLogger(opts ...Option) *testLogger {
	out := &bytes.Buffer{}
	diag := &bytes.Buffer{}
	base := []Option{
		WithOutput(out),
		WithColorMode(ColorNever),
		WithDiagnostic(diag),
		WithClock(func() time.Time { return fixedTime }),
	}
	return &testLogger{
		Logger: New(append(base, opts...)...),
		out:    out,
		diag:   diag,
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestLoggerDefaults(t *testing.T) {
	l := newTestLogger()

	l.Info("hello")
	l.Debug("details")

	assert.Equal(t, "[INFO] hello\n[DEBUG] details\n", l.out.String())
	assert.Empty(t, l.diag.String())

	config := l.Config()
	assert.Equal(t, DefaultTemplate, config.Template)
	assert.True(t, config.Console)
	assert.False(t, config.File)
	assert.Equal(t, LogLevelDebug, config.MinLevel)
}

func TestLoggerColoredConsole(t *testing.T) {
	l := newTestLogger(WithColorMode(ColorAlways))

	l.Critical("down")

	assert.Equal(t, ColorBold+ColorRed+"[CRITICAL] down"+ColorReset+"\n", l.out.String())
}

func TestLoggerColorAutoWithoutTerminal(t *testing.T) {
	l := newTestLogger(WithColorMode(ColorAuto))

	l.Warning("plain")

	assert.Equal(t, "[WARNING] plain\n", l.out.String())
}

func TestLoggerMinLevel(t *testing.T) {
	l := newTestLogger()
	l.SetMinLevel(LogLevelWarning)

	l.Debug("a")
	l.Info("b")
	l.Warning("c")
	l.Error("d")

	assert.Equal(t, "[WARNING] c\n[ERROR] d\n", l.out.String())
	assert.False(t, l.Enabled(LogLevelInfo))
	assert.True(t, l.Enabled(LogLevelCritical))
}

func TestLoggerCustomLevel(t *testing.T) {
	l := newTestLogger()
	success := l.RegisterLevel(25, "SUCCESS", ColorGreen)

	l.SetMinLevel(LogLevelInfo)
	l.Log(success, "deployed")

	l.SetMinLevel(LogLevelWarning)
	l.Log(success, "hidden")

	assert.Equal(t, "[SUCCESS] deployed\n", l.out.String())

	got, ok := l.Registry().Lookup(25)
	require.True(t, ok)
	assert.Equal(t, success, got)
}

func TestLoggerDuplicateRankWarning(t *testing.T) {
	l := newTestLogger()

	l.RegisterLevel(25, "SUCCESS", ColorGreen)
	assert.Empty(t, l.diag.String())

	l.RegisterLevel(25, "PASSED", ColorBlue)
	assert.Contains(t, l.diag.String(), "level rank 25 re-registered: SUCCESS replaced by PASSED")
	assert.Empty(t, l.out.String())
}

func TestLoggerFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := newTestLogger()
	l.EnableConsole(false).SetLogFile(path)

	l.Info("first")
	l.Error("second")

	assert.Empty(t, l.out.String())
	assert.Equal(t, []string{"[INFO] first", "[ERROR] second"}, readLines(t, path))
}

func TestLoggerFileAppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0644))

	l := newTestLogger()
	l.SetLogFile(path)
	l.Info("appended")

	assert.Equal(t, []string{"existing", "[INFO] appended"}, readLines(t, path))
	assert.Equal(t, "[INFO] appended\n", l.out.String())
}

func TestLoggerFileIsUncolored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := newTestLogger(WithColorMode(ColorAlways))
	l.SetLogFile(path)

	l.Warning("w")

	assert.Equal(t, []string{"[WARNING] w"}, readLines(t, path))
	assert.Equal(t, ColorYellow+"[WARNING] w"+ColorReset+"\n", l.out.String())
}

func TestLoggerNoSinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := newTestLogger()
	l.SetLogFile(path).EnableFile(false).EnableConsole(false)

	l.Critical("nowhere")

	assert.Empty(t, l.out.String())
	assert.Empty(t, l.diag.String())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoggerFileFailureKeepsConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "app.log")
	l := newTestLogger()
	l.SetLogFile(path)

	l.Error("still visible")

	assert.Equal(t, "[ERROR] still visible\n", l.out.String())
	assert.Contains(t, l.diag.String(), "file sink "+path+": could not open file")
}

func TestLoggerFileWriteFailure(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	l := newTestLogger()
	l.SetLogFile("/dev/full")

	l.Error("disk full")

	assert.Equal(t, "[ERROR] disk full\n", l.out.String())
	assert.Contains(t, l.diag.String(), "file sink /dev/full: could not write file")
	assert.NotContains(t, l.diag.String(), "could not open file")
}

func TestLoggerConflictWarningSerializedWithLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "app.log")
	l := newTestLogger()
	l.SetLogFile(path)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if i == 0 {
					l.Error("x")
				} else {
					l.RegisterLevel(60, fmt.Sprintf("L%d", j%2), ColorRed)
				}
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(l.diag.String(), "\n"), "\n")
	assert.Len(t, lines, 200+199)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "[easylog] "), line)
	}
}

func TestSharedRegistryWarnsOnLastLogger(t *testing.T) {
	registry := NewLevelRegistry()
	first := newTestLogger(WithRegistry(registry))
	second := newTestLogger(WithRegistry(registry))

	first.RegisterLevel(60, "AUDIT", "")
	first.RegisterLevel(60, "TRACE", "")

	assert.Empty(t, first.diag.String())
	assert.Contains(t, second.diag.String(), "level rank 60 re-registered")
}

func TestLoggerQuickInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quick.log")
	l := newTestLogger()
	l.QuickInit(path)

	l.Info("ready")

	assert.Equal(t, "[2024-03-05 07:08:09] [INFO] ready\n", l.out.String())
	assert.Equal(t, []string{"[2024-03-05 07:08:09] [INFO] ready"}, readLines(t, path))
}

func TestLoggerTemplateAndStamps(t *testing.T) {
	l := newTestLogger()
	l.SetTemplate("%Th:%Tm %l %m").EnableTimeStamps(true, false, false)

	l.Info("x")
	l.EnableTimeStamps(true, true, false)
	l.Info("y")

	assert.Equal(t, "07:%Tm INFO x\n07:08 INFO y\n", l.out.String())
}

func TestLoggerSingleClockRead(t *testing.T) {
	calls := 0
	clock := func() time.Time {
		calls++
		return fixedTime.Add(time.Duration(calls) * time.Second)
	}
	path := filepath.Join(t.TempDir(), "app.log")
	l := newTestLogger(WithClock(clock))
	l.SetTemplate("%Ts %m").EnableTimeStamps(false, false, true).SetLogFile(path)

	l.Info("same second")

	assert.Equal(t, 1, calls)
	assert.Equal(t, "10 same second\n", l.out.String())
	assert.Equal(t, []string{"10 same second"}, readLines(t, path))
}

func TestLoggerFormatted(t *testing.T) {
	l := newTestLogger()

	l.Infof("%d users, %s", 3, "ok")
	l.Debugf("%.2f", 1.5)

	assert.Equal(t, "[INFO] 3 users, ok\n[DEBUG] 1.50\n", l.out.String())
}

func TestLoggerFormatFailure(t *testing.T) {
	l := newTestLogger(WithMaxMessageSize(8))

	wrongType := "%d"
	l.Errorf("%s", "0123456789")
	l.Warningf(wrongType, "text")

	assert.Equal(t, "[ERROR] "+FormatFailedMessage+"\n[WARNING] "+FormatFailedMessage+"\n", l.out.String())
	assert.Contains(t, l.diag.String(), "exceeds size limit")
	assert.Contains(t, l.diag.String(), "bad format")
}

func TestLoggerFormattedFilteredBeforeFormatting(t *testing.T) {
	l := newTestLogger(WithMaxMessageSize(1))
	l.SetMinLevel(LogLevelError)

	l.Infof("%s", "too long but filtered")

	assert.Empty(t, l.out.String())
	assert.Empty(t, l.diag.String())
}

func TestLoggerConcurrentFileWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.log")
	l := newTestLogger()
	l.EnableConsole(false).SetLogFile(path)

	const perWorker = 1000
	var wg sync.WaitGroup
	for _, name := range []string{"alpha", "beta"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				l.Infof("%s line %d", name, i)
			}
		}(name)
	}
	wg.Wait()

	lines := readLines(t, path)
	require.Len(t, lines, 2*perWorker)

	seen := map[string]int{}
	for _, line := range lines {
		var name string
		var n int
		_, err := fmt.Sscanf(line, "[INFO] %s line %d", &name, &n)
		require.NoError(t, err, "malformed line %q", line)
		assert.Equal(t, seen[name], n, "lines of %s out of order", name)
		seen[name]++
	}
	assert.Equal(t, perWorker, seen["alpha"])
	assert.Equal(t, perWorker, seen["beta"])
}

func TestLoggerConcurrentSetters(t *testing.T) {
	l := newTestLogger()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			l.SetTemplate(fmt.Sprintf("%d %%m", i)).EnableDateStamp(i%2 == 0)
		}(i)
		go func() {
			defer wg.Done()
			l.Info("m")
		}()
	}
	wg.Wait()

	assert.Len(t, strings.Split(strings.TrimSuffix(l.out.String(), "\n"), "\n"), 20)
}
