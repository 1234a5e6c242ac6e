package mongodb

import (
	"bytes"
	"testing"

	"github.com/gocrud/easylog/logging"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func newTestLogger() (*logging.Logger, *bytes.Buffer) {
	var out bytes.Buffer
	l := logging.NewLoggingBuilder().
		AddConsole(logging.ConsoleLoggerOptions{Output: &out, Color: logging.ColorNever}).
		Build()
	return l, &out
}

func TestSink(t *testing.T) {
	l, out := newTestLogger()
	var sink options.LogSink = NewSink(l)

	sink.Info(1, "Command started", "commandName", "find", "requestId", 7)
	sink.Info(2, "Connection checked out", "serverPort", 27017)
	sink.Error(errors.New("timeout"), "Command failed", "commandName", "insert")

	assert.Equal(t,
		"[INFO] Command started commandName=find requestId=7\n"+
			"[DEBUG] Connection checked out serverPort=27017\n"+
			"[ERROR] Command failed commandName=insert error=timeout\n",
		out.String())
}

func TestLoggerOptions(t *testing.T) {
	l, _ := newTestLogger()
	opts := LoggerOptions(l, options.LogLevelDebug)

	require.NotNil(t, opts.Sink)
	assert.Equal(t, options.LogLevelDebug, opts.ComponentLevels[options.LogComponentCommand])
}

func TestBuilder(t *testing.T) {
	l, out := newTestLogger()

	factory, err := NewBuilder(l).
		Add("default", "mongodb://127.0.0.1:1", nil).
		Build()
	require.NoError(t, err)

	client, err := factory.Get("default")
	require.NoError(t, err)
	assert.NotNil(t, client)

	_, err = factory.Get("missing")
	assert.Error(t, err)

	assert.Contains(t, out.String(), "[INFO] mongo client registered name=default")
	assert.NoError(t, factory.Close())
}

func TestBuilderErrors(t *testing.T) {
	l, _ := newTestLogger()

	_, err := NewBuilder(l).Add("a", "", nil).Build()
	assert.Error(t, err)

	_, err = NewBuilder(l).
		Add("a", "mongodb://127.0.0.1:1", nil).
		Add("a", "mongodb://127.0.0.1:2", nil).
		Build()
	assert.Error(t, err)

	_, err = NewBuilder(l).Add("bad", "notmongo://host", nil).Build()
	assert.Error(t, err)
}
