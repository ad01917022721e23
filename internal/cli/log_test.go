package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netscope/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	time.Sleep(10 * time.Millisecond)
	prog.done("Loaded net")

	if !strings.Contains(buf.String(), "Loaded net (") {
		t.Errorf("progress.done() output = %q, want message with duration", buf.String())
	}
}

func TestLogHooks(t *testing.T) {
	defer observability.Reset()

	var buf bytes.Buffer
	logger := newLogger(&buf, log.DebugLevel)
	installLogHooks(logger)

	ctx := context.Background()
	observability.Load().OnFetchStart(ctx, "file", "a.json")
	observability.Load().OnFetchComplete(ctx, "file", "a.json", 3, time.Millisecond, nil)
	observability.Load().OnFetchComplete(ctx, "http", "http://x", 0, time.Millisecond, errors.New("boom"))
	observability.Cache().OnCacheHit(ctx, "file")
	observability.HTTP().OnResponse(ctx, "GET", "x", "/", 200, time.Millisecond)
	observability.Session().OnSessionStart(ctx, "s1", "net")

	out := buf.String()
	for _, want := range []string{"fetch", "fetched", "nodes=3", "fetch failed", "boom", "cache hit", "http response", "session start"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSetLogLevelInstallsHooks(t *testing.T) {
	defer observability.Reset()

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.SetLogLevel(LogInfo)
	if _, ok := observability.Load().(logHooks); ok {
		t.Fatal("hooks installed at info level")
	}

	c.SetLogLevel(LogDebug)
	if _, ok := observability.Load().(logHooks); !ok {
		t.Fatal("hooks not installed at debug level")
	}
}

func TestLoggerContext(t *testing.T) {
	logger := newLogger(&bytes.Buffer{}, log.InfoLevel)

	if got := loggerFromContext(withLogger(context.Background(), logger)); got != logger {
		t.Error("loggerFromContext() should return the attached logger")
	}
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext() should fall back to log.Default()")
	}
}
