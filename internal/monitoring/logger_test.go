package monitoring

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	// Save original logger
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// Now set to nil and verify it doesn't call our logger
	called = false
	SetLogger(nil)
	Logf("test")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestSetWarnLogger(t *testing.T) {
	original := Warnf
	defer func() { Warnf = original }()

	var got string
	SetWarnLogger(func(format string, v ...interface{}) {
		got = format
	})
	Warnf("axis %s", "p")
	if got != "axis %s" {
		t.Errorf("warn logger received %q", got)
	}

	SetWarnLogger(nil)
	Warnf("ignored")
}

func TestDefaults(t *testing.T) {
	if Logf == nil || Warnf == nil {
		t.Fatal("loggers should not be nil by default")
	}
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("default logger panicked: %v", r)
		}
	}()
	Logf("test message: %s", "value")
	Warnf("test warning: %s", "value")
}

func TestUseZap(t *testing.T) {
	origLog, origWarn := Logf, Warnf
	defer func() { Logf, Warnf = origLog, origWarn }()

	core, logs := observer.New(zapcore.InfoLevel)
	UseZap(zap.New(core))

	Logf("built %d configurations", 15)
	Warnf("axis %s stops short", "p_crowded")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[0].Message != "built 15 configurations" {
		t.Errorf("unexpected info entry %+v", entries[0].Entry)
	}
	if entries[1].Level != zapcore.WarnLevel || entries[1].Message != "axis p_crowded stops short" {
		t.Errorf("unexpected warn entry %+v", entries[1].Entry)
	}
}

func TestNewZapLogger(t *testing.T) {
	origLog, origWarn := Logf, Warnf
	defer func() { Logf, Warnf = origLog, origWarn }()

	logger, err := NewZapLogger(true)
	if err != nil {
		t.Fatalf("NewZapLogger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("verbose logger should enable debug level")
	}

	logger, err = NewZapLogger(false)
	if err != nil {
		t.Fatalf("NewZapLogger: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("default logger should not enable debug level")
	}
}
