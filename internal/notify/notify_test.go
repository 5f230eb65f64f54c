package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestExecNotifierMissingCommand(t *testing.T) {
	n := ExecNotifier{Command: filepath.Join(t.TempDir(), "no-such-notifier")}
	err := n.Send(context.Background(), Notification{Title: "TODO", Body: "Buy milk"})
	if !errors.Is(err, ErrNotifierFailed) {
		t.Fatalf("expected ErrNotifierFailed, got %v", err)
	}
}

func TestExecNotifierUnsupportedPlatform(t *testing.T) {
	n := ExecNotifier{GOOS: "plan9"}
	err := n.Send(context.Background(), Notification{Title: "TODO", Body: "x"})
	if !errors.Is(err, ErrNotifierFailed) {
		t.Fatalf("expected ErrNotifierFailed, got %v", err)
	}
}

func TestExecNotifierPlatformCommands(t *testing.T) {
	name, args, ok := ExecNotifier{GOOS: "linux"}.command(Notification{Title: "TODO", Body: "Buy milk"})
	if !ok || name != "notify-send" || len(args) != 2 || args[1] != "Buy milk" {
		t.Fatalf("unexpected linux command: %s %v", name, args)
	}

	name, args, ok = ExecNotifier{GOOS: "darwin"}.command(Notification{Title: "TODO", Body: `say "hi"`})
	if !ok || name != "osascript" || len(args) != 2 {
		t.Fatalf("unexpected darwin command: %s %v", name, args)
	}
	if !strings.Contains(args[1], `say \"hi\"`) {
		t.Fatalf("expected escaped body in script: %s", args[1])
	}
}

func TestNoopNotifier(t *testing.T) {
	if err := (NoopNotifier{}).Send(context.Background(), Notification{}); err != nil {
		t.Fatalf("noop notifier returned %v", err)
	}
}

func TestExecNotifierStopsAtDeadline(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	script := filepath.Join(t.TempDir(), "hang.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nsleep 30\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := ExecNotifier{Command: script}.Send(ctx, Notification{Title: "TODO", Body: "x"})
	if !errors.Is(err, ErrNotifierFailed) {
		t.Fatalf("expected ErrNotifierFailed, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("notifier outlived its deadline by %s", elapsed)
	}
}
