package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// ErrNotifierFailed reports that the desktop notification command failed or
// is not installed. It never affects reminder state.
var ErrNotifierFailed = errors.New("notify: notifier invocation failed")

type Notification struct {
	Title string
	Body  string
}

type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

type NoopNotifier struct{}

func (NoopNotifier) Send(context.Context, Notification) error { return nil }

// ExecNotifier shells out to notify-send on Linux and osascript on macOS.
// Command, when set, replaces the platform default and receives the title and
// body as its two arguments.
type ExecNotifier struct {
	Command string
	GOOS    string
}

func (e ExecNotifier) Send(ctx context.Context, n Notification) error {
	name, args, ok := e.command(n)
	if !ok {
		return fmt.Errorf("%w: no notifier for %s", ErrNotifierFailed, e.goos())
	}
	cmd := exec.CommandContext(ctx, name, args...)
	// Bound the wait on pipes held open by children of a killed command.
	cmd.WaitDelay = time.Second
	out, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(out))
		if detail != "" {
			return fmt.Errorf("%w: %s: %v: %s", ErrNotifierFailed, name, err, detail)
		}
		return fmt.Errorf("%w: %s: %v", ErrNotifierFailed, name, err)
	}
	return nil
}

func (e ExecNotifier) goos() string {
	if e.GOOS != "" {
		return e.GOOS
	}
	return runtime.GOOS
}

func (e ExecNotifier) command(n Notification) (string, []string, bool) {
	if cmd := strings.TrimSpace(e.Command); cmd != "" {
		return cmd, []string{n.Title, n.Body}, true
	}
	switch e.goos() {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "notify-send", []string{n.Title, n.Body}, true
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return "osascript", []string{"-e", script}, true
	default:
		return "", nil, false
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
