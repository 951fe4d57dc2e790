package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestConfirmer(t *testing.T) {
	asked := 0
	ask := func(answer bool, err error) func(string) (bool, error) {
		return func(string) (bool, error) {
			asked++
			return answer, err
		}
	}

	tests := []struct {
		name      string
		c         Confirmer
		want      bool
		wantAsked int
	}{
		{"assume yes skips prompt", Confirmer{AssumeYes: true, Ask: ask(false, nil)}, true, 0},
		{"accepted", Confirmer{Ask: ask(true, nil)}, true, 1},
		{"declined", Confirmer{Ask: ask(false, nil)}, false, 1},
		{"aborted", Confirmer{Ask: ask(true, errors.New("user aborted"))}, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asked = 0
			if got := tt.c.Confirm("Delete?"); got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if asked != tt.wantAsked {
				t.Errorf("prompted %d times, want %d", asked, tt.wantAsked)
			}
		})
	}
}

func TestNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := Notifier{Out: &buf}
	n.Notify(slog.LevelWarn, "name: required")
	n.Notify(slog.LevelError, "Could not save guests, please try again")
	n.Notify(slog.LevelInfo, "saved")

	out := buf.String()
	for _, want := range []string{"! name: required", "✗ Could not save guests", "saved"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger("debug", "json")
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level not enabled")
	}
}
