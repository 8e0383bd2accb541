package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/efreitasn/qualifier/internal/answer"
	"github.com/efreitasn/qualifier/internal/domain"
)

// fakeRunner counts calls and returns a canned outcome.
type fakeRunner struct {
	calls      int
	run        *domain.Run
	err        error
	panicValue any
}

func (f *fakeRunner) Run(ctx context.Context) (*domain.Run, error) {
	f.calls++
	if f.panicValue != nil {
		panic(f.panicValue)
	}
	return f.run, f.err
}

// logLines decodes every JSON log record written to buf.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", raw, err)
		}
		lines = append(lines, m)
	}
	return lines
}

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)), &buf
}

func TestTrigger_CallsRunOnce(t *testing.T) {
	logger, _ := newBufferLogger()
	runner := &fakeRunner{run: &domain.Run{RunID: "run-1", Status: domain.RunStatusSucceeded}}

	Trigger(context.Background(), runner, logger)

	if runner.calls != 1 {
		t.Errorf("Run called %d times, want 1", runner.calls)
	}
}

func TestTrigger_LogsFailureWithoutPropagating(t *testing.T) {
	logger, buf := newBufferLogger()
	runner := &fakeRunner{
		run: &domain.Run{RunID: "run-1", Status: domain.RunStatusFailed, Step: domain.StepGenerateWebhook},
		err: fmt.Errorf("generate webhook: %w", &domain.TransportError{Op: "POST", URL: "https://x", StatusCode: 503}),
	}

	Trigger(context.Background(), runner, logger)

	var found bool
	for _, line := range logLines(t, buf) {
		if line["msg"] != "failed to execute qualifier flow" {
			continue
		}
		found = true
		if line["level"] != "ERROR" {
			t.Errorf("level = %v, want ERROR", line["level"])
		}
		if line["kind"] != "transport_failure" {
			t.Errorf("kind = %v, want transport_failure", line["kind"])
		}
		if line["run_id"] != "run-1" {
			t.Errorf("run_id = %v, want run-1", line["run_id"])
		}
		if line["step"] != string(domain.StepGenerateWebhook) {
			t.Errorf("step = %v, want %s", line["step"], domain.StepGenerateWebhook)
		}
	}
	if !found {
		t.Errorf("expected failure log line, got %s", buf.String())
	}
}

func TestTrigger_FailureWithoutRun(t *testing.T) {
	logger, buf := newBufferLogger()
	runner := &fakeRunner{err: errors.New("boom")}

	Trigger(context.Background(), runner, logger)

	if !strings.Contains(buf.String(), `"kind":"unknown"`) {
		t.Errorf("expected unknown error kind in logs, got %s", buf.String())
	}
}

func TestTrigger_RecoversPanic(t *testing.T) {
	logger, buf := newBufferLogger()
	runner := &fakeRunner{panicValue: "kaboom"}

	Trigger(context.Background(), runner, logger)

	if !strings.Contains(buf.String(), "qualifier flow panicked") {
		t.Errorf("expected panic to be logged, got %s", buf.String())
	}
	if !strings.Contains(buf.String(), "kaboom") {
		t.Errorf("expected panic value in logs, got %s", buf.String())
	}
}

func TestTrigger_WithQualifierService(t *testing.T) {
	g := newGrader(t)
	g.issueStatus = http.StatusInternalServerError
	svc, runs := newTestQualifierService(g, testIdentity, answer.NewTable("", ""))
	logger, _ := newBufferLogger()

	Trigger(context.Background(), svc, logger)

	run, err := runs.Latest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Status != domain.RunStatusFailed {
		t.Errorf("Status = %q, want %q", run.Status, domain.RunStatusFailed)
	}
}
