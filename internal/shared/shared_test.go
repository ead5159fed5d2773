package shared

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestParseLogLevel(t *testing.T) {
	tt := []struct {
		name    string
		input   string
		want    log.Level
		wantErr bool
	}{
		{name: "empty defaults to info", input: "", want: log.InfoLevel},
		{name: "debug", input: "debug", want: log.DebugLevel},
		{name: "mixed case", input: " Warn ", want: log.WarnLevel},
		{name: "unknown", input: "verbose", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLogLevel(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseLogLevel() error = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("ParseLogLevel() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := WithLogger(NewLogger(&buf), "component", "test")
	SetLogLevel(logger, log.WarnLevel)

	logger.Info("hidden")
	logger.Warn("shown", "id", "super-marisa-world")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "component=test") || !strings.Contains(out, "super-marisa-world") {
		t.Errorf("expected key/value context in output, got %s", out)
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Fatal("expected distinct ids")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("expected a valid uuid, got %q: %v", a, err)
	}
}

func TestIsExpected(t *testing.T) {
	tt := []struct {
		err  error
		want bool
	}{
		{err: nil, want: false},
		{err: fmt.Errorf("%w: name is required", ErrValidation), want: true},
		{err: ErrMissingID, want: true},
		{err: fmt.Errorf("channel foo: %w", ErrNotFound), want: true},
		{err: fmt.Errorf("%w: %w", ErrStore, errors.New("disk I/O error")), want: false},
		{err: ErrAllocationExhausted, want: false},
	}

	for _, tc := range tt {
		if got := IsExpected(tc.err); got != tc.want {
			t.Errorf("IsExpected(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	v := map[string]int{"a": 1}

	compact, err := MarshalJSON(v, false)
	if err != nil || string(compact) != `{"a":1}` {
		t.Errorf("unexpected compact output %q, %v", compact, err)
	}

	pretty, err := MarshalJSON(v, true)
	if err != nil || string(pretty) != "{\n  \"a\": 1\n}" {
		t.Errorf("unexpected pretty output %q, %v", pretty, err)
	}
}
