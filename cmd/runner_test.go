package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/raocow/internal/shared"
	tu "github.com/desertthunder/raocow/internal/testing"
)

func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Logger: shared.DiscardLogger(),
		Output: output,
		Store:  tu.OpenStore(t),
	})
	return runner, output
}

// run executes the CLI with args and returns what it printed.
func run(t *testing.T, r *Runner, out *bytes.Buffer, args ...string) (string, error) {
	t.Helper()
	out.Reset()
	err := r.app().Run(context.Background(), append([]string{"raocow"}, args...))
	return out.String(), err
}

func mustRun(t *testing.T, r *Runner, out *bytes.Buffer, args ...string) string {
	t.Helper()
	s, err := run(t, r, out, args...)
	if err != nil {
		t.Fatalf("raocow %s failed: %v", strings.Join(args, " "), err)
	}
	return s
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			store := tu.OpenStore(t)

			runner := NewRunner(RunnerOpts{Config: config, Logger: logger, Output: output, Store: store})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("Register", func(t *testing.T) {
		runner, _ := newTestRunner(t)
		names := map[string]bool{}
		for _, c := range runner.register() {
			names[c.Name] = true
		}
		for _, want := range []string{"setup", "channel", "series", "video", "import"} {
			if !names[want] {
				t.Errorf("missing command %s", want)
			}
		}
	})

	t.Run("OpensStoreFromConfig", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "catalog.db")
		runner := NewRunner(RunnerOpts{Config: config, Logger: shared.DiscardLogger(), Output: &bytes.Buffer{}})

		if _, err := runner.repositories(context.Background()); err != nil {
			t.Fatalf("failed to open repositories: %v", err)
		}
		tu.AssertFileExists(t, config.Database.Path)

		if err := runner.Close(); err != nil {
			t.Errorf("close failed: %v", err)
		}
		if runner.store != nil || runner.repos != nil {
			t.Error("close should release the store")
		}
	})

	t.Run("WriteFailure", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Logger: shared.DiscardLogger(), Output: &tu.FWriter{}})
		if err := runner.writeJSON(map[string]string{"a": "b"}, false); err == nil {
			t.Error("expected write error")
		}

		limited := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
		runner = NewRunner(RunnerOpts{Logger: shared.DiscardLogger(), Output: &limited})
		if err := runner.writeJSON(map[string]string{"a": "b"}, false); err == nil {
			t.Error("expected newline write to fail")
		}
	})
}

func TestExitCode(t *testing.T) {
	tt := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "not found", err: shared.ErrNotFound, want: 3},
		{name: "validation", err: shared.ErrMissingID, want: 2},
		{name: "store", err: shared.ErrStore, want: 1},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCode(tc.err); got != tc.want {
				t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestCatalogCommands(t *testing.T) {
	t.Run("ChannelLifecycle", func(t *testing.T) {
		r, out := newTestRunner(t)

		got := mustRun(t, r, out, "channel", "create", "--name", "raocow", "--youtube-id", "UC1", "--format", "json")
		var created map[string]any
		if err := json.Unmarshal([]byte(got), &created); err != nil {
			t.Fatalf("invalid JSON %q: %v", got, err)
		}
		if created["id"] != "raocow" {
			t.Errorf("expected id raocow, got %v", created["id"])
		}

		mustRun(t, r, out, "channel", "update", "raocow", "--name", "raocow (archive)")
		got = mustRun(t, r, out, "channel", "get", "raocow", "--format", "csv")
		if !strings.Contains(got, "raocow,raocow (archive),UC1,") {
			t.Errorf("unexpected CSV after update: %q", got)
		}

		got = mustRun(t, r, out, "channel", "list")
		if !strings.Contains(got, "raocow") || !strings.Contains(got, "1 row") {
			t.Errorf("unexpected listing: %q", got)
		}

		got = mustRun(t, r, out, "channel", "delete", "raocow")
		if !strings.Contains(got, "deleted channel raocow") {
			t.Errorf("unexpected delete output: %q", got)
		}

		if _, err := run(t, r, out, "channel", "get", "raocow"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("SeriesSameName", func(t *testing.T) {
		r, out := newTestRunner(t)
		mustRun(t, r, out, "series", "create", "--name", "Super Marisa World")
		mustRun(t, r, out, "series", "create", "--name", "Super Marisa World")

		got := mustRun(t, r, out, "series", "list", "--format", "csv")
		if !strings.Contains(got, "super-marisa-world,") || !strings.Contains(got, "super-marisa-world1,") {
			t.Errorf("expected suffixed ids, got %q", got)
		}
	})

	t.Run("Membership", func(t *testing.T) {
		r, out := newTestRunner(t)
		mustRun(t, r, out, "series", "create", "--name", "Kaizo")
		mustRun(t, r, out, "channel", "create", "--name", "raocow", "--youtube-id", "UC1")
		mustRun(t, r, out, "video", "create", "--title", "Kaizo 1", "--youtube-id", "yt1", "--published", "2010-01-02")

		for range 2 {
			mustRun(t, r, out, "series", "add-video", "kaizo", "kaizo-1")
		}
		mustRun(t, r, out, "channel", "add-video", "raocow", "kaizo-1")

		got := mustRun(t, r, out, "series", "videos", "kaizo", "--format", "json")
		var videos []map[string]any
		if err := json.Unmarshal([]byte(got), &videos); err != nil {
			t.Fatalf("invalid JSON %q: %v", got, err)
		}
		if len(videos) != 1 || videos[0]["published"] != "2010-01-02T00:00:00Z" {
			t.Errorf("unexpected videos: %v", videos)
		}

		got = mustRun(t, r, out, "video", "containers", "kaizo-1", "--format", "json")
		var containers videoContainers
		if err := json.Unmarshal([]byte(got), &containers); err != nil {
			t.Fatalf("invalid JSON %q: %v", got, err)
		}
		if len(containers.Channels) != 1 || len(containers.Series) != 1 {
			t.Errorf("unexpected containers: %+v", containers)
		}

		mustRun(t, r, out, "series", "remove-video", "kaizo", "kaizo-1")
		mustRun(t, r, out, "series", "remove-video", "kaizo", "kaizo-1")
		got = mustRun(t, r, out, "series", "videos", "kaizo", "--format", "csv")
		if got != "ID,Title,YouTube ID,Published\n" {
			t.Errorf("expected an empty listing, got %q", got)
		}
	})

	t.Run("UpdateRules", func(t *testing.T) {
		r, out := newTestRunner(t)
		mustRun(t, r, out, "video", "create", "--title", "Part", "--youtube-id", "yt1", "--published", "2010-01-02T03:04:05Z")

		_, err := run(t, r, out, "video", "update", "part", "--data", `{"id":"other","title":"x"}`)
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation for mismatched id, got %v", err)
		}

		_, err = run(t, r, out, "video", "update", "part", "--data", `{`)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for bad JSON, got %v", err)
		}

		got := mustRun(t, r, out, "video", "update", "part", "--data", `{"id":"part","title":"Part One"}`, "--format", "json")
		if !strings.Contains(got, `"id": "part"`) || !strings.Contains(got, `"title": "Part One"`) {
			t.Errorf("update should keep the id and change the title: %s", got)
		}

		_, err = run(t, r, out, "video", "update", "part", "--published", "yesterday")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for bad date, got %v", err)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		r, out := newTestRunner(t)

		tt := []struct {
			name   string
			args   []string
			target error
		}{
			{name: "missing id", args: []string{"series", "get"}, target: shared.ErrMissingArgument},
			{name: "unknown format", args: []string{"video", "list", "--format", "yaml"}, target: shared.ErrInvalidArgument},
			{name: "add to missing container", args: []string{"channel", "add-video", "nobody", "nothing"}, target: shared.ErrNotFound},
			{name: "delete missing", args: []string{"video", "delete", "nothing"}, target: shared.ErrNotFound},
		}
		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := run(t, r, out, tc.args...); !errors.Is(err, tc.target) {
					t.Errorf("expected %v, got %v", tc.target, err)
				}
			})
		}
	})
}

func TestImportCommand(t *testing.T) {
	manifest := tu.WriteFile(t, "catalog.toml", `
[[channels]]
name = "raocow"
youtube_id = "UC1"

[[videos]]
title = "Part"
youtube_id = "yt1"
published = 2010-01-02T00:00:00Z
channels = ["raocow"]

[[videos]]
title = "Part"
youtube_id = "yt2"
published = 2010-01-03T00:00:00Z
channels = ["raocow"]
`)

	t.Run("Text", func(t *testing.T) {
		r, out := newTestRunner(t)
		got := mustRun(t, r, out, "import", manifest, "--workers", "2", "--rate", "1000")
		for _, want := range []string{"1 channels, 0 series, 2 videos created", "2 memberships linked"} {
			if !strings.Contains(got, want) {
				t.Errorf("missing %q in output:\n%s", want, got)
			}
		}
	})

	t.Run("JSON", func(t *testing.T) {
		r, out := newTestRunner(t)
		got := mustRun(t, r, out, "import", manifest, "--json", "--rate", "1000")

		var summary importJSON
		if err := json.Unmarshal([]byte(got), &summary); err != nil {
			t.Fatalf("invalid JSON %q: %v", got, err)
		}
		if len(summary.Created) != 3 || summary.LinksCreated != 2 || len(summary.Failures) != 0 {
			t.Errorf("unexpected summary: %+v", summary)
		}
	})

	t.Run("MissingManifest", func(t *testing.T) {
		r, out := newTestRunner(t)
		if _, err := run(t, r, out, "import", filepath.Join(t.TempDir(), "none.toml")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catalog.db")
	configPath := tu.WriteFile(t, "config.toml", "[database]\npath = \""+filepath.ToSlash(dbPath)+"\"\n")

	output := &bytes.Buffer{}
	r := NewRunner(RunnerOpts{Logger: shared.DiscardLogger(), Output: output})

	got := mustRun(t, r, output, "--config", configPath, "setup", "database")
	if !strings.Contains(got, "database ready") {
		t.Errorf("unexpected setup output: %q", got)
	}
	tu.AssertFileExists(t, dbPath)

	got = mustRun(t, r, output, "--config", configPath, "setup", "rollback")
	if !strings.Contains(got, "rolled back") {
		t.Errorf("unexpected rollback output: %q", got)
	}

	if _, err := run(t, r, output, "--config", filepath.Join(dir, "missing.toml"), "channel", "list"); err == nil {
		t.Error("expected an error for an explicit missing config file")
	}
}

func TestSetupCreatesConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	output := &bytes.Buffer{}
	r := NewRunner(RunnerOpts{Logger: shared.DiscardLogger(), Output: output})
	defer r.Close()

	got := mustRun(t, r, output, "--config", "new.toml", "setup", "database")
	if !strings.Contains(got, "database ready") {
		t.Errorf("unexpected setup output: %q", got)
	}

	content := tu.MustReadFile(t, "new.toml")
	if !strings.Contains(content, "[database]") {
		t.Errorf("expected config template, got %q", content)
	}
	tu.AssertFileExists(t, "raocow.db")
}
