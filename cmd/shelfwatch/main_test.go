package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_UsageErrorsExitTwo(t *testing.T) {
	cases := map[string][]string{
		"no command":         nil,
		"unknown command":    {"borrow"},
		"check without ids":  {"check"},
		"stock without id":   {"stock"},
		"stock with two ids": {"stock", "a", "b"},
		"unknown flag":       {"check", "-nope", "T1"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(args, &stdout, &stderr); code != 2 {
				t.Fatalf("run(%v) = %d, want 2", args, code)
			}
			if !strings.Contains(stderr.String(), "usage:") {
				t.Fatalf("stderr = %q, want usage text", stderr.String())
			}
		})
	}
}

func TestRun_HelpExitsZero(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"help"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run(help) = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "shelfwatch check") {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestRun_FatalErrorExitsOne(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfg, []byte("[state]\ndriver = \"etcd\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"check", "-config", cfg, "-env", filepath.Join(dir, "none.env"), "T1"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("run = %d, want 1", code)
	}
	if !strings.HasPrefix(stderr.String(), "shelfwatch: ") {
		t.Fatalf("stderr = %q, want shelfwatch: prefix", stderr.String())
	}
}

func TestRun_ThemeRoundTrip(t *testing.T) {
	prefs := filepath.Join(t.TempDir(), "prefs.toml")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"theme", "-prefs", prefs, "Slate"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run(theme Slate) = %d, stderr %q", code, stderr.String())
	}
	if code := run([]string{"theme", "-prefs", prefs}, &stdout, &stderr); code != 0 {
		t.Fatalf("run(theme) = %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "Slate") {
		t.Fatalf("stdout = %q, want Slate", stdout.String())
	}
}
