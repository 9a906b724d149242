package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "output:\n  dir: " + filepath.Join(dir, "out") + "\nstore:\n  path: " + filepath.Join(dir, "apigen.db") + "\nlog:\n  level: error\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateToStdout(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	def := filepath.Join("..", "..", "testdata", "sample.json")

	out, err := run(t, "--config", cfgPath, "generate", "--def", def, "--target", "python-like", "--stdout", "--no-record")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(out, "\nimport requests\n") || !strings.Contains(out, "def stats():") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "apigen.db")); !os.IsNotExist(err) {
		t.Fatalf("--no-record should not open the store")
	}
}

func TestGenerateWritesFileAndRecords(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	def := filepath.Join("..", "..", "testdata", "sample.yaml")

	out, err := run(t, "--config", cfgPath, "generate", "--def", def, "--target", "java-like", "--endpoint-url", "http://localhost:8080/rpc")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	path := filepath.Join(dir, "out", "ApiClient.java")
	if !strings.Contains(out, path) {
		t.Fatalf("expected written path in output, got %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read generated file: %v", err)
	}
	if !strings.Contains(string(data), `API_ENDPOINT = "http://localhost:8080/rpc";`) {
		t.Fatalf("endpoint url missing:\n%s", data)
	}

	list, err := run(t, "--config", cfgPath, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(list, "java-like") || !strings.Contains(list, "run_") {
		t.Fatalf("run not listed:\n%s", list)
	}
}

func TestGenerateRejectsUnsupportedTarget(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	def := filepath.Join("..", "..", "testdata", "sample.json")

	if _, err := run(t, "--config", cfgPath, "generate", "--def", def, "--target", "ruby", "--stdout"); err == nil || !strings.Contains(err.Error(), "unsupported target") {
		t.Fatalf("expected unsupported target error, got %v", err)
	}
	if _, err := run(t, "--config", cfgPath, "generate", "--def", def, "--auth-tokens", "--no-auth-tokens", "--stdout"); err == nil {
		t.Fatalf("expected conflicting flag error")
	}
}

func TestTargetsCommand(t *testing.T) {
	out, err := run(t, "targets")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"browser-script", "python-like", "java-like", "ApiClient.java"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestInitUsesConfiguredStorePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "home"))
	cfgPath := writeConfig(t, dir)

	out, err := run(t, "--config", cfgPath, "init")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	dbPath := filepath.Join(dir, "apigen.db")
	if !strings.Contains(out, "database ready "+dbPath) {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database not created at store.path: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "home", ".apigen")); !os.IsNotExist(err) {
		t.Fatalf("init should not touch the home directory when --config is set")
	}
}

func TestInitWritesMissingConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	cfgPath := filepath.Join(dir, "nested", "apigen.yaml")

	out, err := run(t, "--config", cfgPath, "init")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "created "+cfgPath) {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, ".apigen", "apigen.db")); err != nil {
		t.Fatalf("database not created at default store path: %v", err)
	}
}
