package ash

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeExecutable(t *testing.T, dir, name string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), mode); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolvePathSearchOrder(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeExecutable(t, dirA, "tool", 0755)
	writeExecutable(t, dirB, "tool", 0755)
	t.Setenv("PATH", dirA+":"+dirB)

	got, err := resolvePath("tool")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dirA, "tool") {
		t.Fatalf("resolved %q, want the first PATH entry's copy", got)
	}
}

func TestResolvePathNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if _, err := resolvePath("no-such-tool"); !errors.Is(err, errCmdNotFound) {
		t.Fatalf("err = %v, want errCmdNotFound", err)
	}
}

func TestResolvePathNotExecutable(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, dir, "tool", 0644)
	t.Setenv("PATH", dir)
	if _, err := resolvePath("tool"); !errors.Is(err, errNotExecutable) {
		t.Fatalf("err = %v, want errNotExecutable", err)
	}
}

func TestResolvePathSlashIsVerbatim(t *testing.T) {
	dir := t.TempDir()
	path := writeExecutable(t, dir, "tool", 0755)
	t.Setenv("PATH", "")

	got, err := resolvePath(path)
	if err != nil || got != path {
		t.Fatalf("resolve(%q) = %q, %v", path, got, err)
	}
	if _, err := resolvePath(filepath.Join(dir, "missing")); !errors.Is(err, errCmdNotFound) {
		t.Fatalf("err = %v, want errCmdNotFound", err)
	}
}

func TestResolvePathDirectoriesNeverMatch(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "tool"), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)
	if _, err := resolvePath("tool"); !errors.Is(err, errCmdNotFound) {
		t.Fatalf("err = %v, want errCmdNotFound", err)
	}
}
