// Package testutil provides test helpers for building throwaway projects.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Project is a temporary project directory laid out as
// <Dir>/app/{views,styles,controllers,...} with output below
// <Dir>/Resources/alloy.
type Project struct {
	t *testing.T

	// Dir is the project root.
	Dir string

	// AppDir is <Dir>/app.
	AppDir string

	// OutputDir is <Dir>/Resources/alloy.
	OutputDir string
}

// NewProject creates an empty project below t.TempDir().
func NewProject(t *testing.T) *Project {
	t.Helper()
	dir := t.TempDir()
	appDir := filepath.Join(dir, "app")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		t.Fatalf("failed to create app dir: %v", err)
	}
	return &Project{
		t:         t,
		Dir:       dir,
		AppDir:    appDir,
		OutputDir: filepath.Join(dir, "Resources", "alloy"),
	}
}

// Write creates a file below the app directory and returns its path.
// rel uses forward slashes.
func (p *Project) Write(rel, content string) string {
	p.t.Helper()
	return WriteFile(p.t, p.AppDir, filepath.FromSlash(rel), content)
}

// Path returns the absolute path of rel below the app directory.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.AppDir, filepath.FromSlash(rel))
}

// Remove deletes a file below the app directory.
func (p *Project) Remove(rel string) {
	p.t.Helper()
	if err := os.Remove(p.Path(rel)); err != nil {
		p.t.Fatalf("failed to remove %s: %v", rel, err)
	}
}

// Touch rewrites a file below the app directory and moves its modification
// time forward so that fingerprints observe the change even on filesystems
// with coarse timestamps.
func (p *Project) Touch(rel, content string) string {
	p.t.Helper()
	path := p.Write(rel, content)
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		p.t.Fatalf("failed to touch %s: %v", rel, err)
	}
	return path
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}
