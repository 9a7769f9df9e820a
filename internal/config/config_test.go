package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Server.LivePath != DefaultLivePath {
		t.Errorf("LivePath = %q, want %q", cfg.Server.LivePath, DefaultLivePath)
	}
	if cfg.Server.MetricsPath != DefaultMetricsPath {
		t.Errorf("MetricsPath = %q, want %q", cfg.Server.MetricsPath, DefaultMetricsPath)
	}
	if cfg.Server.MountID != "app" {
		t.Errorf("MountID = %q, want app", cfg.Server.MountID)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q for defaults", cfg.Path())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	cfg := New()
	cfg.Name = "demo"
	cfg.Version = "0.3.0"
	cfg.Server.Addr = ":8080"
	cfg.Export.Bucket = "demo-site"
	cfg.Export.Region = "eu-west-1"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Name != "demo" || loaded.Version != "0.3.0" {
		t.Errorf("got %q %q", loaded.Name, loaded.Version)
	}
	if loaded.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", loaded.Server.Addr)
	}
	if loaded.Export.Bucket != "demo-site" || loaded.Export.Region != "eu-west-1" {
		t.Errorf("Export = %+v", loaded.Export)
	}
	if loaded.Path() != path {
		t.Errorf("Path() = %q, want %q", loaded.Path(), path)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(`{"name":"sparse"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Name != "sparse" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want default", cfg.Server.Addr)
	}
	if cfg.Server.Title != "Weft" {
		t.Errorf("Title = %q, want Weft", cfg.Server.Title)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error %v does not wrap fs.ErrNotExist", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(`{not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(prev) })
}

func TestLoadFromWorkingDirFindsParent(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := New()
	cfg.Name = "parent"
	if err := cfg.SaveTo(filepath.Join(root, ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	chdir(t, nested)
	loaded, err := LoadFromWorkingDir()
	if err != nil {
		t.Fatalf("LoadFromWorkingDir: %v", err)
	}
	if loaded.Name != "parent" {
		t.Errorf("Name = %q, want parent", loaded.Name)
	}
}

func TestLoadFromWorkingDirDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := LoadFromWorkingDir()
	if err != nil {
		t.Fatalf("LoadFromWorkingDir: %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want default", cfg.Server.Addr)
	}
}
