package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
database = "/srv/phorum/forum.db"
page_size = 50

[ui]
accent = "#A78BFA"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Database != "/srv/phorum/forum.db" {
		t.Errorf("database = %q", cfg.Database)
	}
	if cfg.PageSize != 50 {
		t.Errorf("page_size = %d", cfg.PageSize)
	}
	if cfg.UI.Accent != "#A78BFA" {
		t.Errorf("accent = %q", cfg.UI.Accent)
	}
}

func TestLoadFromInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("database = ["), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEffectivePageSize(t *testing.T) {
	if got := (&Config{}).EffectivePageSize(); got != DefaultPageSize {
		t.Errorf("default page size = %d", got)
	}
	if got := (&Config{PageSize: 5}).EffectivePageSize(); got != 5 {
		t.Errorf("configured page size = %d", got)
	}
}

func TestDatabasePathFallback(t *testing.T) {
	cfg := &Config{Database: "/explicit/path.db"}
	if got := cfg.DatabasePath(); got != "/explicit/path.db" {
		t.Errorf("explicit path = %q", got)
	}
	if got := (&Config{}).DatabasePath(); got == "" {
		t.Error("default path must not be empty")
	}
}
