package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shapingai/shaping-ai-dashboard/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.APIAddr != "127.0.0.1:3000" {
		t.Errorf("APIAddr = %q", cfg.APIAddr)
	}
	if cfg.MaxResultLimit != model.DefaultMaxLimit {
		t.Errorf("MaxResultLimit = %d", cfg.MaxResultLimit)
	}
	if !cfg.MirrorEnabled || !cfg.APIEnabled || cfg.SnapshotEnabled {
		t.Errorf("toggles = mirror %v api %v snapshot %v", cfg.MirrorEnabled, cfg.APIEnabled, cfg.SnapshotEnabled)
	}
	if cfg.QueryTimeout != defaultQueryTimeout {
		t.Errorf("QueryTimeout = %s", cfg.QueryTimeout)
	}
	if cfg.ConfigPath != "" {
		t.Errorf("ConfigPath = %q, want empty for a missing file", cfg.ConfigPath)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
data-dir: /srv/shapingai
api-port: 8080
max-result-limit: 30
query-timeout: 5s
vocabulary-path: /srv/models/vocab.yml
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.APIAddr != "127.0.0.1:8080" || cfg.MaxResultLimit != 30 || cfg.QueryTimeout != 5*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.ConfigPath != path {
		t.Errorf("ConfigPath = %q, want %q", cfg.ConfigPath, path)
	}

	p := cfg.corpusPaths()
	if p.Articles != "/srv/shapingai/data/dist_articles.csv" {
		t.Errorf("articles path = %q", p.Articles)
	}
	if p.Vocabulary != "/srv/models/vocab.yml" {
		t.Errorf("vocabulary path = %q", p.Vocabulary)
	}
	if got := cfg.dashboardConfig().MaxLimit; got != 30 {
		t.Errorf("dashboard MaxLimit = %d", got)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SHAPINGAI_MAX_RESULT_LIMIT", "12")
	t.Setenv("SHAPINGAI_MIRROR_ENABLED", "false")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.MaxResultLimit != 12 || cfg.MirrorEnabled {
		t.Errorf("env overrides not applied: limit %d mirror %v", cfg.MaxResultLimit, cfg.MirrorEnabled)
	}
	if cfg.backupConfig().Enabled {
		t.Error("snapshots need the mirror")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	for _, body := range []string{
		"api-port: 70000\n",
		"max-result-limit: 0\n",
		"query-timeout: 0s\n",
	} {
		if _, err := loadConfig(writeConfig(t, body)); err == nil {
			t.Errorf("config %q should be rejected", body)
		}
	}
}

func TestExpandHome(t *testing.T) {
	if got := expandHome("~/data", "/home/ana"); got != "/home/ana/data" {
		t.Errorf("expandHome = %q", got)
	}
	if got := expandHome("/abs", "/home/ana"); got != "/abs" {
		t.Errorf("expandHome = %q", got)
	}
}
