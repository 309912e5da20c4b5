package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PARTY_ADDR", ":9090")
	t.Setenv("PARTY_CLICKER_DURATION", "20")
	t.Setenv("PARTY_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Addr)
	}
	if cfg.ClickerDuration != 20 {
		t.Errorf("clicker_duration = %d, want 20", cfg.ClickerDuration)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q, want debug", cfg.LogLevel)
	}
	// Untouched keys keep their defaults.
	if cfg.QuestionTime != Default().QuestionTime {
		t.Errorf("question_time = %d, want default", cfg.QuestionTime)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "party.yaml")
	yaml := "addr: \":7000\"\nquestion_time: 45\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PARTY_CONFIG", path)
	t.Setenv("PARTY_ADDR", ":7001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.QuestionTime != 45 {
		t.Errorf("question_time = %d, want 45 from file", cfg.QuestionTime)
	}
	if cfg.Addr != ":7001" {
		t.Errorf("addr = %q, env must override the file", cfg.Addr)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("PARTY_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Error("a named but missing config file should error")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("PARTY_CLICKER_DURATION", "-5")
	if _, err := Load(); err == nil {
		t.Error("negative duration should fail validation")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
	cfg.SendBuffer = 0
	if err := cfg.validate(); err == nil {
		t.Error("zero send_buffer should fail validation")
	}
}
