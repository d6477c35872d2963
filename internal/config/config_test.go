package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Defaults.Model != "granite" {
		t.Errorf("expected default model granite, got %s", cfg.Defaults.Model)
	}
	if cfg.Defaults.MaxTokens != 4096 {
		t.Errorf("expected default max tokens 4096, got %d", cfg.Defaults.MaxTokens)
	}
	if cfg.Defaults.Workers != 1 {
		t.Errorf("expected default workers 1, got %d", cfg.Defaults.Workers)
	}
	if cfg.Raster.DPI != 300 {
		t.Errorf("expected default DPI 300, got %d", cfg.Raster.DPI)
	}
	if len(cfg.OCR.Command) == 0 {
		t.Error("expected a default OCR command")
	}

	for _, name := range []string{"granite", "nanonets", "paddleocr"} {
		m, ok := cfg.GetModel(name)
		if !ok {
			t.Fatalf("expected built-in model %s in catalog", name)
		}
		if m.ID == "" || m.Prompt == "" {
			t.Errorf("model %s missing ID or prompt", name)
		}
	}
}

func TestGetModel(t *testing.T) {
	cfg := DefaultConfig()

	if _, ok := cfg.GetModel("granite"); !ok {
		t.Error("expected granite in catalog")
	}
	if _, ok := cfg.GetModel("gpt4"); ok {
		t.Error("did not expect gpt4 in catalog")
	}
}

func TestManagerLoadsFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "defaults:\n  model: nanonets\n  workers: 3\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cm, err := NewManager(cfgPath)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	cfg := cm.Get()
	if cfg.Defaults.Model != "nanonets" {
		t.Errorf("expected model nanonets from file, got %s", cfg.Defaults.Model)
	}
	if cfg.Defaults.Workers != 3 {
		t.Errorf("expected workers 3 from file, got %d", cfg.Defaults.Workers)
	}

	// Untouched keys keep their defaults.
	if cfg.Defaults.MaxTokens != 4096 {
		t.Errorf("expected default max tokens 4096, got %d", cfg.Defaults.MaxTokens)
	}
	if cfg.Raster.DPI != 300 {
		t.Errorf("expected default DPI 300, got %d", cfg.Raster.DPI)
	}
}

func TestManagerWatchConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("defaults:\n  workers: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cm, err := NewManager(cfgPath)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	changed := make(chan *Config, 1)
	cm.OnChange(func(cfg *Config) {
		select {
		case changed <- cfg:
		default:
		}
	})
	cm.WatchConfig()

	if err := os.WriteFile(cfgPath, []byte("defaults:\n  workers: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-changed:
		if cfg.Defaults.Workers != 5 {
			t.Errorf("expected reloaded workers 5, got %d", cfg.Defaults.Workers)
		}
		if cm.Get().Defaults.Workers != 5 {
			t.Error("Get() should return the reloaded config")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config change callback never fired")
	}
}

func TestResolveOCRCommand(t *testing.T) {
	os.Setenv("OCRPIPE_TEST_BIN", "/opt/ocr/bin")
	defer os.Unsetenv("OCRPIPE_TEST_BIN")

	cfg := &Config{OCR: OCRCfg{Command: []string{"${OCRPIPE_TEST_BIN}/ocr", "run", "--flag=${OCRPIPE_TEST_BIN}"}}}

	got := cfg.ResolveOCRCommand()
	want := []string{"/opt/ocr/bin/ocr", "run", "--flag=/opt/ocr/bin"}
	if len(got) != len(want) {
		t.Fatalf("expected %d elements, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	// The original command must stay untouched.
	if cfg.OCR.Command[0] != "${OCRPIPE_TEST_BIN}/ocr" {
		t.Error("ResolveOCRCommand should not mutate the config")
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		os.Setenv("OCRPIPE_TEST_VALUE", "resolved")
		defer os.Unsetenv("OCRPIPE_TEST_VALUE")

		result := ResolveEnvVars("${OCRPIPE_TEST_VALUE}")
		if result != "resolved" {
			t.Errorf("expected resolved, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}
