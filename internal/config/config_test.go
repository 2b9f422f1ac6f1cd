package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HuggingFace.Endpoint != "https://huggingface.co" {
		t.Errorf("Expected HuggingFace.Endpoint https://huggingface.co, got %s", cfg.HuggingFace.Endpoint)
	}
	if cfg.HuggingFace.Token != "" {
		t.Errorf("Expected empty HuggingFace.Token, got %s", cfg.HuggingFace.Token)
	}
	if filepath.Base(cfg.Cache.LocalDir) != ".cache" {
		t.Errorf("Expected LocalDir to end in .cache, got %s", cfg.Cache.LocalDir)
	}
	if !strings.HasSuffix(cfg.Cache.HubDir, filepath.Join(".cache", "huggingface", "hub")) {
		t.Errorf("Unexpected HubDir %s", cfg.Cache.HubDir)
	}

	if len(cfg.Models) != 1 {
		t.Fatalf("Expected 1 default model, got %d", len(cfg.Models))
	}
	m := cfg.Models[0]
	if m.Model != "Xenova/all-MiniLM-L6-v2" {
		t.Errorf("Expected default model Xenova/all-MiniLM-L6-v2, got %s", m.Model)
	}
	if m.Task != "feature-extraction" {
		t.Errorf("Expected default task feature-extraction, got %s", m.Task)
	}
	if m.DType != "fp32" {
		t.Errorf("Expected default dtype fp32, got %s", m.DType)
	}
}

func TestHubCachePathUsesHome(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	want := filepath.Join(tmpDir, ".cache", "huggingface", "hub")
	if got := HubCachePath(); got != want {
		t.Errorf("HubCachePath() = %s, want %s", got, want)
	}
	if got := ConfigPath(); got != filepath.Join(tmpDir, ".prefetch", "config.yaml") {
		t.Errorf("ConfigPath() = %s", got)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	t.Run("returns default config when file does not exist", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg == nil {
			t.Fatal("Expected config to be non-nil")
		}
		if len(cfg.Models) != 1 {
			t.Errorf("Expected default model list, got %d models", len(cfg.Models))
		}
	})

	t.Run("parses valid config file", func(t *testing.T) {
		configDir := filepath.Join(tmpDir, ".prefetch")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			t.Fatalf("Failed to create test config dir: %v", err)
		}

		configContent := `huggingface:
  endpoint: http://mirror.local
  token: test-token
cache:
  hub_dir: /tmp/hub
models:
  - model: Xenova/bge-small-en-v1.5
    dtype: q8
    description: Small embeddings
  - model: Xenova/ms-marco-MiniLM-L-6-v2
    task: text-classification
`
		if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if cfg.HuggingFace.Endpoint != "http://mirror.local" {
			t.Errorf("Expected endpoint http://mirror.local, got %s", cfg.HuggingFace.Endpoint)
		}
		if cfg.HuggingFace.Token != "test-token" {
			t.Errorf("Expected token test-token, got %s", cfg.HuggingFace.Token)
		}
		if cfg.Cache.HubDir != "/tmp/hub" {
			t.Errorf("Expected hub_dir /tmp/hub, got %s", cfg.Cache.HubDir)
		}
		if filepath.Base(cfg.Cache.LocalDir) != ".cache" {
			t.Errorf("Expected default local_dir to be kept, got %s", cfg.Cache.LocalDir)
		}
		if len(cfg.Models) != 2 {
			t.Fatalf("Expected 2 models, got %d", len(cfg.Models))
		}
		if cfg.Models[0].Task != "feature-extraction" {
			t.Errorf("Expected default task to be filled in, got %s", cfg.Models[0].Task)
		}
		if cfg.Models[0].DType != "q8" {
			t.Errorf("Expected dtype q8, got %s", cfg.Models[0].DType)
		}
		if cfg.Models[1].DType != "fp32" {
			t.Errorf("Expected default dtype to be filled in, got %s", cfg.Models[1].DType)
		}
	})
}

func TestLoadFromErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"invalid yaml", "models: [\n", "failed to parse config"},
		{"missing model id", "models:\n  - task: feature-extraction\n", "has no model id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := LoadFrom(path)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
