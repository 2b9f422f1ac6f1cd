package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HuggingFace HuggingFace `yaml:"huggingface"`
	Cache       Cache       `yaml:"cache"`
	Models      []Model     `yaml:"models"`
}

type HuggingFace struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
}

// Cache holds the two locations checked for an existing model copy.
// LocalDir is laid out as <namespace>/<name>; HubDir uses models--<namespace>--<name>.
type Cache struct {
	LocalDir string `yaml:"local_dir"`
	HubDir   string `yaml:"hub_dir"`
}

type Model struct {
	Task        string `yaml:"task"`
	Model       string `yaml:"model"`
	DType       string `yaml:"dtype"`
	Description string `yaml:"description"`
}

const (
	configDir  = ".prefetch"
	configFile = "config.yaml"
	localCache = ".cache"

	DefaultEndpoint = "https://huggingface.co"
)

func GetHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func ConfigPath() string {
	return filepath.Join(GetHomeDir(), configDir, configFile)
}

// LocalCachePath returns the cache directory that ships next to the executable.
func LocalCachePath() string {
	exe, err := os.Executable()
	if err != nil {
		return localCache
	}
	return filepath.Join(filepath.Dir(exe), localCache)
}

// HubCachePath returns the shared Hugging Face hub cache under the user's home.
func HubCachePath() string {
	return filepath.Join(GetHomeDir(), ".cache", "huggingface", "hub")
}

// DefaultModels is the model list provisioned when no config file overrides it.
func DefaultModels() []Model {
	return []Model{
		{
			Task:        "feature-extraction",
			Model:       "Xenova/all-MiniLM-L6-v2",
			DType:       "fp32",
			Description: "Text embeddings for semantic search",
		},
	}
}

func DefaultConfig() *Config {
	return &Config{
		HuggingFace: HuggingFace{
			Endpoint: DefaultEndpoint,
			Token:    "",
		},
		Cache: Cache{
			LocalDir: LocalCachePath(),
			HubDir:   HubCachePath(),
		},
		Models: DefaultModels(),
	}
}

func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path over the defaults. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.HuggingFace.Endpoint == "" {
		cfg.HuggingFace.Endpoint = DefaultEndpoint
	}
	if len(cfg.Models) == 0 {
		cfg.Models = DefaultModels()
	}

	for i, m := range cfg.Models {
		if m.Model == "" {
			return nil, fmt.Errorf("invalid config: models[%d] has no model id", i)
		}
		if m.Task == "" {
			cfg.Models[i].Task = "feature-extraction"
		}
		if m.DType == "" {
			cfg.Models[i].DType = "fp32"
		}
	}

	return cfg, nil
}
