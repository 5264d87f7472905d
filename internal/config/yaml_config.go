package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"rankcheck/internal/models"
	"rankcheck/internal/validation"
)

// YAMLConfig represents the structure of the config.yaml file.
// Prompt tuning that's easier to manage in YAML than env vars.
type YAMLConfig struct {
	Analysis AnalysisConfig `yaml:"analysis"`
}

// AnalysisConfig tunes the form defaults and the prompt sent to the model.
type AnalysisConfig struct {
	DefaultSearchDepth int    `yaml:"default_search_depth"` // Clamped to 10-50
	Instructions       string `yaml:"instructions"`         // Appended to the prompt
	Language           string `yaml:"language"`             // Language for result titles, e.g. "German"
}

// DefaultYAMLConfig is used when no config file exists.
func DefaultYAMLConfig() *YAMLConfig {
	return &YAMLConfig{
		Analysis: AnalysisConfig{DefaultSearchDepth: models.DefaultSearchDepth},
	}
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns the defaults without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	return loadYAMLConfig(getEnv("CONFIG_FILE", "config.yaml"))
}

func loadYAMLConfig(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return DefaultYAMLConfig(), nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Analysis.DefaultSearchDepth == 0 {
		cfg.Analysis.DefaultSearchDepth = models.DefaultSearchDepth
	}
	cfg.Analysis.DefaultSearchDepth = validation.ClampSearchDepth(cfg.Analysis.DefaultSearchDepth)

	return &cfg, nil
}

// PromptInstructions combines the free-form instructions with the language hint.
func (c *YAMLConfig) PromptInstructions() string {
	if c == nil {
		return ""
	}
	instructions := c.Analysis.Instructions
	if c.Analysis.Language != "" {
		if instructions != "" {
			instructions += "\n"
		}
		instructions += "Write result titles in " + c.Analysis.Language + "."
	}
	return instructions
}
