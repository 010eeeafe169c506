package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/openkraft/govaudit/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	fileName = ".govaudit.yaml"
	envFile  = ".env"
)

// Environment keys that override .govaudit.yaml.
const (
	EnvRulesDir     = "GOVAUDIT_RULES_DIR"
	EnvWorkflowsDir = "GOVAUDIT_WORKFLOWS_DIR"
	EnvReportsDir   = "GOVAUDIT_REPORTS_DIR"
	EnvMinScore     = "GOVAUDIT_MIN_SCORE"
	EnvWorkers      = "GOVAUDIT_WORKERS"
)

var envKeys = []string{EnvRulesDir, EnvWorkflowsDir, EnvReportsDir, EnvMinScore, EnvWorkers}

// YAMLLoader implements domain.ConfigLoader by reading .govaudit.yaml and
// applying environment overrides on top.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .govaudit.yaml from root. A missing file yields DefaultConfig.
// Overrides come from root/.env, and real environment variables win over
// both the file and .env.
func (l *YAMLLoader) Load(root string) (domain.ProjectConfig, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(filepath.Join(root, fileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return domain.ProjectConfig{}, fmt.Errorf("reading %s: %w", fileName, err)
	default:
		var raw domain.ProjectConfig
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
		}
		// Validate the user's raw input before defaults can mask it.
		if err := raw.Validate(); err != nil {
			return domain.ProjectConfig{}, fmt.Errorf("%w: %s: %w", domain.ErrInvalidConfig, fileName, err)
		}
		cfg = mergeConfig(cfg, raw)
	}

	env, err := lookupEnv(root)
	if err != nil {
		return domain.ProjectConfig{}, err
	}
	if cfg, err = applyEnv(cfg, env); err != nil {
		return domain.ProjectConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// mergeConfig overlays explicit values from override on top of base.
func mergeConfig(base, override domain.ProjectConfig) domain.ProjectConfig {
	result := base

	if override.RulesDir != "" {
		result.RulesDir = override.RulesDir
	}
	if override.WorkflowsDir != "" {
		result.WorkflowsDir = override.WorkflowsDir
	}
	if override.ReportsDir != "" {
		result.ReportsDir = override.ReportsDir
	}
	if override.IndexDocument != "" {
		result.IndexDocument = override.IndexDocument
	}
	if override.MetaGovernanceDocument != "" {
		result.MetaGovernanceDocument = override.MetaGovernanceDocument
	}
	if override.MinScore != nil {
		v := *override.MinScore
		result.MinScore = &v
	}
	if override.Workers > 0 {
		result.Workers = override.Workers
	}
	result.DisableHistory = override.DisableHistory

	return result
}

// lookupEnv collects the override keys from root/.env and the process
// environment. The process environment wins.
func lookupEnv(root string) (map[string]string, error) {
	out := make(map[string]string)

	fromFile, err := godotenv.Read(filepath.Join(root, envFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", envFile, err)
	}
	for _, k := range envKeys {
		if v, ok := fromFile[k]; ok {
			out[k] = v
		}
		if v, ok := os.LookupEnv(k); ok {
			out[k] = v
		}
	}
	return out, nil
}

func applyEnv(cfg domain.ProjectConfig, env map[string]string) (domain.ProjectConfig, error) {
	if v := env[EnvRulesDir]; v != "" {
		cfg.RulesDir = v
	}
	if v := env[EnvWorkflowsDir]; v != "" {
		cfg.WorkflowsDir = v
	}
	if v := env[EnvReportsDir]; v != "" {
		cfg.ReportsDir = v
	}
	if v := env[EnvMinScore]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s=%q is not an integer", domain.ErrInvalidConfig, EnvMinScore, v)
		}
		cfg.MinScore = &n
	}
	if v := env[EnvWorkers]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s=%q is not an integer", domain.ErrInvalidConfig, EnvWorkers, v)
		}
		cfg.Workers = n
	}
	return cfg, nil
}
