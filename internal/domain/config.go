package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Defaults applied when .govaudit.yaml leaves a key unset.
const (
	DefaultRulesDir               = "Rules"
	DefaultWorkflowsDir           = "Workflows"
	DefaultReportsDir             = "reports"
	DefaultIndexDocument          = "RULE_INDEX.md"
	DefaultMetaGovernanceDocument = "META_GOVERNANCE.md"
	DefaultMinScore               = 70
)

// ProjectConfig holds corpus-level configuration loaded from .govaudit.yaml.
type ProjectConfig struct {
	RulesDir               string `yaml:"rules_dir"                json:"rules_dir,omitempty"`
	WorkflowsDir           string `yaml:"workflows_dir"            json:"workflows_dir,omitempty"`
	ReportsDir             string `yaml:"reports_dir"              json:"reports_dir,omitempty"`
	IndexDocument          string `yaml:"index_document"           json:"index_document,omitempty"`
	MetaGovernanceDocument string `yaml:"meta_governance_document" json:"meta_governance_document,omitempty"`
	// MinScore is a pointer so an explicit 0 can be told apart from "not set".
	MinScore       *int `yaml:"min_score"       json:"min_score,omitempty"`
	Workers        int  `yaml:"workers"         json:"workers,omitempty"`
	DisableHistory bool `yaml:"disable_history" json:"disable_history,omitempty"`
}

// DefaultConfig returns the configuration used when no .govaudit.yaml exists.
func DefaultConfig() ProjectConfig {
	minScore := DefaultMinScore
	return ProjectConfig{
		RulesDir:               DefaultRulesDir,
		WorkflowsDir:           DefaultWorkflowsDir,
		ReportsDir:             DefaultReportsDir,
		IndexDocument:          DefaultIndexDocument,
		MetaGovernanceDocument: DefaultMetaGovernanceDocument,
		MinScore:               &minScore,
	}
}

// Threshold returns the minimum overall score an audit run needs to pass.
func (c ProjectConfig) Threshold() int {
	if c.MinScore == nil {
		return DefaultMinScore
	}
	return *c.MinScore
}

// DirFor returns the corpus-relative directory holding documents of category cat.
func (c ProjectConfig) DirFor(cat Category) string {
	if cat == CategoryWorkflow {
		return c.WorkflowsDir
	}
	return c.RulesDir
}

// ReportsPath resolves ReportsDir against the corpus root.
func (c ProjectConfig) ReportsPath(root string) string {
	if filepath.IsAbs(c.ReportsDir) {
		return c.ReportsDir
	}
	return filepath.Join(root, c.ReportsDir)
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	if c.MinScore != nil && (*c.MinScore < 0 || *c.MinScore > 100) {
		return fmt.Errorf("min_score = %d (must be between 0 and 100)", *c.MinScore)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", c.Workers)
	}

	docs := map[string]string{
		"index_document":           c.IndexDocument,
		"meta_governance_document": c.MetaGovernanceDocument,
	}
	for key, name := range docs {
		if name == "" {
			continue
		}
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%s %q must be a file name inside rules_dir, not a path", key, name)
		}
		if !strings.EqualFold(filepath.Ext(name), ".md") {
			return fmt.Errorf("%s %q must be a Markdown file", key, name)
		}
	}

	if c.RulesDir != "" && c.RulesDir == c.WorkflowsDir {
		return fmt.Errorf("rules_dir and workflows_dir must differ (both %q)", c.RulesDir)
	}

	return nil
}
