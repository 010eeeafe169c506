package cli

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openkraft/govaudit/internal/domain"
)

const configFileName = ".govaudit.yaml"

//go:embed scaffold/*.md
var scaffoldFS embed.FS

func newInitCmd() *cobra.Command {
	var (
		force    bool
		scaffold bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .govaudit.yaml configuration file",
		Long: "Create a .govaudit.yaml with the default corpus layout. With --scaffold, also create the rules " +
			"and workflows directories with a starter index and meta-governance document.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := corpusPath(args)
			if err != nil {
				return err
			}

			dest := filepath.Join(absPath, configFileName)
			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", configFileName)
				}
			}

			if err := os.WriteFile(dest, []byte(generateConfig(domain.DefaultConfig())), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configFileName)

			if !scaffold {
				return nil
			}
			created, err := writeScaffold(absPath, domain.DefaultConfig())
			if err != nil {
				return err
			}
			for _, p := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .govaudit.yaml")
	cmd.Flags().BoolVar(&scaffold, "scaffold", false, "Create the corpus directories and starter documents")

	return cmd
}

func generateConfig(cfg domain.ProjectConfig) string {
	return fmt.Sprintf(`# govaudit configuration

rules_dir: %s
workflows_dir: %s
reports_dir: %s

# Mandated documents inside rules_dir.
index_document: %s
meta_governance_document: %s

# Minimum overall score for an audit to pass.
min_score: %d

# Concurrent document analyzers (0 = one per CPU).
# workers: 4

# disable_history: true
`, cfg.RulesDir, cfg.WorkflowsDir, cfg.ReportsDir, cfg.IndexDocument, cfg.MetaGovernanceDocument, cfg.Threshold())
}

// writeScaffold creates the corpus directories and any mandated document that
// does not exist yet. Existing documents are never overwritten.
func writeScaffold(root string, cfg domain.ProjectConfig) ([]string, error) {
	for _, dir := range []string{cfg.RulesDir, cfg.WorkflowsDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	docs := []struct{ src, name string }{
		{"scaffold/RULE_INDEX.md", cfg.IndexDocument},
		{"scaffold/META_GOVERNANCE.md", cfg.MetaGovernanceDocument},
	}
	var created []string
	for _, d := range docs {
		rel := filepath.Join(cfg.RulesDir, d.name)
		dest := filepath.Join(root, rel)
		if _, err := os.Stat(dest); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return created, fmt.Errorf("checking %s: %w", rel, err)
		}
		data, err := scaffoldFS.ReadFile(d.src)
		if err != nil {
			return created, err
		}
		if err := os.WriteFile(dest, data, 0644); err != nil {
			return created, fmt.Errorf("writing %s: %w", rel, err)
		}
		created = append(created, rel)
	}
	return created, nil
}
