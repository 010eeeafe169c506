package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/openkraft/govaudit/internal/domain"
)

const documentExt = ".md"

// FileScanner implements domain.DocumentSource and domain.StructureChecker
// over a corpus directory on disk.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Documents reads every Markdown file directly inside root/dir, sorted by
// name. Subdirectories are not descended into. A missing dir yields no
// documents; any other read failure is returned.
func (s *FileScanner) Documents(ctx context.Context, root, dir string) ([]domain.SourceDocument, error) {
	entries, err := os.ReadDir(filepath.Join(root, dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var docs []domain.SourceDocument
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || filepath.Ext(e.Name()) != documentExt {
			continue
		}

		id := path.Join(filepath.ToSlash(dir), e.Name())
		data, err := os.ReadFile(filepath.Join(root, dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", id, err)
		}
		docs = append(docs, domain.SourceDocument{ID: id, Text: string(data)})
	}
	return docs, nil
}

// Check reports which of the configured corpus directories and mandated
// rules documents exist under root.
func (s *FileScanner) Check(root string, cfg domain.ProjectConfig) (domain.StructuralPresence, error) {
	var p domain.StructuralPresence
	var err error

	if p.RulesDirPresent, err = exists(filepath.Join(root, cfg.RulesDir), true); err != nil {
		return p, err
	}
	if p.WorkflowsDirPresent, err = exists(filepath.Join(root, cfg.WorkflowsDir), true); err != nil {
		return p, err
	}
	if p.IndexPresent, err = exists(filepath.Join(root, cfg.RulesDir, cfg.IndexDocument), false); err != nil {
		return p, err
	}
	if p.MetaGovernancePresent, err = exists(filepath.Join(root, cfg.RulesDir, cfg.MetaGovernanceDocument), false); err != nil {
		return p, err
	}
	return p, nil
}

func exists(p string, wantDir bool) (bool, error) {
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("checking %s: %w", p, err)
	}
	return info.IsDir() == wantDir, nil
}
