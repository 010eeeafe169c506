package scanner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/openkraft/govaudit/internal/adapters/outbound/scanner"
	"github.com/openkraft/govaudit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const healthyDir = "../../../../testdata/corpus/healthy"
const brokenDir = "../../../../testdata/corpus/broken"

func TestFileScanner_Documents(t *testing.T) {
	s := scanner.New()
	docs, err := s.Documents(context.Background(), healthyDir, "Rules")
	require.NoError(t, err)

	var ids []string
	for _, d := range docs {
		ids = append(ids, d.ID)
		assert.NotEmpty(t, d.Text)
	}
	assert.Equal(t, []string{
		"Rules/META_GOVERNANCE.md",
		"Rules/RULE_INDEX.md",
		"Rules/secure-coding.md",
	}, ids)
}

func TestFileScanner_Documents_MissingDir(t *testing.T) {
	s := scanner.New()
	docs, err := s.Documents(context.Background(), brokenDir, "Workflows")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFileScanner_Documents_SkipsNonMarkdownAndSubdirs(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Rules")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "archive"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("b"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.MD"), []byte("c"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archive", "old.md"), []byte("old"), 0644))

	docs, err := scanner.New().Documents(context.Background(), root, "Rules")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Rules/a.md", docs[0].ID, "the extension match is case-sensitive")
	assert.Equal(t, "a", docs[0].Text)
	assert.Equal(t, "Rules/b.md", docs[1].ID)
}

func TestFileScanner_Documents_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scanner.New().Documents(ctx, healthyDir, "Rules")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileScanner_Documents_DirIsFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Rules"), []byte("not a dir"), 0644))

	_, err := scanner.New().Documents(context.Background(), root, "Rules")
	assert.Error(t, err)
}

func TestFileScanner_Check_Healthy(t *testing.T) {
	p, err := scanner.New().Check(healthyDir, domain.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, domain.CompletePresence(), p)
}

func TestFileScanner_Check_Broken(t *testing.T) {
	p, err := scanner.New().Check(brokenDir, domain.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, domain.StructuralPresence{RulesDirPresent: true}, p)
}

func TestFileScanner_Check_CustomNames(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "policies"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "policies", "INDEX.md"), []byte("i"), 0644))

	cfg := domain.DefaultConfig()
	cfg.RulesDir = "policies"
	cfg.IndexDocument = "INDEX.md"

	p, err := scanner.New().Check(root, cfg)
	require.NoError(t, err)
	assert.True(t, p.RulesDirPresent)
	assert.True(t, p.IndexPresent)
	assert.False(t, p.MetaGovernancePresent)
	assert.False(t, p.WorkflowsDirPresent)
}

func TestFileScanner_Check_IndexIsDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Rules", "RULE_INDEX.md"), 0755))

	p, err := scanner.New().Check(root, domain.DefaultConfig())
	require.NoError(t, err)
	assert.False(t, p.IndexPresent)
}
