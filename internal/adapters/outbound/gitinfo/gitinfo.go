package gitinfo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/openkraft/govaudit/internal/domain"
)

// GitInfoAdapter implements domain.MetadataProvider using go-git. A document
// that is committed and clean reports the time of the last commit touching
// it; anything else falls back to the filesystem mtime. The worktree status is
// snapshotted per root until Refresh is called.
type GitInfoAdapter struct {
	mu    sync.Mutex
	repos map[string]*repoState
}

type repoState struct {
	repo   *git.Repository
	wtRoot string
	status git.Status
}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{repos: make(map[string]*repoState)}
}

func open(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
}

func (g *GitInfoAdapter) IsGitRepo(projectPath string) bool {
	_, err := open(projectPath)
	return err == nil
}

func (g *GitInfoAdapter) CommitHash(projectPath string) (string, error) {
	repo, err := open(projectPath)
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	return head.Hash().String(), nil
}

func (g *GitInfoAdapter) LastModified(ctx context.Context, root, documentID string) (time.Time, error) {
	path := filepath.Join(root, filepath.FromSlash(documentID))
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, documentID)
		}
		return time.Time{}, fmt.Errorf("stat %s: %w", documentID, err)
	}
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	st := g.state(root)
	if st == nil {
		return info.ModTime(), nil
	}

	rel, ok := st.relative(path)
	if !ok {
		return info.ModTime(), nil
	}
	if fst, listed := st.status[rel]; listed {
		if fst.Worktree != git.Unmodified || fst.Staging != git.Unmodified {
			return info.ModTime(), nil
		}
	}

	when, ok := lastCommit(st.repo, rel)
	if !ok {
		return info.ModTime(), nil
	}
	return when, nil
}

// Refresh drops the cached worktree snapshot for root so the next lookup
// sees edits made since the previous run.
func (g *GitInfoAdapter) Refresh(root string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.repos, root)
}

// state opens and caches the repository enclosing root. A nil result means
// root is not inside a usable worktree.
func (g *GitInfoAdapter) state(root string) *repoState {
	g.mu.Lock()
	defer g.mu.Unlock()

	if st, ok := g.repos[root]; ok {
		return st
	}

	var st *repoState
	if repo, err := open(root); err == nil {
		if wt, err := repo.Worktree(); err == nil {
			if status, err := wt.Status(); err == nil {
				st = &repoState{repo: repo, wtRoot: resolve(wt.Filesystem.Root()), status: status}
			}
		}
	}
	g.repos[root] = st
	return st
}

func (s *repoState) relative(path string) (string, bool) {
	rel, err := filepath.Rel(s.wtRoot, resolve(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func lastCommit(repo *git.Repository, rel string) (time.Time, bool) {
	iter, err := repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return time.Time{}, false
	}
	defer iter.Close()

	// io.EOF means no commit ever touched the file.
	c, err := iter.Next()
	if err != nil {
		return time.Time{}, false
	}
	return c.Committer.When, true
}

func resolve(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}
