package driver

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Installer materializes manifest dependencies into the cache directory and
// keeps the lockfile in sync with the revisions it checked out.
type Installer struct {
	manifest *Manifest
	cacheDir string
}

// NewInstaller returns an installer rooted at cacheDir.
func NewInstaller(manifest *Manifest, cacheDir string) *Installer {
	return &Installer{manifest: manifest, cacheDir: cacheDir}
}

// DependencyDir returns where a named dependency is checked out.
func (ins *Installer) DependencyDir(name string) string {
	return filepath.Join(ins.cacheDir, "deps", name)
}

// Install resolves every manifest dependency, cloning or refreshing its
// repository and checking out the pinned revision. Existing lock entries win
// over manifest pins; deleting an entry (as deps update does) re-resolves it.
// It reports whether the lockfile changed, plus human-readable log lines.
func (ins *Installer) Install(lock *Lockfile) (bool, []string, error) {
	if lock == nil {
		return false, nil, fmt.Errorf("installer: lockfile required")
	}
	names := make([]string, 0, len(ins.manifest.Dependencies))
	for name := range ins.manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	changed := false
	var logs []string
	for _, name := range names {
		dep := ins.manifest.Dependencies[name]
		if dep == nil {
			continue
		}
		rev, cloned, err := ins.installOne(name, dep, lock.Find(name))
		if err != nil {
			return changed, logs, fmt.Errorf("installer: dependency %s: %w", name, err)
		}
		if cloned {
			logs = append(logs, fmt.Sprintf("Cloned %s from %s", name, dep.Git))
		}
		locked := lock.Find(name)
		switch {
		case locked == nil:
			lock.Packages = append(lock.Packages, &LockedPackage{Name: name, Git: dep.Git, Rev: rev})
			changed = true
			logs = append(logs, fmt.Sprintf("Pinned %s at %s", name, rev))
		case locked.Rev != rev || locked.Git != dep.Git:
			locked.Git = dep.Git
			locked.Rev = rev
			changed = true
			logs = append(logs, fmt.Sprintf("Repinned %s at %s", name, rev))
		default:
			logs = append(logs, fmt.Sprintf("%s already at %s", name, rev))
		}
	}
	return changed, logs, nil
}

func (ins *Installer) installOne(name string, dep *DependencySpec, locked *LockedPackage) (string, bool, error) {
	dir := ins.DependencyDir(name)
	cloned := false
	repo, err := git.PlainOpen(dir)
	switch {
	case errors.Is(err, git.ErrRepositoryNotExists):
		repo, err = git.PlainClone(dir, false, &git.CloneOptions{URL: dep.Git})
		if err != nil {
			return "", false, fmt.Errorf("clone %s: %w", dep.Git, err)
		}
		cloned = true
	case err != nil:
		return "", false, fmt.Errorf("open cached repository: %w", err)
	default:
		if fetchErr := repo.Fetch(&git.FetchOptions{Tags: git.AllTags}); fetchErr != nil && !errors.Is(fetchErr, git.NoErrAlreadyUpToDate) {
			return "", false, fmt.Errorf("fetch %s: %w", dep.Git, fetchErr)
		}
	}

	// The cached checkout is detached, so unpinned and branch revisions must
	// resolve through the remote-tracking refs, not the local HEAD.
	var revision string
	switch {
	case locked != nil && locked.Git == dep.Git && locked.Rev != "":
		revision = locked.Rev
	case dep.Rev != "":
		revision = dep.Rev
	case dep.Tag != "":
		revision = "refs/tags/" + dep.Tag
	case dep.Branch != "":
		revision = remoteBranchRef(dep.Branch)
	default:
		revision = remoteHeadRef(repo)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return "", cloned, fmt.Errorf("resolve revision %q: %w", revision, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return "", cloned, fmt.Errorf("open worktree: %w", err)
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash}); err != nil {
		return "", cloned, fmt.Errorf("checkout %s: %w", hash, err)
	}
	return hash.String(), cloned, nil
}

func remoteBranchRef(branch string) string {
	return "refs/remotes/" + git.DefaultRemoteName + "/" + branch
}

// remoteHeadRef asks the remote which branch HEAD points at. The local HEAD
// is useless here once a previous install has detached it.
func remoteHeadRef(repo *git.Repository) string {
	remote, err := repo.Remote(git.DefaultRemoteName)
	if err != nil {
		return "HEAD"
	}
	refs, err := remote.List(&git.ListOptions{})
	if err != nil {
		return "HEAD"
	}
	for _, ref := range refs {
		if ref.Name() != plumbing.HEAD {
			continue
		}
		if ref.Type() == plumbing.SymbolicReference {
			return remoteBranchRef(strings.TrimPrefix(ref.Target().String(), "refs/heads/"))
		}
		return ref.Hash().String()
	}
	return "HEAD"
}
