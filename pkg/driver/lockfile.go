package driver

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// LockfileName sits next to package.yml and pins resolved dependency
// revisions.
const LockfileName = "package.lock"

// Lockfile records the exact commit each dependency resolved to.
type Lockfile struct {
	Path     string           `yaml:"-"`
	Root     string           `yaml:"root"`
	Tool     string           `yaml:"tool"`
	Packages []*LockedPackage `yaml:"packages"`
}

// LockedPackage pins one dependency.
type LockedPackage struct {
	Name string `yaml:"name"`
	Git  string `yaml:"git"`
	Rev  string `yaml:"rev"`
}

// NewLockfile creates an empty lockfile for the given root package.
func NewLockfile(root, tool string) *Lockfile {
	return &Lockfile{Root: root, Tool: tool}
}

// LoadLockfile reads and parses package.lock.
func LoadLockfile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock Lockfile
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", path, err)
	}
	lock.Path = path
	return &lock, nil
}

// WriteLockfile writes the lockfile with packages in name order.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nothing to write")
	}
	sort.Slice(lock.Packages, func(a, b int) bool {
		return lock.Packages[a].Name < lock.Packages[b].Name
	})
	data, err := yaml.Marshal(lock)
	if err != nil {
		return fmt.Errorf("lockfile: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", path, err)
	}
	lock.Path = path
	return nil
}

// Find returns the pinned entry for a dependency, or nil.
func (l *Lockfile) Find(name string) *LockedPackage {
	if l == nil {
		return nil
	}
	for _, pkg := range l.Packages {
		if pkg != nil && pkg.Name == name {
			return pkg
		}
	}
	return nil
}
