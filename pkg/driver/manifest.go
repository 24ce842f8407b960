package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project manifest looked for next to slip sources.
const ManifestFileName = "package.yml"

// Manifest represents the parsed contents of package.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Authors      []string
	Targets      map[string]*TargetSpec
	TargetOrder  []string
	Dependencies map[string]*DependencySpec
}

// TargetSpec describes a runnable entry point from the manifest.
type TargetSpec struct {
	Name string
	Main string
}

// DependencySpec describes a git-sourced dependency. At most one of Rev,
// Tag, and Branch may be set; with none set the remote HEAD is used.
type DependencySpec struct {
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses package.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from start upward until it finds package.yml.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve search path %q: %w", start, err)
	}
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("manifest: %s not found in %s or any parent", ManifestFileName, start)
		}
		dir = parent
	}
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for i, author := range m.Authors {
		if author == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("authors[%d] must be a non-empty string", i))
		}
	}
	for _, name := range m.TargetOrder {
		target := m.Targets[name]
		if target == nil {
			continue
		}
		if target.Main == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q requires a main entrypoint", name))
		}
	}
	for name, dep := range m.Dependencies {
		if dep == nil {
			continue
		}
		if dep.Git == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: must specify a git source", name))
		}
		pins := 0
		for _, pin := range []string{dep.Rev, dep.Tag, dep.Branch} {
			if pin != "" {
				pins++
			}
		}
		if pins > 1 {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: rev, tag, and branch are mutually exclusive", name))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

var ErrNoTarget = errors.New("manifest: no targets defined")

// DefaultTarget returns the first target in manifest order.
func (m *Manifest) DefaultTarget() (*TargetSpec, error) {
	if m == nil || len(m.TargetOrder) == 0 {
		return nil, ErrNoTarget
	}
	return m.Targets[m.TargetOrder[0]], nil
}

// FindTarget looks up a target by name.
func (m *Manifest) FindTarget(name string) (*TargetSpec, bool) {
	if m == nil {
		return nil, false
	}
	target, ok := m.Targets[strings.TrimSpace(name)]
	return target, ok && target != nil
}

// MainPath resolves a target's entry file relative to the manifest location.
func (m *Manifest) MainPath(target *TargetSpec) (string, error) {
	if m == nil || target == nil {
		return "", fmt.Errorf("manifest: missing manifest or target")
	}
	main := strings.TrimSpace(target.Main)
	if main == "" {
		return "", fmt.Errorf("manifest: target %q missing main entrypoint", target.Name)
	}
	if filepath.IsAbs(main) {
		return filepath.Clean(main), nil
	}
	return filepath.Join(filepath.Dir(m.Path), filepath.FromSlash(main)), nil
}

type manifestFile struct {
	Name         string                     `yaml:"name"`
	Version      string                     `yaml:"version"`
	Authors      []string                   `yaml:"authors"`
	Targets      targetMap                  `yaml:"targets"`
	Dependencies map[string]*DependencySpec `yaml:"dependencies"`
}

type targetYAML struct {
	Main string `yaml:"main"`
}

// targetMap preserves declaration order so the first target can act as the
// default.
type targetMap struct {
	names []string
	specs map[string]*targetYAML
}

func (tm *targetMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		tm.names = nil
		tm.specs = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: targets must be a mapping")
	}
	tm.specs = make(map[string]*targetYAML, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: targets must not use empty keys")
		}
		entry := new(targetYAML)
		if err := value.Content[i+1].Decode(entry); err != nil {
			return fmt.Errorf("manifest: target %q: %w", key, err)
		}
		tm.names = append(tm.names, key)
		tm.specs[key] = entry
	}
	return nil
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:         path,
		Name:         strings.TrimSpace(mf.Name),
		Version:      strings.TrimSpace(mf.Version),
		Targets:      make(map[string]*TargetSpec, len(mf.Targets.names)),
		TargetOrder:  make([]string, 0, len(mf.Targets.names)),
		Dependencies: make(map[string]*DependencySpec, len(mf.Dependencies)),
	}
	for _, author := range mf.Authors {
		author = strings.TrimSpace(author)
		if author != "" {
			result.Authors = append(result.Authors, author)
		}
	}
	for _, name := range mf.Targets.names {
		spec := mf.Targets.specs[name]
		if spec == nil {
			continue
		}
		result.Targets[name] = &TargetSpec{Name: name, Main: strings.TrimSpace(spec.Main)}
		result.TargetOrder = append(result.TargetOrder, name)
	}
	for name, dep := range mf.Dependencies {
		if dep == nil {
			continue
		}
		result.Dependencies[strings.TrimSpace(name)] = &DependencySpec{
			Git:    strings.TrimSpace(dep.Git),
			Rev:    strings.TrimSpace(dep.Rev),
			Tag:    strings.TrimSpace(dep.Tag),
			Branch: strings.TrimSpace(dep.Branch),
		}
	}
	return result
}
