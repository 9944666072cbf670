// Copyright (C) 2026 Solidforge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package agents loads declarative agent definitions from YAML files and
// resolves {name}-style placeholders against a substitution map.
package agents

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/solidforge/solidforge/internal/config"
	"github.com/solidforge/solidforge/internal/logger"
)

var (
	// ErrNotFound indicates that no definition file exists for the agent id.
	ErrNotFound = errors.New("agent definition not found")

	// ErrPlaceholderMissing indicates a {name} placeholder with no entry in
	// the substitution map.
	ErrPlaceholderMissing = errors.New("placeholder has no substitution value")
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Definition is one agent's declarative record: the persona handed to the
// LLM backend verbatim, the task attached to the agent, and the execution
// constraints.
type Definition struct {
	ID              string   `yaml:"-"`
	Role            string   `yaml:"role"`
	Goal            string   `yaml:"goal"`
	Backstory       string   `yaml:"backstory"`
	TaskDescription string   `yaml:"task_description"`
	ExpectedOutput  string   `yaml:"expected_output"`
	OutputFile      string   `yaml:"output_file"`
	Model           string   `yaml:"model"`
	Tools           []string `yaml:"tools"`
	DependsOn       []string `yaml:"depends_on"`
	ApprovalGate    bool     `yaml:"requires_approval"`
}

// Validate checks the structural requirements of a definition.
func (d *Definition) Validate() error {
	if d.Role == "" {
		return fmt.Errorf("definition %q: role is required", d.ID)
	}
	if d.Goal == "" {
		return fmt.Errorf("definition %q: goal is required", d.ID)
	}
	if d.TaskDescription == "" {
		return fmt.Errorf("definition %q: task_description is required", d.ID)
	}
	return nil
}

// Placeholders returns the distinct placeholder names referenced anywhere
// in the definition, sorted.
func (d *Definition) Placeholders() []string {
	var names []string
	for _, field := range d.templateFields() {
		for _, m := range placeholderPattern.FindAllStringSubmatch(*field, -1) {
			names = append(names, m[1])
		}
	}
	names = lo.Uniq(names)
	sort.Strings(names)
	return names
}

// Resolve returns a copy of the definition with every {name} placeholder
// replaced by vars[name]. A placeholder without a matching key fails with
// ErrPlaceholderMissing. Resolution is deterministic: resolving the same
// definition against the same map always yields the same result.
func (d *Definition) Resolve(vars map[string]string) (*Definition, error) {
	resolved := *d
	resolved.Tools = append([]string(nil), d.Tools...)
	resolved.DependsOn = append([]string(nil), d.DependsOn...)

	for _, field := range resolved.templateFields() {
		out, err := substitute(*field, vars)
		if err != nil {
			return nil, fmt.Errorf("definition %q: %w", d.ID, err)
		}
		*field = out
	}
	return &resolved, nil
}

// templateFields lists the fields subject to placeholder substitution.
func (d *Definition) templateFields() []*string {
	return []*string{
		&d.Role,
		&d.Goal,
		&d.Backstory,
		&d.TaskDescription,
		&d.ExpectedOutput,
		&d.OutputFile,
	}
}

func substitute(text string, vars map[string]string) (string, error) {
	var missing string
	out := placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := vars[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return match
		}
		return value
	})
	if missing != "" {
		return "", fmt.Errorf("%w: {%s}", ErrPlaceholderMissing, missing)
	}
	return out, nil
}

// Loader reads definitions from a directory of <id>.yaml files. Files are
// re-read on every Load so edits take effect without a restart.
type Loader struct {
	dir string
}

// NewLoader creates a loader over the configured definitions directory.
func NewLoader(cfg *config.AgentsConfig) *Loader {
	return &Loader{dir: cfg.DefinitionsDir}
}

// Load reads and parses the definition for an agent id.
func (l *Loader) Load(id string) (*Definition, error) {
	log := logger.GetAgentsLogger()

	path := filepath.Join(l.dir, id+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read definition %s: %w", path, err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse definition %s: %w", path, err)
	}
	def.ID = id

	if err := def.Validate(); err != nil {
		return nil, err
	}

	log.Debug().Str("agent", id).Str("path", path).Msg("Loaded agent definition")
	return &def, nil
}

// LoadResolved loads a definition and resolves its placeholders in one step.
func (l *Loader) LoadResolved(id string, vars map[string]string) (*Definition, error) {
	def, err := l.Load(id)
	if err != nil {
		return nil, err
	}
	return def.Resolve(vars)
}

// List returns the agent ids available in the definitions directory, sorted.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions dir %s: %w", l.dir, err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(ids)
	return ids, nil
}
