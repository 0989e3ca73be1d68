package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed checklist.yaml
var defaultChecklistYAML []byte

// Checklist is the versioned list of tasks seeded into every new shift.
type Checklist struct {
	Version int      `yaml:"version"`
	Tareas  []string `yaml:"tareas"`
}

// ChecklistPorDefecto returns the embedded 22-task checklist.
func ChecklistPorDefecto() Checklist {
	cl, err := ParseChecklist(defaultChecklistYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded checklist.yaml: %v", err))
	}
	return cl
}

// LoadChecklist reads the checklist at path, or the embedded default when
// path is empty.
func LoadChecklist(path string) (Checklist, error) {
	if strings.TrimSpace(path) == "" {
		return ChecklistPorDefecto(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Checklist{}, fmt.Errorf("read checklist: %w", err)
	}
	return ParseChecklist(data)
}

// ParseChecklist decodes and validates a checklist document.
func ParseChecklist(data []byte) (Checklist, error) {
	var cl Checklist
	if err := yaml.Unmarshal(data, &cl); err != nil {
		return Checklist{}, fmt.Errorf("parse checklist: %w", err)
	}
	if cl.Version < 1 {
		return Checklist{}, errors.New("checklist: version must be >= 1")
	}
	seen := make(map[string]bool, len(cl.Tareas))
	tareas := cl.Tareas[:0]
	for _, t := range cl.Tareas {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if seen[t] {
			return Checklist{}, fmt.Errorf("checklist: duplicate task %q", t)
		}
		seen[t] = true
		tareas = append(tareas, t)
	}
	if len(tareas) == 0 {
		return Checklist{}, errors.New("checklist: no tasks")
	}
	cl.Tareas = tareas
	return cl, nil
}
