package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a single form definition from JSON or YAML bytes and
// validates it. The name hint is only used for error messages.
func Parse(data []byte, name string) (Form, error) {
	var form Form
	if isJSONFile(name) || looksLikeJSON(data) {
		if err := json.Unmarshal(data, &form); err != nil {
			return Form{}, fmt.Errorf("schema: parse %s: %w", name, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &form); err != nil {
			return Form{}, fmt.Errorf("schema: parse %s: %w", name, err)
		}
	}
	if err := form.Validate(); err != nil {
		return Form{}, err
	}
	return form, nil
}

// LoadFile reads and parses a form definition from disk.
func LoadFile(path string) (Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Form{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data, filepath.Base(path))
}

// LoadFS walks fsys and parses every JSON/YAML definition file, returning
// forms keyed by their declared ID. Duplicate IDs are rejected.
func LoadFS(fsys fs.FS) (map[string]Form, error) {
	forms := make(map[string]Form)
	if fsys == nil {
		return forms, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		form, err := Parse(data, path)
		if err != nil {
			return err
		}
		if _, exists := forms[form.ID]; exists {
			return fmt.Errorf("schema: duplicate form id %q (file %s)", form.ID, path)
		}
		forms[form.ID] = form
		return nil
	})
	if err != nil {
		return nil, err
	}
	return forms, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func isJSONFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}

func looksLikeJSON(data []byte) bool {
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}
