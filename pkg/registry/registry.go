// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	apperrors "twitter-search-builder/internal/common/errors"
	"twitter-search-builder/internal/common/validation"
)

var schema = validation.MustCompile(registrySchema)

// LoadRegistry reads and schema-checks a template registry file.
func LoadRegistry(path string) (*TemplateRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template registry: %w", err)
	}
	return Parse(path, data)
}

// Parse validates data and decodes it. path is only used in error details.
func Parse(path string, data []byte) (*TemplateRegistry, error) {
	result, err := schema.ValidateBytes(data)
	if err != nil {
		return nil, apperrors.NewRegistryInvalidError(path, []string{"document is not valid JSON"})
	}
	if !result.Valid {
		return nil, apperrors.NewRegistryInvalidError(path, result.GetErrorMessages())
	}

	var reg TemplateRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, apperrors.NewRegistryInvalidError(path, []string{err.Error()})
	}

	seen := make(map[string]bool, len(reg.Templates))
	var duplicates []string
	for _, t := range reg.Templates {
		if seen[t.ID] {
			duplicates = append(duplicates, fmt.Sprintf("duplicate template id %q", t.ID))
		}
		seen[t.ID] = true
	}
	if len(duplicates) > 0 {
		return nil, apperrors.NewRegistryInvalidError(path, duplicates)
	}

	return &reg, nil
}

// Save writes reg as indented JSON, creating parent directories as needed.
func Save(path string, reg *TemplateRegistry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
