// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"twitter-search-builder/internal/filters"
	"twitter-search-builder/pkg/registry"
)

const defaultRegistryPath = "configs/templates.json"

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	// Add command flags
	pathAdd := addCmd.String("path", defaultRegistryPath, "Path to registry file")
	idAdd := addCmd.String("id", "", "Template ID (e.g., golang-jobs)")
	name := addCmd.String("name", "", "Display name (e.g., Go Jobs)")
	description := addCmd.String("description", "", "Description")
	icon := addCmd.String("icon", "", "Icon shown next to the name")
	filtersJSON := addCmd.String("filters", "{}", `Filters as a JSON object (e.g., {"textSearch":"golang hiring"})`)
	tags := addCmd.String("tags", "", "Comma separated tags")

	// Update command flags
	pathUpdate := updateCmd.String("path", defaultRegistryPath, "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Template ID to update")
	field := updateCmd.String("field", "", "Field to update (name, description, icon, filters, tags)")
	value := updateCmd.String("value", "", "New value for the field")

	// Validate command flags
	pathValidate := validateCmd.String("path", defaultRegistryPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *name == "" {
			fmt.Println("Error: id and name are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		parsed, err := parseFilters(*filtersJSON)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		template := registry.Template{
			ID:          *idAdd,
			Name:        *name,
			Description: *description,
			Icon:        *icon,
			Filters:     parsed,
			Tags:        splitTags(*tags),
		}
		if err := addTemplate(*pathAdd, template, time.Now()); err != nil {
			fmt.Printf("Error adding template: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added template: %s\n", *idAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" {
			fmt.Println("Error: id and field are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateTemplate(*pathUpdate, *idUpdate, *field, *value, time.Now()); err != nil {
			fmt.Printf("Error updating template: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated template %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		count, err := validateRegistry(*pathValidate)
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d templates.\n", count)

	case "help":
		fallthrough
	default:
		help()
	}
}

// parseFilters decodes a JSON object, keeping numbers as json.Number.
func parseFilters(raw string) (map[string]interface{}, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()

	var parsed map[string]interface{}
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("filters must be a JSON object: %w", err)
	}
	if parsed == nil {
		parsed = map[string]interface{}{}
	}
	return parsed, nil
}

func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// checkFilters rejects presets that could never produce a search URL.
func checkFilters(t registry.Template) error {
	result := filters.NewValidator().ValidateFilters(filters.FilterInput(t.Filters))
	if result.IsValid {
		return nil
	}
	problems := make([]string, len(result.Errors))
	for i, e := range result.Errors {
		problems[i] = fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Code)
	}
	return fmt.Errorf("template %s has invalid filters: %s", t.ID, strings.Join(problems, "; "))
}

func addTemplate(path string, template registry.Template, now time.Time) error {
	if err := checkFilters(template); err != nil {
		return err
	}

	reg, err := registry.LoadRegistry(path)
	if err != nil {
		// If file doesn't exist, create new registry
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.TemplateRegistry{
			Version:   "1.0.0",
			Templates: []registry.Template{},
		}
	}

	for _, existing := range reg.Templates {
		if existing.ID == template.ID {
			return fmt.Errorf("template with ID %s already exists", template.ID)
		}
	}

	reg.Templates = append(reg.Templates, template)
	reg.LastUpdated = now.UTC().Format(time.RFC3339)

	return save(path, reg)
}

func updateTemplate(path, id, field, value string, now time.Time) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	index := -1
	for i := range reg.Templates {
		if reg.Templates[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("template with ID %s not found", id)
	}

	t := &reg.Templates[index]
	switch field {
	case "name":
		t.Name = value
	case "description":
		t.Description = value
	case "icon":
		t.Icon = value
	case "tags":
		t.Tags = splitTags(value)
	case "filters":
		parsed, err := parseFilters(value)
		if err != nil {
			return err
		}
		t.Filters = parsed
		if err := checkFilters(*t); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.LastUpdated = now.UTC().Format(time.RFC3339)
	return save(path, reg)
}

// validateRegistry checks the schema, duplicate ids and every template's filters.
func validateRegistry(path string) (int, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load registry: %w", err)
	}

	if len(reg.Templates) == 0 {
		return 0, fmt.Errorf("registry contains no templates")
	}

	for _, t := range reg.Templates {
		if err := checkFilters(t); err != nil {
			return 0, err
		}
	}

	return len(reg.Templates), nil
}

// save re-validates through the schema before writing.
func save(path string, reg *registry.TemplateRegistry) error {
	data, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if _, err := registry.Parse(path, data); err != nil {
		return err
	}
	return registry.Save(path, reg)
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  add      Add a new template to the registry
  update   Update an existing template's field
  validate Validate the registry file
  help     Show this help message

Examples:
  registry-updater add -id golang-jobs -name "Go Jobs" -icon 🐹 -filters '{"textSearch":"golang hiring","language":"en"}' -tags jobs,go
  registry-updater update -id golang-jobs -field filters -value '{"textSearch":"golang remote","likesMin":10}'
  registry-updater validate -path configs/templates.json

Use 'registry-updater <command> -h' for more information about a command.
` + "\n")
}
