// pkg/registry/schema.go
package registry

// TemplateRegistry is a JSON document of extra search presets shipped alongside the binary.
type TemplateRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Templates   []Template `json:"templates"`
}

type Template struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Icon        string                 `json:"icon"`
	Filters     map[string]interface{} `json:"filters"`
	Tags        []string               `json:"tags,omitempty"`
}

const registrySchema = `{
	"type": "object",
	"required": ["version", "templates"],
	"properties": {
		"version": {"type": "string", "minLength": 1},
		"lastUpdated": {"type": "string"},
		"templates": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "name", "filters"],
				"properties": {
					"id": {"type": "string", "pattern": "^[a-z0-9][a-z0-9-]*$"},
					"name": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"icon": {"type": "string"},
					"filters": {"type": "object"},
					"tags": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`
