// Package templates provides search presets that are merged into the form state.
package templates

import (
	"time"

	apperrors "twitter-search-builder/internal/common/errors"
	"twitter-search-builder/internal/filters"
	"twitter-search-builder/pkg/registry"
)

type Template struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Filters     filters.FilterInput `json:"filters"`
}

// Catalog is an ordered, id-indexed set of templates.
type Catalog struct {
	templates []Template
	index     map[string]int
}

// NewCatalog starts from the built-in presets; extra templates replace built-ins with the same id
// and are otherwise appended.
func NewCatalog(now func() time.Time, extra ...Template) *Catalog {
	c := &Catalog{index: map[string]int{}}
	for _, t := range BuiltIn(now) {
		c.put(t)
	}
	for _, t := range extra {
		c.put(t)
	}
	return c
}

// LoadCatalog builds a catalog from the built-ins plus the registry at registryPath, if any.
func LoadCatalog(registryPath string, now func() time.Time) (*Catalog, error) {
	if registryPath == "" {
		return NewCatalog(now), nil
	}

	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return nil, err
	}
	return NewCatalog(now, FromRegistry(reg)...), nil
}

// FromRegistry converts registry entries into templates.
func FromRegistry(reg *registry.TemplateRegistry) []Template {
	if reg == nil {
		return nil
	}
	out := make([]Template, 0, len(reg.Templates))
	for _, t := range reg.Templates {
		out = append(out, Template{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Icon:        t.Icon,
			Filters:     filters.Merge(nil, t.Filters),
		})
	}
	return out
}

func (c *Catalog) put(t Template) {
	if i, ok := c.index[t.ID]; ok {
		c.templates[i] = t
		return
	}
	c.index[t.ID] = len(c.templates)
	c.templates = append(c.templates, t)
}

// List returns the templates in catalog order.
func (c *Catalog) List() []Template {
	return append([]Template(nil), c.templates...)
}

func (c *Catalog) Get(id string) (Template, error) {
	i, ok := c.index[id]
	if !ok {
		return Template{}, apperrors.NewTemplateNotFoundError(id)
	}
	return c.templates[i], nil
}

// Apply merges the template's filters into form through the regular filter-update path.
func (c *Catalog) Apply(id string, form filters.FilterInput) (filters.FilterInput, error) {
	t, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	return filters.Merge(form, t.Filters), nil
}
