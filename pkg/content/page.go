package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Region is one addressable block of page content. Editable regions can be
// replaced by a snapshot overlay; non-editable regions always render their
// base text.
type Region struct {
	ID       string `yaml:"id"`
	Editable bool   `yaml:"editable"`
	Text     string `yaml:"text"`
}

// Page is the base (canonical) content template: an ordered list of regions
// authored in Markdown, declared in a YAML page file.
type Page struct {
	Title   string   `yaml:"title"`
	Regions []Region `yaml:"regions"`
}

// LoadPage reads and parses a page file.
func LoadPage(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page file: %w", err)
	}

	page, err := ParsePage(data)
	if err != nil {
		return nil, fmt.Errorf("parse page file %s: %w", path, err)
	}
	return page, nil
}

// ParsePage decodes a page definition and validates the template invariants.
// Duplicate region ids are a page-authoring error and are rejected here, not
// papered over at merge time.
func ParsePage(data []byte) (*Page, error) {
	var page Page
	if err := yaml.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("decode page yaml: %w", err)
	}

	if len(page.Regions) == 0 {
		return nil, fmt.Errorf("page declares no regions")
	}

	seen := make(map[string]bool, len(page.Regions))
	for i, region := range page.Regions {
		if region.ID == "" {
			return nil, fmt.Errorf("region %d has no id", i)
		}
		if seen[region.ID] {
			return nil, fmt.Errorf("duplicate region id %q", region.ID)
		}
		seen[region.ID] = true
	}

	return &page, nil
}
