package feeds

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Package feeds loads the category feed registry and fetches RSS entries.

// Category is one navigable feed of the publication (front page,
// international, politics, ...).
type Category struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	FeedURL string `json:"feed_url" yaml:"feed_url"`
}

type registryFile struct {
	Categories []Category `json:"categories" yaml:"categories"`
}

// Registry is the loaded, validated category set.
type Registry struct {
	categories []Category
	index      map[string]Category
}

// LoadRegistry loads the category registry from a YAML or JSON file.
func LoadRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("feeds file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feeds file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	parsed, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Categories) == 0 {
		return nil, errors.New("feeds file contains no categories")
	}

	index := make(map[string]Category, len(parsed.Categories))
	categories := make([]Category, 0, len(parsed.Categories))
	for i, cat := range parsed.Categories {
		cat = sanitizeCategory(cat)
		if err := validateCategory(cat); err != nil {
			return nil, fmt.Errorf("category[%d]: %w", i, err)
		}
		if _, exists := index[cat.ID]; exists {
			return nil, fmt.Errorf("duplicate category id %q", cat.ID)
		}
		index[cat.ID] = cat
		categories = append(categories, cat)
	}

	return &Registry{categories: categories, index: index}, nil
}

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var parsed registryFile
		if err := d.fn(data, &parsed); err == nil {
			return parsed, nil
		}
	}

	return registryFile{}, errors.New("feeds file format not recognized (expected YAML or JSON)")
}

func sanitizeCategory(c Category) Category {
	c.ID = strings.TrimSpace(c.ID)
	c.Name = strings.TrimSpace(c.Name)
	c.FeedURL = strings.TrimSpace(c.FeedURL)
	return c
}

func validateCategory(c Category) error {
	if c.ID == "" {
		return errors.New("id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("name is required for category %q", c.ID)
	}
	if c.FeedURL == "" {
		return fmt.Errorf("feed_url is required for category %q", c.ID)
	}
	return nil
}

// All returns a copy of the loaded categories in file order.
func (r *Registry) All() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// ByID returns the category with the given id, if loaded.
func (r *Registry) ByID(id string) (Category, bool) {
	c, ok := r.index[strings.TrimSpace(id)]
	return c, ok
}
