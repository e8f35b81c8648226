// Package tags serves canned informational snippets loaded from a JSON
// content file, keyed by name for the tag command.
package tags

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/louisbranch/manageable/internal/platform/errors"
)

// Tag is one snippet with presentation hints for an embed.
type Tag struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	Color       int    `json:"color,omitempty"`
}

// Entry pairs a tag's lookup name with its display title.
type Entry struct {
	Name  string
	Title string
}

// Book holds a read-only set of named tags.
type Book struct {
	entries map[string]Tag
}

// Load reads a tag book from a JSON object mapping names to tags. Names are
// matched case-insensitively.
func Load(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}
	var raw map[string]Tag
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse tags: %w", err)
	}
	entries := make(map[string]Tag, len(raw))
	for name, tag := range raw {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil, fmt.Errorf("tag with empty name in %s", path)
		}
		if strings.TrimSpace(tag.Title) == "" {
			return nil, fmt.Errorf("tag %q has no title", name)
		}
		if strings.TrimSpace(tag.Description) == "" {
			return nil, fmt.Errorf("tag %q has no description", name)
		}
		entries[key] = tag
	}
	return &Book{entries: entries}, nil
}

// Lookup returns the tag registered under name.
func (b *Book) Lookup(name string) (Tag, error) {
	tag, ok := b.entries[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Tag{}, errors.WithMetadata(errors.CodeTagNotFound,
			fmt.Sprintf("no tag named %q", name),
			map[string]string{"tag": name})
	}
	return tag, nil
}

// List returns every tag sorted by name.
func (b *Book) List() []Entry {
	list := make([]Entry, 0, len(b.entries))
	for name, tag := range b.entries {
		list = append(list, Entry{Name: name, Title: tag.Title})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
