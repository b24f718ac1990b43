package dictionary

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSeedFile reads a list of entries from a JSON or YAML file.
// The format is chosen by extension; anything other than .json is parsed as YAML.
func LoadSeedFile(path string) ([]Entry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var entries []Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(content, &entries); err != nil {
			return nil, fmt.Errorf("json.Unmarshal(%s) > %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(content, &entries); err != nil {
			return nil, fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
		}
	}

	keywords := make(map[string]int, len(entries))
	abbreviations := make(map[string]int, len(entries))
	for i, entry := range entries {
		entry.Keyword = strings.TrimSpace(entry.Keyword)
		entry.Abbreviation = strings.TrimSpace(entry.Abbreviation)
		entry.Description = strings.TrimSpace(entry.Description)
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("%s: entry %d > %w", path, i+1, err)
		}
		if prev, ok := keywords[entry.Keyword]; ok {
			return nil, fmt.Errorf("%s: entry %d > %w: keyword %q already used by entry %d", path, i+1, ErrDuplicateKey, entry.Keyword, prev)
		}
		if prev, ok := abbreviations[entry.Abbreviation]; ok {
			return nil, fmt.Errorf("%s: entry %d > %w: abbreviation %q already used by entry %d", path, i+1, ErrDuplicateKey, entry.Abbreviation, prev)
		}
		keywords[entry.Keyword] = i + 1
		abbreviations[entry.Abbreviation] = i + 1
		entries[i] = entry
	}
	return entries, nil
}

// WriteYAML writes entries in the same YAML layout LoadSeedFile reads.
func WriteYAML(w io.Writer, entries []Entry) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(entries); err != nil {
		return fmt.Errorf("yaml.Encode() > %w", err)
	}
	return encoder.Close()
}
