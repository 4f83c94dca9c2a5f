// Package catalog loads and validates the static scheme catalog the matcher
// filters against. The catalog is read once at startup and never mutated.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/example/scheme-discovery/internal/application"
)

//go:embed data/schemes.json
var defaultCatalog embed.FS

// Load reads the catalog from path, or the embedded default catalog when path
// is empty. An invalid catalog is a hard failure; the portal must not start
// with a broken dataset.
func Load(path string) ([]application.SchemeRecord, error) {
	var (
		raw []byte
		err error
		src string
	)
	if strings.TrimSpace(path) == "" {
		raw, err = defaultCatalog.ReadFile("data/schemes.json")
		src = "embedded catalog"
	} else {
		raw, err = os.ReadFile(path)
		src = path
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", src, err)
	}

	return Parse(raw)
}

// Parse decodes and validates a catalog document.
func Parse(raw []byte) ([]application.SchemeRecord, error) {
	var records []application.SchemeRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}

	if err := validate(records); err != nil {
		return nil, err
	}

	return records, nil
}

func validate(records []application.SchemeRecord) error {
	seen := make(map[string]struct{}, len(records))
	for i, record := range records {
		if strings.TrimSpace(record.ID) == "" {
			return fmt.Errorf("catalog: record %d has no id", i)
		}
		if _, dup := seen[record.ID]; dup {
			return fmt.Errorf("catalog: duplicate scheme id %q", record.ID)
		}
		seen[record.ID] = struct{}{}

		if strings.TrimSpace(record.Name) == "" {
			return fmt.Errorf("catalog: scheme %q has no name", record.ID)
		}
		if strings.TrimSpace(record.Link) == "" {
			return fmt.Errorf("catalog: scheme %q has no link", record.ID)
		}

		// Criteria fields are either absent or non-empty sets of non-blank
		// values; a present-but-empty set would silently reject everything.
		for dimension, values := range map[string][]string{
			"businessType": record.BusinessType,
			"sector":       record.Sector,
			"size":         record.Size,
			"location":     record.Location,
			"revenue":      record.Revenue,
			"years":        record.Years,
		} {
			if values == nil {
				continue
			}
			if len(values) == 0 {
				return fmt.Errorf("catalog: scheme %q has an empty %s set", record.ID, dimension)
			}
			for _, value := range values {
				if strings.TrimSpace(value) == "" {
					return fmt.Errorf("catalog: scheme %q has a blank %s value", record.ID, dimension)
				}
			}
		}
	}
	return nil
}
