package event

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	dErrors "rrss/pkg/domain-errors"
	"rrss/pkg/identifier"
)

// Catalog lists event names to declare at start-up.
//
//	events:
//	  - order.created
//	  - order.cancelled
type Catalog struct {
	Events []identifier.Identifier
}

type catalogFile struct {
	Events []string `yaml:"events"`
}

// LoadCatalog decodes a YAML catalog. Unknown keys, invalid names and
// repeated names are rejected. An empty document is an empty catalog.
func LoadCatalog(r io.Reader) (Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw catalogFile
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Catalog{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "decode event catalog")
	}

	c := Catalog{Events: make([]identifier.Identifier, 0, len(raw.Events))}
	seen := make(map[identifier.Identifier]struct{}, len(raw.Events))
	for i, name := range raw.Events {
		id, err := identifier.Parse(name)
		if err != nil {
			return Catalog{}, fmt.Errorf("event catalog entry %d: %w", i, err)
		}
		if _, dup := seen[id]; dup {
			return Catalog{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("event catalog lists %q twice", id))
		}
		seen[id] = struct{}{}
		c.Events = append(c.Events, id)
	}
	return c, nil
}

// LoadCatalogFile reads a catalog from path.
func LoadCatalogFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("open event catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}
