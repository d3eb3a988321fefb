// Package seed loads the disease and weed reference catalog from YAML.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"farmhub/entities"
	"farmhub/pkg/validation"
)

type Catalog struct {
	Diseases []entities.Disease `yaml:"diseases"`
	Weeds    []entities.Weed    `yaml:"weeds"`
}

type DiseaseUpserter interface {
	Upsert(ctx context.Context, d entities.Disease) (*entities.Disease, bool, error)
}

type WeedUpserter interface {
	UpsertWeed(ctx context.Context, w entities.Weed) (*entities.Weed, bool, error)
}

type Result struct {
	DiseasesCreated int `json:"diseases_created"`
	DiseasesUpdated int `json:"diseases_updated"`
	WeedsCreated    int `json:"weeds_created"`
	WeedsUpdated    int `json:"weeds_updated"`
}

// Parse decodes a catalog, rejecting unknown keys and invalid entries.
func Parse(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	v := validation.New()
	for i := range c.Diseases {
		if err := v.Validate(&c.Diseases[i]); err != nil {
			return Catalog{}, fmt.Errorf("disease %d (%q): %w", i, c.Diseases[i].Name, err)
		}
	}
	for i := range c.Weeds {
		if err := v.Validate(&c.Weeds[i]); err != nil {
			return Catalog{}, fmt.Errorf("weed %d (%q): %w", i, c.Weeds[i].Name, err)
		}
	}
	return c, nil
}

func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, err
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Apply upserts every entry by name. Running it twice changes nothing.
func Apply(ctx context.Context, c Catalog, diseases DiseaseUpserter, weeds WeedUpserter, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var res Result
	for _, d := range c.Diseases {
		_, created, err := diseases.Upsert(ctx, d)
		if err != nil {
			return res, fmt.Errorf("disease %q: %w", d.Name, err)
		}
		if created {
			res.DiseasesCreated++
		} else {
			res.DiseasesUpdated++
		}
	}
	for _, w := range c.Weeds {
		_, created, err := weeds.UpsertWeed(ctx, w)
		if err != nil {
			return res, fmt.Errorf("weed %q: %w", w.Name, err)
		}
		if created {
			res.WeedsCreated++
		} else {
			res.WeedsUpdated++
		}
	}
	log.Info("catalog seeded",
		zap.Int("diseases_created", res.DiseasesCreated), zap.Int("diseases_updated", res.DiseasesUpdated),
		zap.Int("weeds_created", res.WeedsCreated), zap.Int("weeds_updated", res.WeedsUpdated))
	return res, nil
}
