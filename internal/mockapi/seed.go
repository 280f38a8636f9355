package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Adda-Baaj/tour-of-heroes/internal/domain"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Heroes []domain.Hero `json:"heroes" yaml:"heroes"`
}

// DefaultHeroes is the roster served when no seed file is configured.
func DefaultHeroes() []domain.Hero {
	return []domain.Hero{
		{ID: 11, Name: "Dr Nice"},
		{ID: 12, Name: "Narco"},
		{ID: 13, Name: "Bombasto"},
		{ID: 14, Name: "Celeritas"},
		{ID: 15, Name: "Magneta"},
		{ID: 16, Name: "RubberMan"},
		{ID: 17, Name: "Dynama"},
		{ID: 18, Name: "Dr IQ"},
		{ID: 19, Name: "Magma"},
		{ID: 20, Name: "Tornado"},
	}
}

// LoadSeed reads heroes from a YAML or JSON file.
func LoadSeed(path string) ([]domain.Hero, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("seed file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	seed, err := parseSeed(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(seed.Heroes) == 0 {
		return nil, errors.New("seed file contains no heroes entries")
	}

	seen := make(map[int]struct{}, len(seed.Heroes))
	out := make([]domain.Hero, 0, len(seed.Heroes))
	for i, h := range seed.Heroes {
		h.Name = strings.TrimSpace(h.Name)
		if err := validateSeedHero(h); err != nil {
			return nil, fmt.Errorf("heroes[%d]: %w", i, err)
		}
		if _, dup := seen[h.ID]; dup {
			return nil, fmt.Errorf("duplicate hero id %d", h.ID)
		}
		seen[h.ID] = struct{}{}
		out = append(out, h)
	}
	return out, nil
}

func parseSeed(data []byte, ext string) (seedFile, error) {
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
		var seed seedFile
		if err := d.fn(data, &seed); err == nil {
			return seed, nil
		}
	}
	return seedFile{}, errors.New("seed file format not recognized (expected YAML or JSON)")
}

func validateSeedHero(h domain.Hero) error {
	if h.ID <= 0 {
		return fmt.Errorf("id must be positive, got %d", h.ID)
	}
	if h.Name == "" {
		return fmt.Errorf("name is required for hero %d", h.ID)
	}
	return nil
}

// Seed stores heroes when repo is empty and reports how many were written.
func Seed(ctx context.Context, repo Repository, heroes []domain.Hero) (int, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for _, h := range heroes {
		if _, err := repo.Put(ctx, h); err != nil {
			return 0, fmt.Errorf("seed hero %d: %w", h.ID, err)
		}
	}
	return len(heroes), nil
}
