package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/S0me0neR0man/multiindex/internal/multiindex"
)

type People struct {
	ID     int     `yaml:"id"`
	Name   string  `yaml:"name"`
	Email  string  `yaml:"email"`
	Age    int     `yaml:"age"`
	Height float64 `yaml:"height"`
}

func (p People) String() string {
	return fmt.Sprintf("%d - %s - %s - %d - %.2f", p.ID, p.Name, p.Email, p.Age, p.Height)
}

var (
	fieldID     = multiindex.NewField("id", func(p *People) int { return p.ID })
	fieldName   = multiindex.NewField("name", func(p *People) string { return p.Name })
	fieldEmail  = multiindex.NewField("email", func(p *People) string { return p.Email })
	fieldAge    = multiindex.NewField("age", func(p *People) int { return p.Age })
	fieldHeight = multiindex.NewField("height", func(p *People) float64 { return p.Height })
)

func defaultPeople() []People {
	return []People{
		{0, "Rafael", "rafa1@email.com", 35, 1.70},
		{1, "Fernanda", "fer1@email.com", 28, 1.62},
		{2, "Rafael", "rafa2@email.com", 35, 1.64},
		{3, "Paula", "paul1@email.com", 26, 1.58},
		{4, "Paula", "paul2@email.com", 26, 1.80},
		{5, "Rafael", "rafa3@email.com", 35, 1.70},
		{6, "Fernanda", "fer2@email.com", 20, 1.50},
	}
}

// loadPeople reads the seed file, empty path - built-in set
func loadPeople(path string) ([]People, error) {
	if path == "" {
		return defaultPeople(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}
	var people []People
	if err := yaml.Unmarshal(data, &people); err != nil {
		return nil, fmt.Errorf("load seed %s: %w", path, err)
	}
	return people, nil
}

// buildIndices registers the indices of the sample program
func buildIndices(mi *multiindex.Container[People]) error {
	if _, err := multiindex.AddIndex(mi, multiindex.OrderedUnique, fieldID); err != nil {
		return err
	}
	if _, err := multiindex.AddIndex(mi, multiindex.HashedNonUnique, fieldName); err != nil {
		return err
	}
	if _, err := multiindex.AddIndex(mi, multiindex.HashedUnique, fieldEmail); err != nil {
		return err
	}
	// a composition cannot be hashed
	_, err := multiindex.AddCompositeIndex3(mi, multiindex.OrderedNonUnique, fieldName, fieldAge, fieldHeight)
	return err
}
