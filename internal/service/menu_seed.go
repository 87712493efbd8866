package service

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed menu_seed.yaml
var defaultMenu []byte

type seedItem struct {
	Name     string  `yaml:"name"`
	Price    float64 `yaml:"price"`
	Category string  `yaml:"category"`
}

// SeedMenu creates default catalog items whose names are not in the menu yet
// and returns number of created items
func (ms *MenuService) SeedMenu(ctx context.Context) (int, error) {
	var seed []seedItem
	if err := yaml.Unmarshal(defaultMenu, &seed); err != nil {
		return 0, fmt.Errorf("failed to parse default menu: %w", err)
	}

	existing, err := ms.repo.ListMenuItems(ctx, false)
	if err != nil {
		return 0, err
	}
	names := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		names[item.Name] = struct{}{}
	}

	created := 0
	for _, item := range seed {
		if _, ok := names[item.Name]; ok {
			continue
		}
		if _, err := ms.CreateItem(ctx, item.Name, item.Price, item.Category, ""); err != nil {
			return created, fmt.Errorf("failed to seed %q: %w", item.Name, err)
		}
		names[item.Name] = struct{}{}
		created++
	}

	return created, nil
}
