package services

import (
	"context"

	"roomservice/internal/domain"
	"roomservice/internal/repository"
)

// GeneralCourse groups items that carry no course label.
const GeneralCourse = "General"

// CatalogService is the read-only accessor over catalog items.
type CatalogService struct {
	items repository.ItemRepository
}

func NewCatalogService(items repository.ItemRepository) *CatalogService {
	return &CatalogService{items: items}
}

func (c *CatalogService) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, err := c.items.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

func (c *CatalogService) GetItem(ctx context.Context, id uint64) (*domain.Item, error) {
	it, err := c.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, itemNotFound(id)
	}
	return it, nil
}

// Course is one menu section.
type Course struct {
	Name  string
	Items []domain.Item
}

// GroupByCourse splits items into courses in order of first appearance.
func GroupByCourse(items []domain.Item) []Course {
	index := map[string]int{}
	var out []Course
	for _, it := range items {
		name := GeneralCourse
		if it.Course != nil && *it.Course != "" {
			name = *it.Course
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, Course{Name: name})
		}
		out[i].Items = append(out[i].Items, it)
	}
	return out
}
