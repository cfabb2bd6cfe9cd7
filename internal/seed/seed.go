// Package seed loads the starter catalog and optional demo orders.
package seed

import (
	"context"
	"fmt"

	"roomservice/internal/domain"
	"roomservice/internal/repository"
	"roomservice/internal/services"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func item(name, description, price, course, image string) domain.Item {
	return domain.Item{
		Name:        name,
		Description: &description,
		Price:       decimal.RequireFromString(price),
		Course:      &course,
		ImagePath:   &image,
	}
}

// DefaultCatalog is the starter menu.
func DefaultCatalog() []domain.Item {
	return []domain.Item{
		item("Caesar Salad", "Romaine lettuce with Caesar dressing, croutons, and parmesan.", "7.99", "appetizer", "/images/items/caesar-salad.jpg"),
		item("Tomato Soup", "Creamy tomato soup garnished with basil.", "5.50", "appetizer", "/images/items/tomato-soup.jpg"),
		item("Grilled Salmon", "Salmon with seasonal vegetables and lemon butter sauce.", "18.99", "main", "/images/items/grilled-salmon.jpg"),
		item("Spaghetti Bolognese", "Classic spaghetti with rich Bolognese sauce.", "12.99", "main", "/images/items/spaghetti-bolognese.jpg"),
		item("Chicken Parmesan", "Breaded chicken with marinara and mozzarella.", "15.99", "main", "/images/items/chicken-parmesan.jpg"),
		item("Chocolate Cake", "Rich chocolate cake with dark chocolate ganache.", "6.50", "dessert", "/images/items/chocolate-cake.jpg"),
		item("Cheesecake", "Creamy cheesecake with berry compote.", "6.75", "dessert", "/images/items/cheesecake.jpg"),
		item("Ice Cream Sundae", "Vanilla ice cream with chocolate sauce, nuts, and a cherry.", "4.99", "dessert", "/images/items/ice-cream-sundae.jpg"),
		item("Soft Drink", "Choice of cola, lemon-lime, or ginger ale.", "2.50", "beverage", "/images/items/soft-drink.jpg"),
		item("Coffee", "Freshly brewed coffee.", "3.00", "beverage", "/images/items/coffee.jpg"),
	}
}

type demoLine struct {
	name     string
	quantity int
}

type demoOrder struct {
	room   string
	status domain.OrderStatus
	lines  []demoLine
}

var demoOrders = []demoOrder{
	{"101", domain.StatusPending, []demoLine{{"Caesar Salad", 2}, {"Grilled Salmon", 1}}},
	{"102", domain.StatusCompleted, []demoLine{{"Tomato Soup", 1}, {"Chicken Parmesan", 1}, {"Soft Drink", 1}}},
	{"103", domain.StatusPending, []demoLine{{"Chocolate Cake", 2}, {"Ice Cream Sundae", 1}, {"Coffee", 1}}},
	{"104", domain.StatusCompleted, []demoLine{{"Spaghetti Bolognese", 1}, {"Chicken Parmesan", 2}, {"Soft Drink", 2}}},
}

// Catalog stores DefaultCatalog when the catalog is empty and reports
// whether anything was written.
func Catalog(ctx context.Context, items repository.ItemRepository, log *zap.Logger) (bool, error) {
	n, err := items.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: count items: %w", err)
	}
	if n > 0 {
		log.Debug("catalog already present, skipping seed", zap.Int64("items", n))
		return false, nil
	}
	catalog := DefaultCatalog()
	if err := items.SaveBatch(ctx, catalog); err != nil {
		return false, fmt.Errorf("seed: save items: %w", err)
	}
	log.Info("catalog seeded", zap.Int("items", len(catalog)))
	return true, nil
}

// DemoOrders places the demo orders through the service so totals are
// derived from the catalog, then moves them to their demo status. It does
// nothing when orders already exist.
func DemoOrders(ctx context.Context, svc *services.OrderService, items repository.ItemRepository, log *zap.Logger) error {
	existing, err := svc.ListOrders(ctx)
	if err != nil {
		return fmt.Errorf("seed: list orders: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	all, err := items.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: list items: %w", err)
	}
	byName := make(map[string]uint64, len(all))
	for _, it := range all {
		byName[it.Name] = it.ID
	}

	for _, d := range demoOrders {
		reqs := make([]domain.LineRequest, 0, len(d.lines))
		for _, l := range d.lines {
			id, ok := byName[l.name]
			if !ok {
				return fmt.Errorf("seed: catalog has no %q", l.name)
			}
			reqs = append(reqs, domain.LineRequest{ItemID: id, Quantity: l.quantity})
		}
		order, err := svc.CreateOrder(ctx, d.room, reqs)
		if err != nil {
			return fmt.Errorf("seed: order for room %s: %w", d.room, err)
		}
		if d.status != domain.StatusPending {
			if _, err := svc.UpdateOrderStatus(ctx, order.ID, d.status); err != nil {
				return fmt.Errorf("seed: status for room %s: %w", d.room, err)
			}
		}
	}
	log.Info("demo orders seeded", zap.Int("orders", len(demoOrders)))
	return nil
}
