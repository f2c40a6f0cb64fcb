package recipe

import (
	"foodgram-backend/domain"
)

type shoppingKey struct {
	name string
	unit string
}

// Aggregate sums amounts of lines sharing the same ingredient name and
// measurement unit. Items keep the order in which their key was first seen.
func Aggregate(lines []domain.ShoppingListLine) []domain.ShoppingListItem {
	items := make([]domain.ShoppingListItem, 0, len(lines))
	index := make(map[shoppingKey]int, len(lines))

	for _, line := range lines {
		key := shoppingKey{name: line.Name, unit: line.MeasurementUnit}
		if i, ok := index[key]; ok {
			items[i].Amount += line.Amount
			continue
		}
		index[key] = len(items)
		items = append(items, domain.ShoppingListItem{
			Name:            line.Name,
			MeasurementUnit: line.MeasurementUnit,
			Amount:          line.Amount,
		})
	}
	return items
}
