package recipe

import (
	"testing"

	"foodgram-backend/domain"

	"github.com/stretchr/testify/assert"
)

func TestAggregateSumsSameIngredient(t *testing.T) {
	lines := []domain.ShoppingListLine{
		{Name: "sugar", MeasurementUnit: "g", Amount: 5},
		{Name: "milk", MeasurementUnit: "ml", Amount: 200},
		{Name: "sugar", MeasurementUnit: "g", Amount: 10},
	}

	items := Aggregate(lines)

	assert.Equal(t, []domain.ShoppingListItem{
		{Name: "sugar", MeasurementUnit: "g", Amount: 15},
		{Name: "milk", MeasurementUnit: "ml", Amount: 200},
	}, items)
}

func TestAggregateKeepsDifferentUnitsApart(t *testing.T) {
	lines := []domain.ShoppingListLine{
		{Name: "salt", MeasurementUnit: "g", Amount: 5},
		{Name: "salt", MeasurementUnit: "pinch", Amount: 1},
		{Name: "salt", MeasurementUnit: "g", Amount: 2},
	}

	assert.Equal(t, []domain.ShoppingListItem{
		{Name: "salt", MeasurementUnit: "g", Amount: 7},
		{Name: "salt", MeasurementUnit: "pinch", Amount: 1},
	}, Aggregate(lines))
}

func TestAggregateEmpty(t *testing.T) {
	items := Aggregate(nil)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestAggregateTotalsAreConserved(t *testing.T) {
	lines := []domain.ShoppingListLine{
		{Name: "a", MeasurementUnit: "g", Amount: 1},
		{Name: "b", MeasurementUnit: "g", Amount: 2},
		{Name: "a", MeasurementUnit: "g", Amount: 3},
		{Name: "c", MeasurementUnit: "kg", Amount: 4},
		{Name: "b", MeasurementUnit: "g", Amount: 5},
	}

	in, out := 0, 0
	for _, l := range lines {
		in += l.Amount
	}
	for _, item := range Aggregate(lines) {
		out += item.Amount
	}
	assert.Equal(t, in, out)
}
