// Package foodsearch looks up nutrition data for foods via an external
// provider.
package foodsearch

import (
	"context"
	"errors"
)

// Package errors.
var (
	ErrEmptyQuery          = errors.New("search query is empty")
	ErrProviderUnavailable = errors.New("food data provider unavailable")
)

// FoodItem is the domain representation of one nutrition-data match.
type FoodItem struct {
	Name                string
	Calories            float64
	ServingSizeG        float64
	ProteinG            float64
	FatTotalG           float64
	FatSaturatedG       float64
	CarbohydratesTotalG float64
	FiberG              float64
	SugarG              float64
	SodiumMG            float64
	PotassiumMG         float64
	CholesterolMG       float64
}

// Provider fetches nutrition data for a free-text food query.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Search returns nutrition data matching the query.
	Search(ctx context.Context, query string) ([]FoodItem, error)
}
