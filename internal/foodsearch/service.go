package foodsearch

import (
	"context"
	"errors"
	"strings"

	"github.com/mealmeter/mealmeter/internal/api/models"
	"github.com/mealmeter/mealmeter/internal/provider/resilience"
)

// Service provides food search operations and records provider health.
type Service struct {
	provider Provider
	registry *resilience.Registry
}

// NewService creates a new food search service.
func NewService(provider Provider, registry *resilience.Registry) *Service {
	return &Service{provider: provider, registry: registry}
}

// Search looks up nutrition data for a query.
func (s *Service) Search(ctx context.Context, query string) (*models.FoodSearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	items, err := s.provider.Search(ctx, query)
	if err != nil {
		s.registry.RecordFailure(s.provider.Name(), err)
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return nil, ErrProviderUnavailable
		}
		return nil, err
	}
	s.registry.RecordSuccess(s.provider.Name())

	results := make([]models.FoodSearchItem, 0, len(items))
	for _, item := range items {
		results = append(results, models.FoodSearchItem{
			Name:                item.Name,
			Calories:            item.Calories,
			ServingSizeG:        item.ServingSizeG,
			ProteinG:            item.ProteinG,
			FatTotalG:           item.FatTotalG,
			FatSaturatedG:       item.FatSaturatedG,
			CarbohydratesTotalG: item.CarbohydratesTotalG,
			FiberG:              item.FiberG,
			SugarG:              item.SugarG,
			SodiumMG:            item.SodiumMG,
			PotassiumMG:         item.PotassiumMG,
			CholesterolMG:       item.CholesterolMG,
		})
	}

	return &models.FoodSearchResponse{
		Query: query,
		Items: results,
		Count: len(results),
	}, nil
}
