// Package apininjas implements the food search provider against the
// API Ninjas nutrition endpoint.
package apininjas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/mealmeter/mealmeter/internal/foodsearch"
	"github.com/mealmeter/mealmeter/internal/provider/resilience"
)

const (
	// ProviderName identifies this nutrition-data provider.
	ProviderName = "apininjas"

	// DefaultBaseURL is the API Ninjas base URL.
	DefaultBaseURL = "https://api.api-ninjas.com/v1"
)

// ClientConfig holds configuration for the API Ninjas client.
type ClientConfig struct {
	// APIKey is the API Ninjas key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the public API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an API Ninjas nutrition client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new API Ninjas client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Search fetches nutrition data for a free-text food query.
func (c *Client) Search(ctx context.Context, query string) ([]foodsearch.FoodItem, error) {
	reqURL := fmt.Sprintf("%s/nutrition?query=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var items []nutritionItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	results := make([]foodsearch.FoodItem, 0, len(items))
	for _, item := range items {
		results = append(results, foodsearch.FoodItem{
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

	return results, nil
}

// nutritionItem is the API Ninjas response structure.
type nutritionItem struct {
	Name                string  `json:"name"`
	Calories            float64 `json:"calories"`
	ServingSizeG        float64 `json:"serving_size_g"`
	ProteinG            float64 `json:"protein_g"`
	FatTotalG           float64 `json:"fat_total_g"`
	FatSaturatedG       float64 `json:"fat_saturated_g"`
	CarbohydratesTotalG float64 `json:"carbohydrates_total_g"`
	FiberG              float64 `json:"fiber_g"`
	SugarG              float64 `json:"sugar_g"`
	SodiumMG            float64 `json:"sodium_mg"`
	PotassiumMG         float64 `json:"potassium_mg"`
	CholesterolMG       float64 `json:"cholesterol_mg"`
}
