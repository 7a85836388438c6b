package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kiranalabs/storefront/pkg/logger"
	"github.com/kiranalabs/storefront/pkg/shopapi"
)

const productCacheTTL = 30 * time.Second

type productAPI interface {
	GetProduct(ctx context.Context, id string) (*shopapi.Product, error)
	SearchProducts(ctx context.Context, query string) ([]shopapi.Product, error)
	ListProducts(ctx context.Context, category string, limit int) ([]shopapi.Product, error)
}

type productCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	ProductCacheKey(productID string) string
}

// Service exposes validated product browsing over the shop API, with a
// short-lived cache in front of single-product fetches.
type Service interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListByCategory(ctx context.Context, category string, limit int) ([]Product, error)
	Search(ctx context.Context, query string) ([]Product, error)
}

type service struct {
	api      productAPI
	cache    productCache
	searcher *searcher
	logg     *logger.Logger
}

// ServiceParams collects the service dependencies.
type ServiceParams struct {
	API            productAPI
	Cache          productCache
	MinQueryLength int
	SearchDebounce time.Duration
	Logger         *logger.Logger
}

// NewService builds the catalog service. Cache is optional.
func NewService(params ServiceParams) (Service, error) {
	if params.API == nil {
		return nil, fmt.Errorf("shop api client required")
	}
	minLen := params.MinQueryLength
	if minLen <= 0 {
		minLen = 3
	}
	return &service{
		api:      params.API,
		cache:    params.Cache,
		searcher: newSearcher(params.API, minLen, params.SearchDebounce),
		logg:     params.Logger,
	}, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, s.cache.ProductCacheKey(id)); err == nil && cached != "" {
			var raw shopapi.Product
			if err := json.Unmarshal([]byte(cached), &raw); err == nil {
				return FromAPI(raw)
			}
		}
	}

	raw, err := s.api.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(raw); err == nil {
			if err := s.cache.Set(ctx, s.cache.ProductCacheKey(id), string(encoded), productCacheTTL); err != nil && s.logg != nil {
				s.logg.Warn(ctx, "product cache write failed")
			}
		}
	}

	return FromAPI(*raw)
}

func (s *service) ListByCategory(ctx context.Context, category string, limit int) ([]Product, error) {
	raws, err := s.api.ListProducts(ctx, category, limit)
	if err != nil {
		return nil, err
	}
	return s.validateAll(ctx, raws), nil
}

func (s *service) Search(ctx context.Context, query string) ([]Product, error) {
	raws, stale, err := s.searcher.run(ctx, query)
	if err != nil {
		return nil, err
	}
	if stale {
		// A newer query superseded this one; its result must not be shown.
		return nil, nil
	}
	return s.validateAll(ctx, raws), nil
}

// validateAll drops records that fail boundary validation instead of
// failing the whole listing; a malformed product should not blank a page.
func (s *service) validateAll(ctx context.Context, raws []shopapi.Product) []Product {
	products := make([]Product, 0, len(raws))
	for _, raw := range raws {
		product, err := FromAPI(raw)
		if err != nil {
			if s.logg != nil {
				s.logg.Warn(ctx, fmt.Sprintf("skipping invalid product %s: %v", raw.ID, err))
			}
			continue
		}
		products = append(products, *product)
	}
	return products
}
