package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	cache "github.com/patrickmn/go-cache"

	"github.com/Hoc27/cerropunta-app/generator"
	"github.com/Hoc27/cerropunta-app/shopify"
	"github.com/Hoc27/cerropunta-app/util"
)

// CollectionSource lists the products of one collection.
type CollectionSource interface {
	ListCollectionProducts(ctx context.Context, collectionID string) ([]shopify.Product, error)
}

// Handlers bundles the HTTP surface: trigger, status poll, catalog
// download and the collection listing API.
type Handlers struct {
	Coordinator *generator.Coordinator
	Source      CollectionSource
	CatalogPath string

	listingCache *cache.Cache
}

func New(coordinator *generator.Coordinator, source CollectionSource, catalogPath string) *Handlers {
	return &Handlers{
		Coordinator:  coordinator,
		Source:       source,
		CatalogPath:  catalogPath,
		listingCache: cache.New(listingCacheTTL, 2*listingCacheTTL),
	}
}

func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Coordinator.Status())
}

// HandleCatalog serves the most recently published catalog. A run in
// flight or a previously failed one never hides the last good artifact.
func (h *Handlers) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(h.CatalogPath); os.IsNotExist(err) {
		http.Error(w, "The catalog is not available yet. Please try again later.", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=catalog.pdf")
	http.ServeFile(w, r, h.CatalogPath)
	util.InfoLogger.Infof("Catalog served: %s", h.CatalogPath)
}

// HandleCollectionProducts returns one collection's products as JSON with
// pagination and sorting, out-of-stock products last.
func (h *Handlers) HandleCollectionProducts(w http.ResponseWriter, r *http.Request) {
	collectionID := chi.URLParam(r, "collectionID")

	products, err := h.collectionProducts(r.Context(), collectionID)
	if err != nil {
		util.ErrorLogger.Errorf("Failed to list collection %s: %v", collectionID, err)
		http.Error(w, "Failed to fetch collection products", http.StatusInternalServerError)
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)
	sortField := r.URL.Query().Get("sort_field")
	if sortField == "" {
		sortField = "title"
	}
	sortOrder := r.URL.Query().Get("sort_order")
	if sortOrder == "" {
		sortOrder = "asc"
	}

	sorted := make([]shopify.Product, len(products))
	copy(sorted, products)
	sortProducts(sorted, sortField, sortOrder)

	total := len(sorted)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"products": sorted[start:end],
		"pagination": map[string]int{
			"total":      total,
			"page":       page,
			"limit":      limit,
			"totalPages": (total + limit - 1) / limit,
		},
	})
}

func (h *Handlers) collectionProducts(ctx context.Context, collectionID string) ([]shopify.Product, error) {
	if cached, ok := h.listingCache.Get(collectionID); ok {
		return cached.([]shopify.Product), nil
	}

	products, err := h.Source.ListCollectionProducts(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	h.listingCache.Set(collectionID, products, cache.DefaultExpiration)
	return products, nil
}

// sortProducts orders by availability first (in stock before sold out),
// then by the requested field and direction.
func sortProducts(products []shopify.Product, field, order string) {
	asc := order != "desc"
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if a.IsOutOfStock() != b.IsOutOfStock() {
			return !a.IsOutOfStock()
		}

		var less bool
		switch field {
		case "created_at":
			less = a.CreatedAt.Before(b.CreatedAt)
		case "updated_at":
			less = a.UpdatedAt.Before(b.UpdatedAt)
		default:
			less = a.Title < b.Title
		}
		if asc {
			return less
		}
		return !less && !equalField(a, b, field)
	})
}

func equalField(a, b shopify.Product, field string) bool {
	switch field {
	case "created_at":
		return a.CreatedAt.Equal(b.CreatedAt)
	case "updated_at":
		return a.UpdatedAt.Equal(b.UpdatedAt)
	default:
		return a.Title == b.Title
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		util.ErrorLogger.Errorf("Failed to encode response: %v", err)
	}
}
