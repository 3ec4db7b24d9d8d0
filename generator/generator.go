package generator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Hoc27/cerropunta-app/shopify"
	"github.com/Hoc27/cerropunta-app/util"
)

// ProductSource lists the products the catalog is built from.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]shopify.Product, error)
}

// CatalogBuilder renders a product list into the published catalog file.
type CatalogBuilder interface {
	Build(ctx context.Context, products []shopify.Product, progress func(pct int, status string)) (string, error)
}

// Coordinator owns the single-flight generation state machine: at most one
// run is in flight system-wide, concurrent triggers are rejected with the
// current snapshot, and a terminal state immediately re-accepts a trigger.
type Coordinator struct {
	mu     sync.Mutex
	status Status

	source  ProductSource
	builder CatalogBuilder
	store   *UpdateStore

	// SkipUnchanged short-circuits a run when the product count matches the
	// last successful one. Off by default; every trigger regenerates.
	SkipUnchanged bool
}

func New(source ProductSource, builder CatalogBuilder, store *UpdateStore) *Coordinator {
	return &Coordinator{
		source:  source,
		builder: builder,
		store:   store,
	}
}

// Status returns a defensive snapshot of the current generation state.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Trigger starts a generation run in the background. When a run is already
// in flight it is refused immediately, returning the in-flight snapshot
// and false; the running generation is unaffected.
func (c *Coordinator) Trigger() (Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status.IsGenerating {
		util.InfoLogger.Infof("Generation already in progress, ignoring trigger")
		return c.status, false
	}

	lastGenerated := c.status.LastGenerated
	c.status = Status{
		IsGenerating:  true,
		Progress:      0,
		Status:        statusStarting,
		LastGenerated: lastGenerated,
	}

	runID := uuid.New().String()
	go c.run(runID)

	return c.status, true
}

func (c *Coordinator) run(runID string) {
	ctx := context.Background()
	util.InfoLogger.Infof("[run %s] Starting catalog generation", runID)

	defer func() {
		if r := recover(); r != nil {
			util.ErrorLogger.Errorf("[run %s] Panic during generation: %v", runID, r)
			c.fail("internal error during generation")
		}
	}()

	c.setProgress(10, "Fetching products")
	products, err := c.source.ListProducts(ctx)
	if err != nil {
		util.ErrorLogger.Errorf("[run %s] Failed to list products: %v", runID, err)
		c.fail("Failed to fetch products: " + err.Error())
		return
	}

	c.mu.Lock()
	c.status.TotalProducts = len(products)
	c.mu.Unlock()

	if len(products) == 0 {
		util.InfoLogger.Infof("[run %s] No products found, keeping previous catalog", runID)
		c.fail("no products found")
		return
	}

	if c.SkipUnchanged {
		if last := c.store.Load(); last.ProductCount == len(products) {
			util.InfoLogger.Infof("[run %s] Product count unchanged (%d), skipping regeneration", runID, len(products))
			c.complete()
			return
		}
	}

	outputPath, err := c.builder.Build(ctx, products, c.setProgress)
	if err != nil {
		util.ErrorLogger.Errorf("[run %s] Catalog build failed: %v", runID, err)
		c.fail(err.Error())
		return
	}

	if err := c.store.Save(len(products)); err != nil {
		util.ErrorLogger.Warnf("[run %s] Failed to save update record: %v", runID, err)
	}

	util.InfoLogger.Infof("[run %s] Catalog generation completed: %s", runID, outputPath)
	c.complete()
}

// setProgress advances the run's progress. Progress is monotonic within a
// run; a late lower value is clamped to the current one.
func (c *Coordinator) setProgress(pct int, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pct > c.status.Progress {
		c.status.Progress = pct
	}
	c.status.Status = status
}

func (c *Coordinator) complete() {
	now := time.Now().UTC()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.IsGenerating = false
	c.status.Progress = 100
	c.status.Status = statusCompleted
	c.status.Error = ""
	c.status.LastGenerated = &now
}

func (c *Coordinator) fail(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.IsGenerating = false
	c.status.Status = statusError
	c.status.Error = message
}
