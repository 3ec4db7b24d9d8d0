package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/Hoc27/cerropunta-app/generator"
	"github.com/Hoc27/cerropunta-app/handlers"
	"github.com/Hoc27/cerropunta-app/pdfgen"
	"github.com/Hoc27/cerropunta-app/shopify"
	"github.com/Hoc27/cerropunta-app/util"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		util.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}

	for _, dir := range []string{cfg.PublicDir, cfg.ScratchDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			util.ErrorLogger.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	catalogPath := filepath.Join(cfg.PublicDir, "catalog.pdf")

	client := shopify.NewClient(cfg.ShopName, cfg.AccessToken)
	assembler := pdfgen.NewAssembler(cfg.ScratchDir, catalogPath, cfg.CoverImagePath)
	store := &generator.UpdateStore{Path: filepath.Join(cfg.PublicDir, "lastUpdate.json")}

	coordinator := generator.New(client, assembler, store)
	coordinator.SkipUnchanged = cfg.SkipUnchanged

	go coordinator.RunEvery(context.Background(), cfg.RegenInterval)

	h := handlers.New(coordinator, client, catalogPath)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(util.LoggingMiddleware)
	r.Use(util.RecoveryMiddleware)
	r.Use(util.CORSMiddleware(cfg.AllowedOrigins))

	r.With(httprate.LimitByIP(10, time.Minute)).Post("/generate", h.HandleGenerate)
	r.Get("/status", h.HandleStatus)
	r.Get("/catalog", h.HandleCatalog)
	r.Get("/collection-products/{collectionID}", h.HandleCollectionProducts)
	r.Get("/health", h.HandleHealth)

	addr := ":" + cfg.Port
	util.InfoLogger.Infof("Server starting on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		util.ErrorLogger.Fatalf("Server stopped: %v", err)
	}
}
