package pdfgen

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hoc27/cerropunta-app/shopify"
)

// countPDFPages counts page objects in a raw PDF. The page tree node also
// starts with "/Type /Page", so it is subtracted out.
func countPDFPages(data []byte) int {
	return bytes.Count(data, []byte("/Type /Page")) - bytes.Count(data, []byte("/Type /Pages"))
}

func makeProducts(n int, imageURL string) []shopify.Product {
	products := make([]shopify.Product, 0, n)
	for i := 0; i < n; i++ {
		var img *shopify.Image
		if imageURL != "" {
			img = &shopify.Image{Src: imageURL}
		}
		products = append(products, shopify.Product{
			ID:       int64(i + 1),
			Title:    fmt.Sprintf("Producto número %d", i+1),
			Variants: []shopify.Variant{{Price: "19.99"}},
			Image:    img,
		})
	}
	return products
}

func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()
	scratch := t.TempDir()
	out := filepath.Join(t.TempDir(), "catalog.pdf")
	return NewAssembler(scratch, out, "")
}

func TestBuildSeventeenProductsMakesFourPages(t *testing.T) {
	pngBytes := testImageBytes(t, "png", 60, 60)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes)
	}))
	defer srv.Close()

	a := newTestAssembler(t)
	var progressed []int
	outPath, err := a.Build(context.Background(), makeProducts(17, srv.URL+"/p.png"), func(pct int, status string) {
		progressed = append(progressed, pct)
	})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	// 17 products => 3 content pages (8+8+1) plus the cover.
	assert.Equal(t, 4, countPDFPages(data))

	for i := 1; i < len(progressed); i++ {
		assert.GreaterOrEqual(t, progressed[i], progressed[i-1], "progress must be monotonic")
	}

	entries, err := os.ReadDir(a.ScratchDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch dir must be drained after a run")
}

func TestBuildWithoutImagesUsesPlaceholders(t *testing.T) {
	a := newTestAssembler(t)
	outPath, err := a.Build(context.Background(), makeProducts(8, ""), nil)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, 2, countPDFPages(data))
}

func TestBuildSurvivesFailingImageOrigin(t *testing.T) {
	var served int
	pngBytes := testImageBytes(t, "png", 30, 30)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served++
		if served == 3 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write(pngBytes)
	}))
	defer srv.Close()

	a := newTestAssembler(t)
	outPath, err := a.Build(context.Background(), makeProducts(8, srv.URL+"/p.png"), nil)
	require.NoError(t, err, "a single broken image must not fail the run")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, 2, countPDFPages(data))
}

func TestBuildCoverFallsBackToTitle(t *testing.T) {
	a := newTestAssembler(t)
	a.CoverImagePath = filepath.Join(t.TempDir(), "nope.jpg")

	outPath, err := a.Build(context.Background(), makeProducts(1, ""), nil)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, 2, countPDFPages(data))
}

func TestBuildUsesCoverImageWhenPresent(t *testing.T) {
	coverPath := filepath.Join(t.TempDir(), "cover.jpg")
	require.NoError(t, os.WriteFile(coverPath, testImageBytes(t, "jpeg", 100, 140), 0o644))

	a := newTestAssembler(t)
	a.CoverImagePath = coverPath

	outPath, err := a.Build(context.Background(), makeProducts(2, ""), nil)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, 2, countPDFPages(data))
}

func TestComposePageFooterAndSlots(t *testing.T) {
	a := newTestAssembler(t)

	pagePath, err := a.composePage(context.Background(), makeProducts(1, ""), 1, 3)
	require.NoError(t, err)
	defer os.Remove(pagePath)

	data, err := os.ReadFile(pagePath)
	require.NoError(t, err)
	assert.Equal(t, 1, countPDFPages(data))
}
