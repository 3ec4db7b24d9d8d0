package pdfgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/Hoc27/cerropunta-app/shopify"
	"github.com/Hoc27/cerropunta-app/util"
)

// Assembler turns a product list into the final merged catalog PDF. Each
// page is generated as its own sub-document and released before the next
// one begins, so peak memory stays at one page regardless of catalog size.
type Assembler struct {
	ScratchDir     string
	OutputPath     string
	CoverImagePath string
	Fetcher        *ImageFetcher
}

func NewAssembler(scratchDir, outputPath, coverImagePath string) *Assembler {
	return &Assembler{
		ScratchDir:     scratchDir,
		OutputPath:     outputPath,
		CoverImagePath: coverImagePath,
		Fetcher:        NewImageFetcher(scratchDir),
	}
}

// Build composes the cover and every product page in order, merges them
// into one document and publishes it atomically at OutputPath. progress
// may be nil. Intermediate sub-documents are always cleaned up, also on
// failure; the previously published catalog survives any failed run.
func (a *Assembler) Build(ctx context.Context, products []shopify.Product, progress func(pct int, status string)) (string, error) {
	report := func(pct int, status string) {
		if progress != nil {
			progress(pct, status)
		}
	}

	totalPages := (len(products) + ProductsPerPage - 1) / ProductsPerPage
	util.InfoLogger.Infof("Generating catalog with %d pages for %d products", totalPages, len(products))
	report(20, "Starting PDF generation")

	var tempPaths []string
	defer func() {
		for _, p := range tempPaths {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				util.ErrorLogger.Warnf("Failed to remove temp file %s: %v", p, err)
			}
		}
	}()

	coverPath, err := a.composeCover()
	if err != nil {
		return "", fmt.Errorf("creating cover page: %w", err)
	}
	tempPaths = append(tempPaths, coverPath)

	for pageIndex := 0; pageIndex < totalPages; pageIndex++ {
		report(20+(pageIndex*70)/totalPages, fmt.Sprintf("Processing page %d/%d", pageIndex+1, totalPages))

		start := pageIndex * ProductsPerPage
		end := start + ProductsPerPage
		if end > len(products) {
			end = len(products)
		}

		pagePath, err := a.composePage(ctx, products[start:end], pageIndex, totalPages)
		if err != nil {
			return "", err
		}
		tempPaths = append(tempPaths, pagePath)
	}

	report(90, "Merging pages and finalizing PDF")
	if err := mergePages(tempPaths, a.OutputPath); err != nil {
		return "", fmt.Errorf("merging pages: %w", err)
	}

	util.InfoLogger.Infof("Catalog generated at %s", a.OutputPath)
	return a.OutputPath, nil
}

// composeCover produces the cover sub-document: the configured cover image
// stretched over the full page bleed, or a plain title when the image is
// missing or undecodable. The cover is never omitted.
func (a *Assembler) composeCover() (string, error) {
	pdf := newPageDoc()

	drawn := false
	if a.CoverImagePath != "" {
		if format, _, _, err := probeImage(a.CoverImagePath); err == nil {
			// The cover asset is pre-sized for the page, so stretch it.
			opts := gofpdf.ImageOptions{ImageType: format.ImageType()}
			pdf.ImageOptions(a.CoverImagePath, 0, 0, pageWidth, pageHeight, false, opts, 0, "")
			if pdf.Err() {
				util.ErrorLogger.Warnf("Failed to embed cover image %s: %v", a.CoverImagePath, pdf.Error())
				pdf.ClearError()
			} else {
				drawn = true
			}
		} else {
			util.ErrorLogger.Warnf("Cover image unavailable (%s): %v", a.CoverImagePath, err)
		}
	}

	if !drawn {
		pdf.SetFont("Helvetica", "B", 24)
		drawText(pdf, 150, pageHeight/2, "Product Catalog")
	}

	outPath := filepath.Join(a.ScratchDir, "_temp_cover.pdf")
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return "", err
	}
	return outPath, nil
}
