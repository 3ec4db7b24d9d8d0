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

// Page geometry, A4 in points.
const (
	ProductsPerPage = 8

	pageWidth  = 595.28
	pageHeight = 841.89
	margin     = 50.0
	imageSize  = 100.0
	colWidth   = (pageWidth - margin*2) / 2
	rowHeight  = 180.0
	lineHeight = 12.0
)

func newPageDoc() *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return pdf
}

// composePage lays out up to eight products on one standalone single-page
// document in scratch storage and returns its path. Missing or undecodable
// images become placeholders; a cosmetic draw fault never fails the page.
func (a *Assembler) composePage(ctx context.Context, products []shopify.Product, pageIndex, totalPages int) (string, error) {
	pdf := newPageDoc()

	pdf.SetFont("Helvetica", "", 8)
	drawText(pdf, pageWidth/2-40, pageHeight-30, fmt.Sprintf("Page %d of %d", pageIndex+1, totalPages))

	for i, product := range products {
		col := i % 2
		row := i / 2
		x := margin + float64(col)*colWidth
		cellTop := margin + 80 + float64(row)*rowHeight

		a.drawProductImage(ctx, pdf, product, x, cellTop)

		pdf.SetFont("Helvetica", "B", 9)
		measure := func(s string) (float64, error) {
			return pdf.GetStringWidth(s), nil
		}
		title := Normalize(product.Title)
		titleLines := Wrap(title, colWidth-imageSize-15, measure)
		for li, line := range titleLines {
			drawText(pdf, x+imageSize+10, cellTop+15+float64(li)*lineHeight, line)
		}

		// The price hangs directly below however many title lines there are.
		titleHeight := float64(len(titleLines)) * lineHeight
		pdf.SetFont("Helvetica", "", 8)
		price := fmt.Sprintf("Price: $%s", Normalize(product.FirstPrice()))
		drawText(pdf, x+imageSize+10, cellTop+15+titleHeight+10, price)
	}

	outPath := filepath.Join(a.ScratchDir, fmt.Sprintf("_temp_page_%d.pdf", pageIndex))
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return "", fmt.Errorf("saving page %d: %w", pageIndex+1, err)
	}
	return outPath, nil
}

// drawProductImage fetches, embeds and immediately discards the product
// image, or draws the placeholder block when there is nothing to embed.
func (a *Assembler) drawProductImage(ctx context.Context, pdf *gofpdf.Fpdf, product shopify.Product, x, cellTop float64) {
	img := a.Fetcher.Fetch(ctx, product.ImageURL(), product.ID)
	if img == nil || img.Format == FormatUnsupported || img.Width <= 0 || img.Height <= 0 {
		drawPlaceholder(pdf, x, cellTop)
		return
	}
	defer os.Remove(img.Path)

	// Fit within the 100x100 box preserving aspect ratio, centered.
	scale := imageSize / float64(img.Width)
	if s := imageSize / float64(img.Height); s < scale {
		scale = s
	}
	drawW := float64(img.Width) * scale
	drawH := float64(img.Height) * scale

	opts := gofpdf.ImageOptions{ImageType: img.Format.ImageType()}
	pdf.ImageOptions(img.Path, x+(imageSize-drawW)/2, cellTop+(imageSize-drawH)/2, drawW, drawH, false, opts, 0, "")

	if pdf.Err() {
		util.ErrorLogger.Warnf("Failed to embed image for product %d: %v", product.ID, pdf.Error())
		pdf.ClearError()
		drawPlaceholder(pdf, x, cellTop)
	}
}

func drawPlaceholder(pdf *gofpdf.Fpdf, x, cellTop float64) {
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(1)
	pdf.Rect(x, cellTop, imageSize, imageSize, "D")

	pdf.SetFont("Helvetica", "", 8)
	label := "No image"
	labelX := x + (imageSize-pdf.GetStringWidth(label))/2
	drawText(pdf, labelX, cellTop+imageSize/2, label)
}

// drawText writes one baseline-positioned string, downgrading any draw
// fault to a warning so a pathological string cannot abort the page.
func drawText(pdf *gofpdf.Fpdf, x, y float64, text string) {
	pdf.Text(x, y, text)
	if pdf.Err() {
		util.ErrorLogger.Warnf("Failed to draw text %q: %v", text, pdf.Error())
		pdf.ClearError()
	}
}
