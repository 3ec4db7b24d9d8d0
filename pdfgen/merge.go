package pdfgen

import (
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
)

// mergePages copies the single page of every sub-document, in slice order,
// into one output document. Merge order is final page order. The result is
// written next to outputPath and renamed into place so a concurrent reader
// never observes a half-written catalog.
func mergePages(pagePaths []string, outputPath string) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)

	importer := gofpdi.NewImporter()
	for _, pagePath := range pagePaths {
		if _, err := os.Stat(pagePath); err != nil {
			return fmt.Errorf("missing page artifact %s: %w", pagePath, err)
		}

		tpl := importer.ImportPage(pdf, pagePath, 1, "/MediaBox")
		pdf.AddPage()
		importer.UseImportedTemplate(pdf, tpl, 0, 0, pageWidth, pageHeight)
		if pdf.Err() {
			return fmt.Errorf("importing %s: %w", pagePath, pdf.Error())
		}
	}

	tmpPath := outputPath + ".tmp"
	if err := pdf.OutputFileAndClose(tmpPath); err != nil {
		return fmt.Errorf("writing merged catalog: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publishing catalog: %w", err)
	}
	return nil
}
