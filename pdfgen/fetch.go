package pdfgen

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/Hoc27/cerropunta-app/util"
)

// ImageFormat tags the decoded type of a fetched image once, at fetch time.
// Unsupported formats route straight to the placeholder.
type ImageFormat int

const (
	FormatUnsupported ImageFormat = iota
	FormatJPEG
	FormatPNG
)

// ImageType returns the gofpdf image type string for supported formats.
func (f ImageFormat) ImageType() string {
	switch f {
	case FormatJPEG:
		return "JPEG"
	case FormatPNG:
		return "PNG"
	}
	return ""
}

// FetchedImage is a downloaded, probed product image sitting in scratch
// storage. The caller owns the file and must remove it.
type FetchedImage struct {
	Path   string
	Format ImageFormat
	Width  int
	Height int
}

// ImageFetcher downloads product images into a scratch directory. Every
// failure is a logged diagnostic, never an error to the caller.
type ImageFetcher struct {
	Dir    string
	client *http.Client
}

func NewImageFetcher(dir string) *ImageFetcher {
	return &ImageFetcher{
		Dir: dir,
		// A stalled image origin must not hang the whole run.
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

// Fetch streams the image at imageURL to a scratch file named after the
// product and reports its decoded format and pixel dimensions. Returns nil
// when there is no URL or the download fails. An undecodable payload comes
// back as FormatUnsupported with the file already removed.
func (f *ImageFetcher) Fetch(ctx context.Context, imageURL string, productID int64) *FetchedImage {
	if imageURL == "" {
		return nil
	}

	u, err := url.Parse(imageURL)
	if err != nil {
		util.ErrorLogger.Warnf("Invalid image URL %q for product %d: %v", imageURL, productID, err)
		return nil
	}

	ext := path.Ext(u.Path)
	if ext == "" {
		ext = ".jpg"
	}
	localPath := filepath.Join(f.Dir, fmt.Sprintf("product_%d%s", productID, ext))

	if err := f.download(ctx, imageURL, localPath); err != nil {
		util.ErrorLogger.Warnf("Failed to download image %s: %v", imageURL, err)
		return nil
	}

	format, width, height, err := probeImage(localPath)
	if err != nil {
		util.ErrorLogger.Warnf("Unsupported image for product %d (%s): %v", productID, imageURL, err)
		os.Remove(localPath)
		return &FetchedImage{Format: FormatUnsupported}
	}

	return &FetchedImage{Path: localPath, Format: format, Width: width, Height: height}
}

func (f *ImageFetcher) download(ctx context.Context, imageURL, localPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	out, err := os.Create(localPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(localPath)
		return err
	}
	return out.Close()
}

func probeImage(localPath string) (ImageFormat, int, int, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return FormatUnsupported, 0, 0, err
	}
	defer file.Close()

	cfg, name, err := image.DecodeConfig(file)
	if err != nil {
		return FormatUnsupported, 0, 0, err
	}

	switch name {
	case "jpeg":
		return FormatJPEG, cfg.Width, cfg.Height, nil
	case "png":
		return FormatPNG, cfg.Width, cfg.Height, nil
	}
	return FormatUnsupported, 0, 0, fmt.Errorf("undecodable format %q", name)
}
