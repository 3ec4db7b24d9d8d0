package pdfgen

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImageBytes(t *testing.T, format string, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		require.NoError(t, png.Encode(&buf, img))
	case "jpeg":
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	default:
		t.Fatalf("unknown format %s", format)
	}
	return buf.Bytes()
}

func TestFetchDownloadsAndTagsFormat(t *testing.T) {
	pngBytes := testImageBytes(t, "png", 40, 20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes)
	}))
	defer srv.Close()

	fetcher := NewImageFetcher(t.TempDir())
	img := fetcher.Fetch(context.Background(), srv.URL+"/images/product.png", 42)

	require.NotNil(t, img)
	assert.Equal(t, FormatPNG, img.Format)
	assert.Equal(t, 40, img.Width)
	assert.Equal(t, 20, img.Height)
	assert.Equal(t, filepath.Join(fetcher.Dir, "product_42.png"), img.Path)

	_, err := os.Stat(img.Path)
	assert.NoError(t, err)
}

func TestFetchDefaultsExtensionToJpg(t *testing.T) {
	jpegBytes := testImageBytes(t, "jpeg", 10, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(jpegBytes)
	}))
	defer srv.Close()

	fetcher := NewImageFetcher(t.TempDir())
	img := fetcher.Fetch(context.Background(), srv.URL+"/no-extension", 7)

	require.NotNil(t, img)
	assert.Equal(t, FormatJPEG, img.Format)
	assert.Equal(t, filepath.Join(fetcher.Dir, "product_7.jpg"), img.Path)
}

func TestFetchEmptyURLReturnsNil(t *testing.T) {
	fetcher := NewImageFetcher(t.TempDir())
	assert.Nil(t, fetcher.Fetch(context.Background(), "", 1))
}

func TestFetchTransportFailureReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	fetcher := NewImageFetcher(t.TempDir())
	assert.Nil(t, fetcher.Fetch(context.Background(), srv.URL+"/gone.jpg", 2))

	entries, err := os.ReadDir(fetcher.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed downloads must not leave scratch files")
}

func TestFetchUndecodablePayloadIsUnsupported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("GIF89a definitely not a decodable image"))
	}))
	defer srv.Close()

	fetcher := NewImageFetcher(t.TempDir())
	img := fetcher.Fetch(context.Background(), srv.URL+"/thing.gif", 3)

	require.NotNil(t, img)
	assert.Equal(t, FormatUnsupported, img.Format)

	entries, err := os.ReadDir(fetcher.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "unsupported downloads are removed at fetch time")
}
