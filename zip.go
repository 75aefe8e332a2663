package figkit

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/arloliu/figkit/errs"
	"github.com/arloliu/figkit/internal/hash"
)

// Conventional entry names inside the ZIP-wrapped variant.
const (
	// CanvasEntryName holds the full inner document.
	CanvasEntryName = "canvas.fig"
	// ThumbnailEntryName is the fallback when no canvas entry exists.
	ThumbnailEntryName = "thumbnail.fig"

	imagesPrefix = "images/"
)

// zipSignature is the ZIP local-file-header magic.
var zipSignature = []byte{0x50, 0x4B, 0x03, 0x04}

// isZipData reports whether data begins with the ZIP signature.
func isZipData(data []byte) bool {
	return bytes.HasPrefix(data, zipSignature)
}

// unwrapArchive extracts the inner raw container and the image asset
// map from a ZIP-wrapped document.
func unwrapArchive(data []byte) ([]byte, map[string]Image, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("open archive: %w", err)
	}

	var canvas, thumbnail *zip.File
	images := map[string]Image{}

	for _, f := range zr.File {
		switch {
		case f.Name == CanvasEntryName:
			canvas = f
		case f.Name == ThumbnailEntryName:
			thumbnail = f
		case strings.HasPrefix(f.Name, imagesPrefix):
			ref := strings.TrimPrefix(f.Name, imagesPrefix)
			if ref == "" {
				continue // the directory entry itself
			}

			imgBytes, err := readArchiveEntry(f)
			if err != nil {
				return nil, nil, err
			}
			images[ref] = Image{
				Bytes:    imgBytes,
				MimeType: sniffImageMime(imgBytes, f.Name),
				ID:       hash.ID(imgBytes),
			}
		}
	}

	inner := canvas
	if inner == nil {
		inner = thumbnail
	}
	if inner == nil {
		return nil, nil, fmt.Errorf("%q or %q: %w", CanvasEntryName, ThumbnailEntryName, errs.ErrNoDocumentEntry)
	}

	innerBytes, err := readArchiveEntry(inner)
	if err != nil {
		return nil, nil, err
	}

	return innerBytes, images, nil
}

func readArchiveEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open archive entry %q: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read archive entry %q: %w", f.Name, err)
	}

	return data, nil
}

// Image format signatures, checked in priority order.
var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	gifMagic  = []byte("GIF8")
	riffMagic = []byte("RIFF")
	webpTag   = []byte("WEBP")
)

// sniffImageMime determines an asset's MIME type from its magic bytes:
// PNG, JPEG, GIF, then WebP. Extension-based guessing is the last
// resort when no signature matches.
func sniffImageMime(data []byte, name string) string {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return "image/png"
	case bytes.HasPrefix(data, jpegMagic):
		return "image/jpeg"
	case bytes.HasPrefix(data, gifMagic):
		return "image/gif"
	case bytes.HasPrefix(data, riffMagic) && len(data) >= 12 && bytes.Equal(data[8:12], webpTag):
		return "image/webp"
	}

	if mimeType := mime.TypeByExtension(path.Ext(name)); mimeType != "" {
		return mimeType
	}

	return "application/octet-stream"
}
