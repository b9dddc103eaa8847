package ocr

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// minOCRWidth is the width below which screenshots are upscaled before OCR;
// tesseract struggles with small message-bubble glyphs.
const minOCRWidth = 1000

// preprocessImage writes a grayscale (and, for small images, upscaled) copy
// of the input to a temp file for tesseract to consume.
//
// Returns (outPath, cleanup, err). Call cleanup() to remove temp files.
func preprocessImage(path string) (string, func(), error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", nil, fmt.Errorf("open image: %w", err)
	}

	g := imaging.Grayscale(img)
	if w := g.Bounds().Dx(); w > 0 && w < minOCRWidth {
		g = imaging.Resize(g, w*2, 0, imaging.Lanczos)
	}

	tmpDir, err := os.MkdirTemp("", "phonesift-pre-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	out := filepath.Join(tmpDir, "page.png")
	if err := imaging.Save(g, out); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("save preprocessed image: %w", err)
	}
	return out, cleanup, nil
}
