package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // pdfimages may emit JPEG passthrough
	_ "image/png"
	"os"
	"strings"
)

// Bitmap is an embedded image decoded into memory.
type Bitmap struct {
	Path   string
	Width  int
	Height int
	Img    image.Image
}

// DecodeImage reads an extracted image file and decodes it into a bitmap.
func DecodeImage(path string) (Bitmap, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Bitmap{}, fmt.Errorf("read image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return Bitmap{}, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	return Bitmap{Path: path, Width: bounds.Dx(), Height: bounds.Dy(), Img: img}, nil
}

// OCRImage runs tesseract over a single image file and returns normalized text.
func (e *Extractor) OCRImage(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang>
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, e.logger, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(truncate(string(errb), 512)))
	}

	// minor cleanup of obvious line noise
	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return Normalize(txt), nil
}
