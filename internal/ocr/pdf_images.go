package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// pdfimages -p names files <prefix>-<page>-<num>.<ext>
var reImageName = regexp.MustCompile(`-(\d+)-(\d+)\.(png|jpg|ppm|pbm)$`)

// ImageText is the OCR output of one embedded image.
type ImageText struct {
	Page       int
	Index      int // document-wide image number as reported by pdfimages
	Width      int
	Height     int
	Text       string
	Confidence float32
}

// ImageFailure records an image that could not be decoded or recognized.
type ImageFailure struct {
	Page  int
	Index int
	Err   error
}

// ImageLayer is the outcome of OCR over every embedded raster image.
type ImageLayer struct {
	Images   []ImageText
	Failures []ImageFailure
	Skipped  int // below MinImageSide
}

type extractedImage struct {
	path  string
	page  int
	index int
}

// PDFImagesOCR extracts the embedded raster images of a PDF and OCRs them in
// page order, then image order. A failing image is recorded and skipped; an
// error is returned only when the images could not be enumerated at all.
func (e *Extractor) PDFImagesOCR(ctx context.Context, path string) (ImageLayer, error) {
	tmpDir, err := os.MkdirTemp("", "finpro-img-*")
	if err != nil {
		return ImageLayer{}, err
	}
	defer func(dir string) {
		if err := os.RemoveAll(dir); err != nil {
			e.logger.Warn("failed to remove temp dir", "dir", dir, "error", err)
		}
	}(tmpDir)

	prefix := filepath.Join(tmpDir, "img")
	// pdfimages -png -p [-l N] <in.pdf> <tmp/img>
	args := []string{"-png", "-p"}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-l", fmt.Sprintf("%d", e.cfg.MaxPages))
	}
	args = append(args, path, prefix)
	if _, errb, err := e.runner.Run(ctx, e.cfg.Pdfimages, e.logger, args...); err != nil {
		return ImageLayer{}, fmt.Errorf("pdfimages: %w: %s", err, strings.TrimSpace(truncate(string(errb), 512)))
	}

	images, err := listExtracted(prefix)
	if err != nil {
		return ImageLayer{}, err
	}
	e.logger.Debug("embedded images extracted", "path", path, "count", len(images))

	var layer ImageLayer
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return layer, err
		}
		bm, err := DecodeImage(img.path)
		if err != nil {
			layer.Failures = append(layer.Failures, ImageFailure{Page: img.page, Index: img.index, Err: err})
			continue
		}
		if e.cfg.MinImageSide > 0 && (bm.Width < e.cfg.MinImageSide || bm.Height < e.cfg.MinImageSide) {
			layer.Skipped++
			continue
		}
		txt, err := e.OCRImage(ctx, img.path)
		if err != nil {
			layer.Failures = append(layer.Failures, ImageFailure{Page: img.page, Index: img.index, Err: err})
			continue
		}
		layer.Images = append(layer.Images, ImageText{
			Page:       img.page,
			Index:      img.index,
			Width:      bm.Width,
			Height:     bm.Height,
			Text:       txt,
			Confidence: heuristicConfidence(txt),
		})
	}
	return layer, nil
}

func listExtracted(prefix string) ([]extractedImage, error) {
	matches, err := filepath.Glob(prefix + "-*")
	if err != nil {
		return nil, err
	}
	out := make([]extractedImage, 0, len(matches))
	for _, m := range matches {
		sm := reImageName.FindStringSubmatch(filepath.Base(m))
		if sm == nil {
			continue
		}
		page, _ := strconv.Atoi(sm[1])
		idx, _ := strconv.Atoi(sm[2])
		out = append(out, extractedImage{path: m, page: page, index: idx})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].page != out[j].page {
			return out[i].page < out[j].page
		}
		return out[i].index < out[j].index
	})
	return out, nil
}
