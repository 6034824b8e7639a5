package ocr

import (
	"context"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

// fakeRunner dispatches on the command name.
type fakeRunner struct {
	handlers map[string]func(args []string) ([]byte, []byte, error)
	calls    []call
}

func (f *fakeRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	h, ok := f.handlers[name]
	if !ok {
		return nil, []byte("unknown command"), errors.New("exit status 127")
	}
	return h(args)
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func TestPDFPages_SplitsOnFormFeed(t *testing.T) {
	fr := &fakeRunner{handlers: map[string]func([]string) ([]byte, []byte, error){
		"pdftotext": func(args []string) ([]byte, []byte, error) {
			return []byte("Total Assets:      $500 million\r\n\f\fRevenue\t$10 million\n\f"), nil, nil
		},
	}}
	e := NewExtractor(Config{MaxPages: 3}, nil, WithRunner(fr))

	pages, err := e.PDFPages(context.Background(), "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"Total Assets: $500 million", "", "Revenue $10 million"}, pages)

	require.Len(t, fr.calls, 1)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-eol", "unix", "-l", "3", "report.pdf", "-"}, fr.calls[0].args)
}

func TestPDFPages_Error(t *testing.T) {
	fr := &fakeRunner{handlers: map[string]func([]string) ([]byte, []byte, error){
		"pdftotext": func([]string) ([]byte, []byte, error) {
			return nil, []byte("Syntax Error: Couldn't read xref table"), errors.New("exit status 1")
		},
	}}
	e := NewExtractor(Config{}, nil, WithRunner(fr))

	_, err := e.PDFPages(context.Background(), "broken.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext")
	assert.Contains(t, err.Error(), "xref")
}

func TestPDFImagesOCR_OrderAndFailures(t *testing.T) {
	fr := &fakeRunner{}
	fr.handlers = map[string]func([]string) ([]byte, []byte, error){
		"pdfimages": func(args []string) ([]byte, []byte, error) {
			prefix := args[len(args)-1]
			writePNG(t, prefix+"-002-003.png", 40, 40)
			writePNG(t, prefix+"-001-001.png", 40, 40)
			writePNG(t, prefix+"-001-000.png", 40, 40)
			writePNG(t, prefix+"-001-002.png", 4, 4)
			require.NoError(t, os.WriteFile(prefix+"-002-004.png", []byte("not a png"), 0o600))
			return nil, nil, nil
		},
		"tesseract": func(args []string) ([]byte, []byte, error) {
			base := filepath.Base(args[0])
			if strings.Contains(base, "-001-001") {
				return nil, []byte("Error in pixReadStream"), errors.New("exit status 1")
			}
			return []byte("text of " + base + "\n-----\n"), nil, nil
		},
	}
	e := NewExtractor(Config{MinImageSide: 10}, nil, WithRunner(fr))

	layer, err := e.PDFImagesOCR(context.Background(), "report.pdf")
	require.NoError(t, err)

	require.Len(t, layer.Images, 2)
	assert.Equal(t, 1, layer.Images[0].Page)
	assert.Equal(t, 0, layer.Images[0].Index)
	assert.Equal(t, "text of img-001-000.png", layer.Images[0].Text)
	assert.Equal(t, 2, layer.Images[1].Page)
	assert.Equal(t, 40, layer.Images[1].Width)

	require.Len(t, layer.Failures, 2)
	assert.Equal(t, 1, layer.Failures[0].Page)
	assert.Equal(t, 1, layer.Failures[0].Index)
	assert.Contains(t, layer.Failures[0].Err.Error(), "tesseract")
	assert.Equal(t, 4, layer.Failures[1].Index)
	assert.Contains(t, layer.Failures[1].Err.Error(), "decode image")

	assert.Equal(t, 1, layer.Skipped)
}

func TestPDFImagesOCR_EnumerationFails(t *testing.T) {
	fr := &fakeRunner{handlers: map[string]func([]string) ([]byte, []byte, error){}}
	e := NewExtractor(Config{}, nil, WithRunner(fr))

	_, err := e.PDFImagesOCR(context.Background(), "report.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdfimages")
}

func TestOCRImage_Args(t *testing.T) {
	fr := &fakeRunner{handlers: map[string]func([]string) ([]byte, []byte, error){
		"tess": func([]string) ([]byte, []byte, error) { return []byte("  Revenue  $5 million  \n"), nil, nil },
	}}
	e := NewExtractor(Config{Tesseract: "tess", TesseractLang: "deu", PSM: 6, TessdataDir: "/td"}, nil, WithRunner(fr))

	txt, err := e.OCRImage(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Equal(t, "Revenue $5 million", txt)
	assert.Equal(t, []string{"a.png", "stdout", "-l", "deu", "--psm", "6", "--tessdata-dir", "/td"}, fr.calls[0].args)
	assert.Equal(t, "deu", e.Language())
}

func TestNormalize(t *testing.T) {
	in := "Net income \t $1,200   million  \r\n\r\n\r\n\r\nEPS 2.05  "
	assert.Equal(t, "Net income $1,200 million\n\nEPS 2.05", Normalize(in))
	assert.Equal(t, "", Normalize(""))
}

func TestHeuristicConfidence(t *testing.T) {
	low := heuristicConfidence("|||| ~~ ")
	high := heuristicConfidence("Revenue grew to $1,234.5 million, operating margin 12.5% on total assets of USD 9,000,000 for the year.")
	assert.Less(t, low, high)
	assert.LessOrEqual(t, high, float32(1.0))
}

func TestNativeText_MissingFile(t *testing.T) {
	n := NewNativeText(0, nil)
	_, err := n.PDFPages(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}
