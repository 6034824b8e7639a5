package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/finpro/internal/common"
	"github.com/joseph-ayodele/finpro/internal/document"
	"github.com/joseph-ayodele/finpro/internal/entity"
	"github.com/joseph-ayodele/finpro/internal/metrics"
	"github.com/joseph-ayodele/finpro/internal/ocr"
	"github.com/joseph-ayodele/finpro/internal/summarize"
)

type pagesStub []string

func (s pagesStub) PDFPages(context.Context, string) ([]string, error) { return s, nil }

type imagesStub ocr.ImageLayer

func (s imagesStub) PDFImagesOCR(context.Context, string) (ocr.ImageLayer, error) {
	return ocr.ImageLayer(s), nil
}

type firstWords struct{}

func (firstWords) Summarize(text string, n int) string {
	if n <= 0 || len(text) < 10 {
		return ""
	}
	return text[:10]
}

type memStore struct {
	saved   []*entity.Analysis
	saveErr error
}

func (m *memStore) Save(_ context.Context, a *entity.Analysis) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, a)
	return nil
}

func (m *memStore) LatestByHash(_ context.Context, hash string) (*entity.Analysis, error) {
	for i := len(m.saved) - 1; i >= 0; i-- {
		if m.saved[i].ContentHash == hash {
			return m.saved[i], nil
		}
	}
	return nil, common.ErrNotFound
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestAnalyze_TextLayerPrecedesOCR(t *testing.T) {
	reader := document.NewReader(
		pagesStub{"Annual report 2024.\nTotal Assets: $500 million", ""},
		imagesStub{Images: []ocr.ImageText{{Page: 2, Index: 0, Text: "Total Assets: $550 million", Confidence: 0.9}}},
		nil,
	)
	sum, err := summarize.New()
	require.NoError(t, err)
	p := NewProcessor(nil, reader, metrics.NewExtractor(), sum)

	path := writeFile(t, "report.pdf", "%PDF-1.4 stub")
	a, err := p.Analyze(context.Background(), path, "FY2024")
	require.NoError(t, err)

	v, ok := a.Metrics.Get(metrics.TotalAssets)
	require.True(t, ok)
	assert.Equal(t, 5.0e8, v)
	assert.Equal(t, 2, a.Pages)
	assert.Equal(t, 1, a.Images)
	assert.Equal(t, "FY2024", a.Label)
	assert.Len(t, a.ContentHash, 64)
	assert.NotEmpty(t, a.Summary)
	assert.Empty(t, a.Warnings)
}

func TestAnalyze_Errors(t *testing.T) {
	p := NewProcessor(nil, document.NewReader(pagesStub{}, nil, nil), metrics.NewExtractor(), firstWords{})

	_, err := p.Analyze(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), "")
	require.Error(t, err)
	assert.Equal(t, common.CodeAnalysisFailed, common.CodeOf(err))
	assert.ErrorIs(t, err, document.ErrUnreadable)

	_, err = p.Analyze(context.Background(), writeFile(t, "report.docx", "x"), "")
	assert.ErrorIs(t, err, document.ErrUnsupportedFormat)
	assert.Equal(t, common.CodeAnalysisFailed, common.CodeOf(err))
}

func TestAnalyze_PlainTextAndStore(t *testing.T) {
	store := &memStore{}
	p := NewProcessor(nil, document.NewReader(pagesStub{}, nil, nil), metrics.NewExtractor(), firstWords{},
		WithStore(store), WithMaxSentences(2))
	path := writeFile(t, "q1.txt", "Revenue: $10 million. Net income: $2 million.")

	a, err := p.Analyze(context.Background(), path, "Q1")
	require.NoError(t, err)
	require.Len(t, store.saved, 1)
	assert.Same(t, a, store.saved[0])
	assert.Equal(t, "Revenue: $", a.Summary)
	assert.Equal(t, 2, p.MaxSentences)

	store.saveErr = errors.New("disk full")
	a, err = p.Analyze(context.Background(), path, "Q1")
	require.Error(t, err)
	require.NotNil(t, a, "the analysis survives a failed save")
	assert.Equal(t, common.CodeStore, common.CodeOf(err))
}

func TestAnalyze_Reuse(t *testing.T) {
	store := &memStore{}
	counting := &countingReader{inner: document.NewReader(pagesStub{}, nil, nil)}
	p := NewProcessor(nil, counting, metrics.NewExtractor(), firstWords{}, WithStore(store), WithReuse(true))
	path := writeFile(t, "q1.txt", "Revenue: $10 million.")

	first, err := p.Analyze(context.Background(), path, "Q1")
	require.NoError(t, err)
	second, err := p.Analyze(context.Background(), path, "Q1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, counting.calls)
}

type countingReader struct {
	inner DocumentReader
	calls int
}

func (c *countingReader) Read(ctx context.Context, path string) (document.Document, error) {
	c.calls++
	return c.inner.Read(ctx, path)
}

func TestCompare(t *testing.T) {
	p := NewProcessor(nil, document.NewReader(pagesStub{}, nil, nil), metrics.NewExtractor(), firstWords{})
	a := writeFile(t, "2023.txt", "Revenue: $500 million. Operating margin 10%.")
	b := writeFile(t, "2024.txt", "Revenue: $550 million.")

	res, err := p.Compare(context.Background(), a, "2023", b, "2024")
	require.NoError(t, err)
	assert.Equal(t, "2023", res.Table.LabelA)
	rev := res.Table.Rows[metrics.Revenue]
	require.NotNil(t, rev.PercentChange)
	assert.InDelta(t, 10.0, *rev.PercentChange, 1e-9)
	assert.Nil(t, res.Table.Rows[metrics.OperatingMargin].Delta)
}

func TestCompare_AbortsOnFailure(t *testing.T) {
	p := NewProcessor(nil, document.NewReader(pagesStub{}, nil, nil), metrics.NewExtractor(), firstWords{})
	good := writeFile(t, "2023.txt", "Revenue: $500 million.")

	_, err := p.Compare(context.Background(), good, "a", filepath.Join(t.TempDir(), "nope.txt"), "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second document")
	assert.ErrorIs(t, err, document.ErrUnreadable)

	_, err = p.Compare(context.Background(), "nope.pdf", "a", good, "b")
	assert.Contains(t, err.Error(), "first document")
}

func TestAnalyze_OnReadSeesDocumentOnce(t *testing.T) {
	store := &memStore{}
	counting := &countingReader{inner: document.NewReader(pagesStub{}, nil, nil)}
	var seen []string
	p := NewProcessor(nil, counting, metrics.NewExtractor(), firstWords{},
		WithStore(store), WithReuse(true),
		WithOnRead(func(d document.Document) { seen = append(seen, d.Text) }))
	path := writeFile(t, "q2.txt", "Revenue: $12 million.")

	tests := []struct {
		name      string
		wantCalls int
	}{
		{"first analysis", 1},
		{"same content again is read, not reused", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := p.Analyze(context.Background(), path, "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantCalls, counting.calls)
			require.Len(t, seen, tt.wantCalls)
			assert.Equal(t, "Revenue: $12 million.", seen[tt.wantCalls-1])
			v, ok := a.Metrics.Get(metrics.Revenue)
			require.True(t, ok)
			assert.Equal(t, 12e6, v)
		})
	}
}

func TestAnalyze_OnReadSkippedOnReadFailure(t *testing.T) {
	called := false
	p := NewProcessor(nil, document.NewReader(pagesStub{}, nil, nil), metrics.NewExtractor(), firstWords{},
		WithOnRead(func(document.Document) { called = true }))
	_, err := p.Analyze(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), "")
	require.Error(t, err)
	assert.False(t, called)
}
