// Package summarize builds extractive summaries: the leading sentences of a
// text, verbatim.
package summarize

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// DefaultMaxSentences is used when no sentence count is configured.
const DefaultMaxSentences = 5

// Segmenter splits text into sentences in reading order.
type Segmenter interface {
	Segment(text string) []string
}

type punktSegmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

func (p punktSegmenter) Segment(text string) []string {
	toks := p.tokenizer.Tokenize(text)
	out := make([]string, 0, len(toks))
	for _, s := range toks {
		out = append(out, s.Text)
	}
	return out
}

// NewPunktSegmenter loads the trained English Punkt model.
func NewPunktSegmenter() (Segmenter, error) {
	t, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load sentence model: %w", err)
	}
	return punktSegmenter{tokenizer: t}, nil
}

// Summarizer keeps the sentence model loaded; it holds no per-call state.
type Summarizer struct {
	seg Segmenter
}

// New returns a Summarizer backed by the English Punkt model.
func New() (*Summarizer, error) {
	seg, err := NewPunktSegmenter()
	if err != nil {
		return nil, err
	}
	return &Summarizer{seg: seg}, nil
}

// NewWithSegmenter returns a Summarizer over any segmenter.
func NewWithSegmenter(seg Segmenter) *Summarizer {
	return &Summarizer{seg: seg}
}

// Sentences returns the trimmed, non-empty sentences of text.
func (s *Summarizer) Sentences(text string) []string {
	raw := s.seg.Segment(text)
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if t := strings.TrimSpace(r); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Summarize joins the first maxSentences sentences with single spaces.
// maxSentences <= 0 yields "", and asking for more sentences than the text
// has returns all of them.
func (s *Summarizer) Summarize(text string, maxSentences int) string {
	if maxSentences <= 0 {
		return ""
	}
	sents := s.Sentences(text)
	if len(sents) > maxSentences {
		sents = sents[:maxSentences]
	}
	return strings.Join(sents, " ")
}
