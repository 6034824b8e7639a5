package metrics

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/finpro/constants"
)

var errMalformedNumber = errors.New("malformed number")

var unitMultipliers = map[string]float64{
	"billion":  1e9,
	"million":  1e6,
	"thousand": 1e3,
}

// Extractor scans text for every metric key. It holds no state besides the
// immutable pattern table, so one instance can be reused for any number of
// documents.
type Extractor struct {
	table *PatternTable
}

// NewExtractor builds an extractor over the default patterns.
func NewExtractor() *Extractor {
	t, err := NewPatternTable(nil)
	if err != nil {
		panic(fmt.Sprintf("metrics: default patterns: %v", err))
	}
	return &Extractor{table: t}
}

// NewExtractorWithPatterns builds an extractor with some patterns replaced.
func NewExtractorWithPatterns(overrides map[Key]string) (*Extractor, error) {
	t, err := NewPatternTable(overrides)
	if err != nil {
		return nil, err
	}
	return &Extractor{table: t}, nil
}

// Extract returns a value for every key that has a parseable match. For each
// key the first match in text order that normalizes wins; matches with a
// malformed number are skipped.
func (e *Extractor) Extract(text string) Metrics {
	text = foldSpaces(text)
	var m Metrics
	for _, k := range Keys() {
		re := e.table.Pattern(k)
		matches := re.FindAllStringSubmatch(text, -1)
		v, status := firstNormalized(matches, normalizeMatch)
		switch status {
		case constants.MetricFound:
			m.Set(k, v)
		case constants.MetricUnparsed:
			m.SetStatus(k, status)
		}
	}
	return m
}

// firstNormalized folds over ordered matches and stops at the first one the
// normalizer accepts.
func firstNormalized(matches [][]string, normalize func([]string) (float64, error)) (float64, constants.MetricStatus) {
	status := constants.MetricNotMatched
	for _, m := range matches {
		v, err := normalize(m)
		if err != nil {
			status = constants.MetricUnparsed
			continue
		}
		return v, constants.MetricFound
	}
	return 0, status
}

// normalizeMatch turns a submatch slice (full match, number[, unit]) into an
// absolute value.
func normalizeMatch(sm []string) (float64, error) {
	if len(sm) < 2 {
		return 0, errMalformedNumber
	}
	unit := ""
	if len(sm) > 2 {
		unit = sm[2]
	}
	return NormalizeValue(sm[1], unit)
}

// NormalizeValue strips thousands separators from num, parses it and applies
// the magnitude of unit (billion, million, thousand; anything else is 1).
func NormalizeValue(num, unit string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errMalformedNumber, num)
	}
	if mult, ok := unitMultipliers[strings.ToLower(unit)]; ok {
		v *= mult
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q %s out of range", errMalformedNumber, num, unit)
	}
	return v, nil
}

// foldSpaces turns non-ASCII spaces (no-break, thin, narrow no-break) into
// ' ' so \s in the patterns sees them.
func foldSpaces(text string) string {
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII && unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, text)
}
