package ocr

import (
	"regexp"
	"strings"
)

var (
	reCurr    = regexp.MustCompile(`\b(usd|eur|gbp)\b|[$£€]`)
	reAmount  = regexp.MustCompile(`\b\d{1,3}(,\d{3})+(\.\d+)?\b|\b\d+\.\d+\b`)
	rePercent = regexp.MustCompile(`\d+(\.\d+)?\s*%`)
	reTerms   = regexp.MustCompile(`\b(revenue|income|profit|assets|liabilities|equity|margin|earnings)\b`)
)

// heuristicConfidence scores OCR output by how much it looks like financial
// reporting text. It is only used to flag images whose text is probably noise.
func heuristicConfidence(txt string) float32 {
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if reCurr.MatchString(txtL) {
		score += 0.15
	}
	if reAmount.MatchString(txtL) {
		score += 0.2
	}
	if rePercent.MatchString(txtL) {
		score += 0.1
	}
	if reTerms.MatchString(txtL) {
		score += 0.25
	}
	if len(txt) > 120 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
