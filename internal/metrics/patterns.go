package metrics

import (
	"fmt"
	"regexp"
)

const (
	amountTail = `[^$\d]{0,20}(?:usd|\$)?\s*(\d[\d,\.]*)\s*(billion|million|thousand)?`
	plainTail  = `[^$\d]{0,20}(?:usd|\$)?\s*(\d[\d,\.]*)`
)

// DefaultPatterns returns the source of the built-in pattern for every key.
// Each pattern has the number as its first capture group and, for amounts,
// the magnitude word as the second.
func DefaultPatterns() map[Key]string {
	return map[Key]string{
		Revenue:          `revenue(?:s)?` + amountTail,
		Profit:           `(?:gross|operating|net)?\s+profit` + amountTail,
		NetIncome:        `net\s+income` + amountTail,
		TotalAssets:      `total\s+assets` + amountTail,
		TotalLiabilities: `total\s+liabilities` + amountTail,
		EarningsPerShare: `earnings\s+per\s+share` + plainTail,
		OperatingMargin:  `operating\s+margin[^%\d]{0,20}(\d+(?:\.\d+)?)\s*%`,
		ReturnOnEquity:   `return\s+on\s+equity[^%\d]{0,20}(\d+(?:\.\d+)?)\s*%`,
		DebtToEquity:     `debt\s+to\s+equity[^:\d]{0,20}(\d+(?:\.\d+)?)`,
	}
}

// PatternTable holds one compiled, case-insensitive pattern per key.
// It is built once and never modified.
type PatternTable struct {
	exprs [keyCount]*regexp.Regexp
}

// NewPatternTable compiles the default patterns with the given overrides
// applied. Every override must have one or two capture groups.
func NewPatternTable(overrides map[Key]string) (*PatternTable, error) {
	src := DefaultPatterns()
	for k, p := range overrides {
		if !k.Valid() {
			return nil, fmt.Errorf("override for invalid key %d", int(k))
		}
		src[k] = p
	}
	t := &PatternTable{}
	for _, k := range Keys() {
		re, err := regexp.Compile(`(?i)` + src[k])
		if err != nil {
			return nil, fmt.Errorf("compile %s pattern: %w", k, err)
		}
		if n := re.NumSubexp(); n < 1 || n > 2 {
			return nil, fmt.Errorf("%s pattern must have 1 or 2 capture groups, has %d", k, n)
		}
		t.exprs[k] = re
	}
	return t, nil
}

// Pattern returns the compiled expression for k.
func (t *PatternTable) Pattern(k Key) *regexp.Regexp {
	return t.exprs[k]
}
