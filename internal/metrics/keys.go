// Package metrics extracts a fixed set of financial figures from report text.
package metrics

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Key is one of the financial metrics the extractor knows about. The set is
// closed: adding a key means adding a pattern to the table.
type Key int

const (
	Revenue Key = iota
	Profit
	NetIncome
	TotalAssets
	TotalLiabilities
	EarningsPerShare
	OperatingMargin
	ReturnOnEquity
	DebtToEquity

	keyCount
)

// Kind says how a metric's value should be read.
type Kind int

const (
	KindAmount   Kind = iota // currency, multiplied out from million/billion/thousand
	KindPerShare             // currency per share, never multiplied
	KindPercent              // percentage figure as printed (12.5 means 12.5%)
	KindRatio                // plain ratio
)

var keyNames = [keyCount]string{
	Revenue:          "revenue",
	Profit:           "profit",
	NetIncome:        "net_income",
	TotalAssets:      "total_assets",
	TotalLiabilities: "total_liabilities",
	EarningsPerShare: "earnings_per_share",
	OperatingMargin:  "operating_margin",
	ReturnOnEquity:   "return_on_equity",
	DebtToEquity:     "debt_to_equity",
}

var keyKinds = [keyCount]Kind{
	Revenue:          KindAmount,
	Profit:           KindAmount,
	NetIncome:        KindAmount,
	TotalAssets:      KindAmount,
	TotalLiabilities: KindAmount,
	EarningsPerShare: KindPerShare,
	OperatingMargin:  KindPercent,
	ReturnOnEquity:   KindPercent,
	DebtToEquity:     KindRatio,
}

// Keys returns every metric key in display order.
func Keys() []Key {
	out := make([]Key, keyCount)
	for i := range out {
		out[i] = Key(i)
	}
	return out
}

// Valid reports whether k belongs to the enumerated set.
func (k Key) Valid() bool { return k >= 0 && k < keyCount }

// String returns the snake_case name, e.g. "net_income".
func (k Key) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// Label returns the display label, e.g. "Net Income".
func (k Key) Label() string {
	return cases.Title(language.English).String(strings.ReplaceAll(k.String(), "_", " "))
}

// Kind returns how the metric's value is expressed.
func (k Key) Kind() Kind {
	if !k.Valid() {
		return KindAmount
	}
	return keyKinds[k]
}

// ParseKey maps a snake_case name back to its key.
func ParseKey(name string) (Key, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, kn := range keyNames {
		if kn == n {
			return Key(i), nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q", name)
}

func (k Key) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid metric key %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(b []byte) error {
	parsed, err := ParseKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
