package metrics

import (
	"encoding/json"
	"fmt"

	"github.com/joseph-ayodele/finpro/constants"
)

// Metrics holds a value-or-absent for every key. The zero value has every key
// absent and not matched.
type Metrics struct {
	values [keyCount]float64
	status [keyCount]constants.MetricStatus
}

// Get returns the value for k and whether it was found.
func (m Metrics) Get(k Key) (float64, bool) {
	if !k.Valid() || m.status[k] != constants.MetricFound {
		return 0, false
	}
	return m.values[k], true
}

// Status tells whether k was found, matched without a parseable number, or
// never matched.
func (m Metrics) Status(k Key) constants.MetricStatus {
	if !k.Valid() || m.status[k] == "" {
		return constants.MetricNotMatched
	}
	return m.status[k]
}

// Set records a found value for k.
func (m *Metrics) Set(k Key, v float64) {
	if !k.Valid() {
		return
	}
	m.values[k] = v
	m.status[k] = constants.MetricFound
}

// SetStatus records a non-found outcome for k and clears its value.
func (m *Metrics) SetStatus(k Key, s constants.MetricStatus) {
	if !k.Valid() {
		return
	}
	m.status[k] = s
	if s != constants.MetricFound {
		m.values[k] = 0
	}
}

// Found returns how many keys have a value.
func (m Metrics) Found() int {
	n := 0
	for _, k := range Keys() {
		if _, ok := m.Get(k); ok {
			n++
		}
	}
	return n
}

// Values returns every key mapped to its value, nil when absent.
func (m Metrics) Values() map[string]*float64 {
	out := make(map[string]*float64, keyCount)
	for _, k := range Keys() {
		if v, ok := m.Get(k); ok {
			out[k.String()] = &v
		} else {
			out[k.String()] = nil
		}
	}
	return out
}

// Diagnostics returns every key mapped to its extraction status.
func (m Metrics) Diagnostics() map[string]constants.MetricStatus {
	out := make(map[string]constants.MetricStatus, keyCount)
	for _, k := range Keys() {
		out[k.String()] = m.Status(k)
	}
	return out
}

// MarshalJSON writes {"revenue": 1e7, "profit": null, ...}.
func (m Metrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Values())
}

// UnmarshalJSON reads the MarshalJSON form. Keys with null are absent and
// marked not matched; unknown keys are rejected.
func (m *Metrics) UnmarshalJSON(b []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var out Metrics
	for name, v := range raw {
		k, err := ParseKey(name)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		if v != nil {
			out.Set(k, *v)
		}
	}
	*m = out
	return nil
}

// ApplyDiagnostics restores unparsed statuses recorded by Diagnostics. Found
// keys come from the values themselves and not_matched is the zero state.
func (m *Metrics) ApplyDiagnostics(d map[string]constants.MetricStatus) error {
	for name, s := range d {
		k, err := ParseKey(name)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		if s == constants.MetricUnparsed {
			m.SetStatus(k, s)
		}
	}
	return nil
}
