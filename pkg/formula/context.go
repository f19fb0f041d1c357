package formula

import "strings"

// Context is the mutable variable environment for a single calculation run.
// It is owned by exactly one run and never shared; the scheduler extends it
// with `<component_code>_qty` entries as components are computed.
type Context map[string]float64

// NewContext returns an empty calculation context.
func NewContext() Context {
	return make(Context)
}

// NormalizeName flattens a formula variable reference to the context's key
// convention: dot notation becomes underscores ([picket.width_inches] looks up
// picket_width_inches) and the comparison is case-insensitive.
func NormalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), ".", "_"))
}

// Set stores a value under the normalized key.
func (c Context) Set(name string, value float64) {
	c[NormalizeName(name)] = value
}

// Lookup resolves a variable reference, normalizing the name first.
func (c Context) Lookup(name string) (float64, bool) {
	value, ok := c[NormalizeName(name)]
	return value, ok
}
