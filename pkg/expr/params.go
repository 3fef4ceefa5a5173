package expr

import (
	"strings"

	"github.com/matzehuels/geotrig/pkg/errors"
)

// Params holds the raw string fields of a calculator request.
type Params map[string]string

// String returns the trimmed value of key, or def when the key is absent or blank.
func (p Params) String(key, def string) string {
	if v := strings.TrimSpace(p[key]); v != "" {
		return v
	}
	return def
}

// Float evaluates the field key, falling back to def when it is absent.
// Errors name the offending field.
func (p Params) Float(key, def string) (float64, error) {
	raw := p.String(key, def)
	if err := errors.ValidateExpression(key, raw); err != nil {
		return 0, err
	}
	v, err := Eval(raw)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidExpression, err, "field %s: cannot evaluate %q", key, raw)
	}
	return v, nil
}

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
