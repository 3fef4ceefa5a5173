package calc

import (
	"slices"
	"strings"

	"github.com/matzehuels/geotrig/pkg/errors"
	"github.com/matzehuels/geotrig/pkg/explain"
	"github.com/matzehuels/geotrig/pkg/expr"
	"github.com/matzehuels/geotrig/pkg/trig"
)

// Param describes one input field of an operation.
type Param struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Default string   `json:"default"`
	Choices []string `json:"choices,omitempty"` // non-empty for select fields
	Prefill string   `json:"prefill,omitempty"` // form value when it differs from Default
	Only    string   `json:"only,omitempty"`    // "param=value" the field depends on

	aliases      []string          // alternative field names
	valueAliases map[string]string // alternative choice values
}

// Operation is a registered formula.
type Operation struct {
	Name    string   `json:"name"`
	Module  string   `json:"module"`
	Label   string   `json:"label"`
	Aliases []string `json:"aliases,omitempty"`
	Params  []Param  `json:"params"`

	compute func(p expr.Params) (outcome, error)
}

// outcome is what a compute func produces before rendering.
type outcome struct {
	Result    []string
	Matrix    string
	Steps     []explain.Step
	Status    string
	Warning   bool
	Error     string // shown instead of Result, Steps are kept
	Solutions []trig.Solution
}

// FormValue is the value a blank form starts with.
func (p Param) FormValue() string {
	if p.Prefill != "" {
		return p.Prefill
	}
	return p.Default
}

// Defaults returns the default value of every parameter.
func (op *Operation) Defaults() map[string]string {
	out := make(map[string]string, len(op.Params))
	for _, p := range op.Params {
		out[p.Name] = p.Default
	}
	return out
}

// Normalize resolves field and value aliases, drops unknown fields and
// applies defaults. The result is the canonical parameter set used for cache
// keys and history.
func (op *Operation) Normalize(raw map[string]string) (expr.Params, error) {
	out := make(expr.Params, len(op.Params))
	for _, p := range op.Params {
		v := strings.TrimSpace(raw[p.Name])
		for _, alias := range p.aliases {
			if v != "" {
				break
			}
			v = strings.TrimSpace(raw[alias])
		}
		if v == "" {
			v = p.Default
		}
		if len(p.Choices) > 0 {
			if canon, ok := p.valueAliases[v]; ok {
				v = canon
			}
			if !slices.Contains(p.Choices, v) {
				return nil, errors.New(errors.ErrCodeInvalidMode,
					"%s must be one of %s, got %q", p.Name, strings.Join(p.Choices, ", "), v)
			}
		}
		out[p.Name] = v
	}
	return out, nil
}

var (
	registry []*Operation
	byName   = map[string]*Operation{}
)

func register(op *Operation) {
	registry = append(registry, op)
	byName[op.Name] = op
	for _, a := range op.Aliases {
		byName[a] = op
	}
}

// Operations returns every registered operation in display order.
func Operations() []*Operation {
	return slices.Clone(registry)
}

// Lookup finds an operation by name or alias. An empty module matches any
// module; otherwise the operation must belong to it.
func Lookup(module, name string) (*Operation, error) {
	switch module {
	case "", ModuleGeo, ModuleTrig:
	default:
		return nil, errors.New(errors.ErrCodeInvalidModule, "unknown module %q", module)
	}
	op, ok := byName[strings.TrimSpace(name)]
	if !ok || (module != "" && op.Module != module) {
		return nil, errors.New(errors.ErrCodeInvalidOperation, "unknown operation %q", name)
	}
	return op, nil
}
