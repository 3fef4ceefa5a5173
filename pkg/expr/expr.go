// Package expr evaluates the numeric expressions users type into the
// calculator form.
//
// Inputs are small arithmetic expressions rather than plain numbers, so
// "1/2", "sqrt(3)" and "2*pi" are all accepted. Evaluation is delegated to
// github.com/expr-lang/expr with a fixed math environment; the result must be
// a finite real number.
//
// # Environment
//
//   - Constants: pi, e
//   - Radians: sin, cos, tan
//   - Degrees: sind, cosd, tand
//   - Other: sqrt, ln, log, exp, pow, and the expr builtins (abs, round, min, max, ...)
//
// Operators are + - * / % and ^ or ** for powers. Division is always real
// division.
package expr

import (
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/matzehuels/geotrig/pkg/errors"
)

var env = map[string]any{
	"pi": math.Pi,
	"e":  math.E,
}

var options = []expr.Option{
	expr.Env(env),
	unary("sqrt", math.Sqrt),
	unary("sin", math.Sin),
	unary("cos", math.Cos),
	unary("tan", math.Tan),
	unary("sind", func(d float64) float64 { return math.Sin(d * math.Pi / 180) }),
	unary("cosd", func(d float64) float64 { return math.Cos(d * math.Pi / 180) }),
	unary("tand", func(d float64) float64 { return math.Tan(d * math.Pi / 180) }),
	unary("ln", math.Log),
	unary("log", math.Log10),
	unary("exp", math.Exp),
	expr.Function("pow", func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidExpression, "pow expects 2 arguments, got %d", len(params))
		}
		x, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		y, err := toFloat(params[1])
		if err != nil {
			return nil, err
		}
		return math.Pow(x, y), nil
	}),
}

func unary(name string, fn func(float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, errors.New(errors.ErrCodeInvalidExpression, "%s expects 1 argument, got %d", name, len(params))
		}
		x, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		return fn(x), nil
	})
}

// Compile parses s into a reusable program.
func Compile(s string) (*vm.Program, error) {
	s = strings.TrimSpace(s)
	if err := errors.ValidateExpression("expression", s); err != nil {
		return nil, err
	}
	prog, err := expr.Compile(s, options...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidExpression, err, "cannot parse %q", s)
	}
	return prog, nil
}

// Eval evaluates s and returns its numeric value.
//
// Plain decimal literals take a fast path that skips compilation.
func Eval(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if err := errors.ValidateFinite("expression", v); err != nil {
			return 0, errors.Wrap(errors.ErrCodeInvalidExpression, err, "%q is not a finite number", s)
		}
		return v, nil
	}

	prog, err := Compile(s)
	if err != nil {
		return 0, err
	}
	out, err := expr.Run(prog, env)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidExpression, err, "cannot evaluate %q", s)
	}
	v, err := toFloat(out)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidExpression, err, "cannot evaluate %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New(errors.ErrCodeInvalidExpression, "%q does not evaluate to a finite number", s)
	}
	return v, nil
}

// EvalDefault evaluates s, or def when s is blank.
func EvalDefault(s, def string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return Eval(def)
	}
	return Eval(s)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidExpression, "expected a number, got %T", v)
	}
}
