package calc

import (
	"github.com/matzehuels/geotrig/pkg/errors"
	"github.com/matzehuels/geotrig/pkg/explain"
	"github.com/matzehuels/geotrig/pkg/expr"
	"github.com/matzehuels/geotrig/pkg/geom"
	"github.com/matzehuels/geotrig/pkg/trig"
)

// Choices for the law of cosines.
const (
	FindSide  = "side"
	FindAngle = "angle"
)

func init() {
	// Geometry
	register(&Operation{
		Name: "translate", Module: ModuleGeo, Label: "Translation",
		Aliases: []string{"translasi"},
		Params:  append(pointParams(), shiftParams()...),
		compute: func(p expr.Params) (outcome, error) {
			pt, t, err := pointAndShift(p)
			if err != nil {
				return outcome{}, err
			}
			return geoOutcome(geom.Translate(pt, t), false, "✓ Translation complete"), nil
		},
	})
	register(&Operation{
		Name: "translate_homogeneous", Module: ModuleGeo, Label: "Homogeneous translation",
		Aliases: []string{"translasi_homogen"},
		Params:  append(pointParams(), shiftParams()...),
		compute: func(p expr.Params) (outcome, error) {
			pt, t, err := pointAndShift(p)
			if err != nil {
				return outcome{}, err
			}
			return geoOutcome(geom.TranslateHomogeneous(pt, t), true, "✓ Homogeneous translation complete"), nil
		},
	})
	register(&Operation{
		Name: "reflect", Module: ModuleGeo, Label: "Reflection",
		Aliases: []string{"refleksi"},
		Params:  append(pointParams(), reflectParam()),
		compute: func(p expr.Params) (outcome, error) {
			pt, err := point(p, "px", "py")
			if err != nil {
				return outcome{}, err
			}
			mode, err := geom.ParseReflectMode(p.String("mode", string(geom.DefaultReflect)))
			if err != nil {
				return outcome{}, err
			}
			return geoOutcome(geom.Reflect(pt, mode), true, "✓ Reflection complete"), nil
		},
	})
	register(&Operation{
		Name: "rotate", Module: ModuleGeo, Label: "Rotation",
		Aliases: []string{"rotasi"},
		Params: append(pointParams(),
			num("angle", "Angle (°)", "90"), num("cx", "Center x", "0"), num("cy", "Center y", "0")),
		compute: func(p expr.Params) (outcome, error) {
			pt, err := point(p, "px", "py")
			if err != nil {
				return outcome{}, err
			}
			angle, err := p.Float("angle", "90")
			if err != nil {
				return outcome{}, err
			}
			c, err := point(p, "cx", "cy")
			if err != nil {
				return outcome{}, err
			}
			return geoOutcome(geom.Rotate(pt, angle, c), true, "✓ Rotation complete"), nil
		},
	})
	register(&Operation{
		Name: "dilate", Module: ModuleGeo, Label: "Dilation",
		Aliases: []string{"dilatasi"},
		Params: append(pointParams(),
			num("factor", "Factor k", "2"), num("dcx", "Center x", "0"), num("dcy", "Center y", "0")),
		compute: func(p expr.Params) (outcome, error) {
			pt, err := point(p, "px", "py")
			if err != nil {
				return outcome{}, err
			}
			k, err := p.Float("factor", "2")
			if err != nil {
				return outcome{}, err
			}
			c, err := point(p, "dcx", "dcy")
			if err != nil {
				return outcome{}, err
			}
			return geoOutcome(geom.Dilate(pt, k, c), true, "✓ Dilation complete"), nil
		},
	})
	register(&Operation{
		Name: "inverse", Module: ModuleGeo, Label: "Inverse matrix",
		Aliases: []string{"invers"},
		Params: []Param{
			{Name: "inv_type", Label: "Transformation", Default: string(geom.InverseRotation),
				Choices: []string{string(geom.InverseRotation), string(geom.InverseDilation)}},
			num("param", "Angle (°) or factor", "90"),
		},
		compute: computeInverse,
	})

	// Trigonometry
	register(&Operation{
		Name: "law_of_sines", Module: ModuleTrig, Label: "Law of sines",
		Aliases: []string{"aturan_sinus"},
		Params:  []Param{num("b", "Side b", "5"), num("A", "Angle A (°)", "30"), num("B", "Angle B (°)", "45")},
		compute: trigCompute([]string{"b", "A", "B"}, trig.LawOfSines),
	})
	register(&Operation{
		Name: "ambiguous_case", Module: ModuleTrig, Label: "Law of sines (ambiguous case)",
		Aliases: []string{"aturan_sinus_ambigu"},
		Params:  []Param{num("a", "Side a", "5"), num("b", "Side b", "7"), num("A", "Angle A (°)", "30")},
		compute: trigCompute([]string{"a", "b", "A"}, trig.Ambiguous),
	})
	register(&Operation{
		Name: "law_of_cosines", Module: ModuleTrig, Label: "Law of cosines",
		Aliases: []string{"aturan_cosinus"},
		Params: []Param{
			{Name: "find", Label: "Find", Default: FindSide, Choices: []string{FindSide, FindAngle},
				aliases: []string{"cari"}, valueAliases: map[string]string{"sisi": FindSide, "sudut": FindAngle}},
			num("a", "Side a", "5"), num("b", "Side b", "6"),
			only(num("C", "Angle C (°)", "60"), "find="+FindSide),
			only(num("c", "Side c", "7"), "find="+FindAngle),
		},
		compute: func(p expr.Params) (outcome, error) {
			if p.String("find", FindSide) == FindAngle {
				return trigCompute([]string{"a", "b", "c"}, trig.CosineAngle)(p)
			}
			return trigCompute([]string{"a", "b", "C"}, trig.CosineSide)(p)
		},
	})
	register(&Operation{
		Name: "area", Module: ModuleTrig, Label: "Triangle area",
		Aliases: []string{"luas_segitiga"},
		Params:  []Param{num("a", "Side a", "5"), num("b", "Side b", "6"), num("C", "Angle C (°)", "30")},
		compute: trigCompute([]string{"a", "b", "C"}, trig.Area),
	})
	register(&Operation{
		Name: "triangle", Module: ModuleTrig, Label: "Solve from three sides",
		Aliases: []string{"sss"},
		Params:  []Param{num("a", "Side a", "3"), num("b", "Side b", "4"), num("c", "Side c", "5")},
		compute: trigCompute([]string{"a", "b", "c"}, trig.FromSides),
	})
}

func num(name, label, def string) Param {
	return Param{Name: name, Label: label, Default: def}
}

func only(p Param, cond string) Param {
	p.Only = cond
	return p
}

func prefilled(p Param, v string) Param {
	p.Prefill = v
	return p
}

// Missing coordinates default to 0; the form starts at P(2, 3).
func pointParams() []Param {
	return []Param{
		prefilled(num("px", "Point x", "0"), "2"),
		prefilled(num("py", "Point y", "0"), "3"),
	}
}

func shiftParams() []Param {
	return []Param{
		prefilled(num("tx", "Vector x", "0"), "1"),
		prefilled(num("ty", "Vector y", "0"), "2"),
	}
}

func reflectParam() Param {
	choices := make([]string, len(geom.ReflectModes))
	for i, m := range geom.ReflectModes {
		choices[i] = string(m)
	}
	return Param{Name: "mode", Label: "Reflect about", Default: string(geom.DefaultReflect), Choices: choices}
}

func point(p expr.Params, kx, ky string) (geom.Point, error) {
	x, err := p.Float(kx, "0")
	if err != nil {
		return geom.Point{}, err
	}
	y, err := p.Float(ky, "0")
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Point{X: x, Y: y}, nil
}

func pointAndShift(p expr.Params) (pt, t geom.Point, err error) {
	if pt, err = point(p, "px", "py"); err != nil {
		return
	}
	t, err = point(p, "tx", "ty")
	return
}

func geoOutcome(r geom.Result, withMatrix bool, status string) outcome {
	o := outcome{
		Result: []string{"P'" + r.Point.String()},
		Steps:  explain.Numbered(r.Steps),
		Status: status,
	}
	if withMatrix && r.Matrix != nil {
		o.Matrix = "Matrix: " + explain.LaTeX(r.Matrix)
	}
	return o
}

func computeInverse(p expr.Params) (outcome, error) {
	kind, err := geom.ParseInverseKind(p.String("inv_type", string(geom.InverseRotation)))
	if err != nil {
		return outcome{}, err
	}
	param, err := p.Float("param", "90")
	if err != nil {
		return outcome{}, err
	}
	r, err := geom.Inverse(kind, param)
	if errors.Is(err, errors.ErrCodeSingularMatrix) {
		return outcome{Error: errors.Display(err), Steps: explain.Numbered(r.Steps)}, nil
	}
	if err != nil {
		return outcome{}, err
	}
	return outcome{
		Result: []string{"Inverse matrix found"},
		Matrix: "$$M^{-1} = " + explain.LaTeX(r.Matrix) + "$$",
		Steps:  explain.Numbered(r.Steps),
		Status: "✓ Computation successful",
	}, nil
}

// trigCompute evaluates the three named fields and passes them to solve.
func trigCompute(fields []string, solve func(x, y, z float64) (trig.Report, error)) func(expr.Params) (outcome, error) {
	return func(p expr.Params) (outcome, error) {
		var v [3]float64
		for i, f := range fields {
			x, err := p.Float(f, "")
			if err != nil {
				return outcome{}, err
			}
			v[i] = x
		}
		rep, err := solve(v[0], v[1], v[2])
		if err != nil {
			return outcome{}, err
		}
		return outcome{
			Result:    rep.Results,
			Steps:     rep.Steps,
			Status:    rep.Status,
			Warning:   rep.Warning,
			Solutions: rep.Solutions,
		}, nil
	}
}
