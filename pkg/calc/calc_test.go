package calc

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/geotrig/pkg/errors"
)

func TestRequestUnmarshal(t *testing.T) {
	var req Request
	body := `{"module":"geo","operation":"rotasi","px":2,"py":"3","angle":90.5,"cy":null,"flag":true}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatal(err)
	}
	if req.Module != "geo" || req.Operation != "rotasi" {
		t.Errorf("module/op = %s/%s", req.Module, req.Operation)
	}
	want := map[string]string{"px": "2", "py": "3", "angle": "90.5", "flag": "true"}
	if len(req.Params) != len(want) {
		t.Fatalf("params = %v, want %v", req.Params, want)
	}
	for k, v := range want {
		if req.Params[k] != v {
			t.Errorf("params[%s] = %q, want %q", k, req.Params[k], v)
		}
	}

	if err := json.Unmarshal([]byte(`{"operation":"area","a":[1,2]}`), &req); err == nil {
		t.Error("array parameter should be rejected")
	}
	if err := json.Unmarshal([]byte(`[1]`), &req); err == nil {
		t.Error("non-object body should be rejected")
	}
}

func TestRequestMarshalRoundTrip(t *testing.T) {
	in := Request{Module: "trig", Operation: "area", Params: map[string]string{"a": "5"}}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Request
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Module != "trig" || out.Operation != "area" || out.Params["a"] != "5" {
		t.Errorf("round trip = %+v", out)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		module, name string
		want         string
		code         errors.Code
	}{
		{"geo", "rotate", "rotate", ""},
		{"geo", "rotasi", "rotate", ""},
		{"", "luas_segitiga", "area", ""},
		{"trig", "aturan_cosinus", "law_of_cosines", ""},
		{"trig", "rotate", "", errors.ErrCodeInvalidOperation},
		{"geo", "nope", "", errors.ErrCodeInvalidOperation},
		{"algebra", "rotate", "", errors.ErrCodeInvalidModule},
	}
	for _, tt := range tests {
		op, err := Lookup(tt.module, tt.name)
		if tt.code != "" {
			if !errors.Is(err, tt.code) {
				t.Errorf("Lookup(%s, %s) err = %v, want %s", tt.module, tt.name, err, tt.code)
			}
			continue
		}
		if err != nil {
			t.Errorf("Lookup(%s, %s): %v", tt.module, tt.name, err)
			continue
		}
		if op.Name != tt.want {
			t.Errorf("Lookup(%s, %s) = %s, want %s", tt.module, tt.name, op.Name, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	op, _ := Lookup("trig", "law_of_cosines")

	p, err := op.Normalize(map[string]string{"cari": "sudut", "a": " 3 ", "junk": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if p["find"] != FindAngle {
		t.Errorf("find = %q, want %q", p["find"], FindAngle)
	}
	if p["a"] != "3" || p["b"] != "6" || p["c"] != "7" {
		t.Errorf("params = %v", p)
	}
	if _, ok := p["junk"]; ok {
		t.Error("unknown fields should be dropped")
	}

	if _, err := op.Normalize(map[string]string{"find": "perimeter"}); !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("bad choice err = %v, want INVALID_MODE", err)
	}

	// A canonical name wins over its alias
	p, _ = op.Normalize(map[string]string{"find": "side", "cari": "sudut"})
	if p["find"] != FindSide {
		t.Errorf("find = %q, want side", p["find"])
	}
}

func TestOperationsRegistry(t *testing.T) {
	ops := Operations()
	if len(ops) != 11 {
		t.Fatalf("registered %d operations, want 11", len(ops))
	}
	seen := map[string]bool{}
	for _, op := range ops {
		if seen[op.Name] {
			t.Errorf("duplicate operation %s", op.Name)
		}
		seen[op.Name] = true
		if op.Module != ModuleGeo && op.Module != ModuleTrig {
			t.Errorf("%s has module %q", op.Name, op.Module)
		}
		if op.compute == nil {
			t.Errorf("%s has no compute func", op.Name)
		}
		for _, p := range op.Params {
			if p.Default == "" {
				t.Errorf("%s.%s has no default", op.Name, p.Name)
			}
		}
	}

	// Operations returns a copy
	ops[0] = nil
	if Operations()[0] == nil {
		t.Error("Operations should not expose the registry slice")
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantError string
		wantColor string
	}{
		{"unknown op", errors.New(errors.ErrCodeInvalidOperation, "unknown operation"), "invalid operation", ""},
		{"unknown module", errors.New(errors.ErrCodeInvalidModule, "unknown module"), "invalid operation", ""},
		{"bad input", errors.New(errors.ErrCodeInvalidExpression, "field px: cannot evaluate"), "Input error: field px: cannot evaluate", ErrorColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ErrorResponse(tt.err)
			if resp.Error != tt.wantError || resp.Color != tt.wantColor {
				t.Errorf("ErrorResponse = %q/%q, want %q/%q", resp.Error, resp.Color, tt.wantError, tt.wantColor)
			}
		})
	}
}

func TestOptionsValidate(t *testing.T) {
	var o Options
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	if o.Format != "png" || o.Width != 6 || o.Height != 4.5 {
		t.Errorf("defaults = %+v", o)
	}
	o = Options{Format: "gif"}
	if err := o.Validate(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Validate(gif) = %v", err)
	}
}

func TestResponseJSONShape(t *testing.T) {
	resp := Response{Result: []string{"P'(3, 5)"}, Status: "✓ Translation complete", StatusClass: StatusSuccess}
	data, _ := json.Marshal(resp)
	s := string(data)
	for _, absent := range []string{"error", "images", "matrix", "color"} {
		if strings.Contains(s, `"`+absent+`"`) {
			t.Errorf("%s should be omitted: %s", absent, s)
		}
	}
}
