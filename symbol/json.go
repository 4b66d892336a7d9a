package symbol

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ============================================================
// JSON Serialization
// ============================================================

func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// ToMap returns the wire form of e as a generic JSON object.
func ToMap(e Expr) map[string]interface{} { return e.toJSON() }

// MatrixToMap returns the wire form of a matrix: {"type":"matrix","rows":[[...]]}.
func MatrixToMap(m *Matrix) map[string]interface{} {
	rows := make([][]map[string]interface{}, m.rows)
	for i := range rows {
		rows[i] = make([]map[string]interface{}, m.cols)
		for j := range rows[i] {
			rows[i][j] = m.data[i][j].toJSON()
		}
	}
	return map[string]interface{}{"type": "matrix", "rows": rows}
}

func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	subObj := func(field string) (map[string]interface{}, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an object", typ, field)
		}
		return m, nil
	}

	subExpr := func(field string) (Expr, error) {
		m, err := subObj(field)
		if err != nil {
			return nil, err
		}
		e, err := FromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return e, nil
	}

	subObjArray := func(field string) ([]map[string]interface{}, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an array", typ, field)
		}
		out := make([]map[string]interface{}, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s: %q[%d] must be an object", typ, field, i)
			}
			out[i] = m
		}
		return out, nil
	}

	subExprArray := func(field string) ([]Expr, error) {
		objs, err := subObjArray(field)
		if err != nil {
			return nil, err
		}
		out := make([]Expr, len(objs))
		for i, o := range objs {
			e, err := FromJSON(o)
			if err != nil {
				return nil, fmt.Errorf("%s: %s[%d]: %w", typ, field, i, err)
			}
			out[i] = e
		}
		return out, nil
	}

	subString := func(field string) (string, error) {
		v, ok := data[field]
		if !ok {
			return "", fmt.Errorf("%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", fmt.Errorf("%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}

	switch typ {
	case "num":
		valAny, ok := data["value"]
		if !ok {
			return nil, fmt.Errorf("num: missing 'value'")
		}
		r := new(big.Rat)
		switch val := valAny.(type) {
		case string:
			if _, ok := r.SetString(val); !ok {
				return nil, fmt.Errorf("invalid num value: %s", val)
			}
		case float64:
			r.SetFloat64(val)
		default:
			return nil, fmt.Errorf("num: 'value' must be a string or number")
		}
		return &Num{val: r}, nil

	case "sym":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		return S(name), nil

	case "const":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		c, ok := ConstNamed(name)
		if !ok {
			return nil, fmt.Errorf("const: unknown constant %q", name)
		}
		return c, nil

	case "imag":
		return I, nil

	case "inf":
		if neg, _ := data["negative"].(bool); neg {
			return NegOo, nil
		}
		return Oo, nil

	case "add":
		terms, err := subExprArray("terms")
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil

	case "mul":
		factors, err := subExprArray("factors")
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil

	case "pow":
		base, err := subExpr("base")
		if err != nil {
			return nil, err
		}
		exp, err := subExpr("exp")
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil

	case "func":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		arg, err := subExpr("arg")
		if err != nil {
			return nil, err
		}
		return funcOf(name, arg).Simplify(), nil

	case "integral":
		v, err := subString("var")
		if err != nil {
			return nil, err
		}
		integrand, err := subExpr("integrand")
		if err != nil {
			return nil, err
		}
		lower, err := subExpr("lower")
		if err != nil {
			return nil, err
		}
		upper, err := subExpr("upper")
		if err != nil {
			return nil, err
		}
		return (&Integral{integrand: integrand, varName: v, lower: lower, upper: upper}).Simplify(), nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}
