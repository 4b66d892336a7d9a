package quantum_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goquantum/quantum"
	"github.com/njchilds90/goquantum/quantum/cartesian"
	"github.com/njchilds90/goquantum/quantum/spin"
	"github.com/njchilds90/goquantum/symbol"
)

func roundTrip(t *testing.T, e quantum.Expr) quantum.Expr {
	t.Helper()
	raw, err := json.Marshal(quantum.ToJSON(e))
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	out, err := quantum.FromJSON(m)
	require.NoError(t, err)
	return out
}

func TestJSON_RoundTrip(t *testing.T) {
	ip, err := quantum.NewInnerProduct(cartesian.NewXBra("y"), cartesian.NewXKet("x"))
	require.NoError(t, err)

	cases := []quantum.Expr{
		quantum.NewMul(cartesian.NewXBra("y"), cartesian.NewXOp(), cartesian.NewXKet("x")),
		quantum.NewMul(quantum.NewScalar(symbol.MulOf(symbol.I, symbol.Hbar)), spin.Sz()),
		quantum.NewAdd(spin.Sx(), spin.Sz()),
		quantum.NewPow(spin.Sz(), symbol.N(3)),
		quantum.NewTensorProduct(spin.NewKet(spin.Up), spin.NewKet(spin.Down)),
		quantum.NewDagger(quantum.NewMul(spin.Sx(), spin.Sy())),
		quantum.NewCommutator(spin.Sx(), spin.Sy()),
		quantum.NewAntiCommutator(spin.Sx(), spin.Sy()),
		ip,
		quantum.KetKind.New("n", "l"),
	}
	for _, e := range cases {
		t.Run(e.String(), func(t *testing.T) {
			got := roundTrip(t, e)
			assert.Equal(t, e.String(), got.String())
			assert.Equal(t, quantum.KindOf(e), quantum.KindOf(got))
		})
	}
}

func TestFromJSON_Errors(t *testing.T) {
	cases := []map[string]interface{}{
		nil,
		{},
		{"type": "object", "kind": "NoSuchKind"},
		{"type": "mul", "args": []interface{}{}},
		{"type": "pow", "base": map[string]interface{}{"type": "object", "kind": "SzOp"}},
		{"type": "innerproduct",
			"bra": map[string]interface{}{"type": "object", "kind": "XKet", "label": "x"},
			"ket": map[string]interface{}{"type": "object", "kind": "XKet", "label": "x"}},
		{"type": "teleport"},
	}
	for _, c := range cases {
		_, err := quantum.FromJSON(c)
		assert.Error(t, err, "%v", c)
	}
}

func TestBasisFromJSON(t *testing.T) {
	b, err := quantum.BasisFromJSON("PxKet")
	require.NoError(t, err)
	assert.Equal(t, cartesian.PxKetKind, b)

	b, err = quantum.BasisFromJSON(map[string]interface{}{"kind": "XOp"})
	require.NoError(t, err)
	assert.Equal(t, cartesian.XOpKind, b)

	b, err = quantum.BasisFromJSON(map[string]interface{}{"type": "object", "kind": "PxKet", "label": "k"})
	require.NoError(t, err)
	obj, ok := b.(quantum.Object)
	require.True(t, ok)
	assert.Equal(t, []string{"k"}, obj.Labels())

	b, err = quantum.BasisFromJSON(nil)
	require.NoError(t, err)
	assert.Nil(t, b)

	_, err = quantum.BasisFromJSON(42.0)
	assert.Error(t, err)
	_, err = quantum.BasisFromJSON("Nope")
	assert.Error(t, err)
}

func TestValueToJSON(t *testing.T) {
	v := represent(t, spin.Sx(), quantum.Options{Format: quantum.FormatSparse})
	m := quantum.ValueToJSON(v)
	assert.Equal(t, "sparse", m["type"])
	assert.Len(t, m["entries"], 2)

	d := quantum.ValueToJSON(represent(t, spin.Sz(), quantum.Options{Format: quantum.FormatDense}))
	assert.Equal(t, "dense", d["type"])

	s := quantum.ValueToJSON(represent(t, spin.Sz(), quantum.Options{}))
	assert.Equal(t, "matrix", s["type"])

	e := quantum.ValueToJSON(represent(t, cartesian.NewXKet("x"), quantum.Options{}))
	assert.Equal(t, "expr", e["type"])
	assert.Equal(t, "DiracDelta(x + -1*x_1)", e["string"])

	_, err := json.Marshal(m)
	assert.NoError(t, err)
}
