package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/njchilds90/goquantum/internal/mcp"
	"github.com/njchilds90/goquantum/quantum"
	"github.com/njchilds90/goquantum/quantum/cartesian"
	"github.com/njchilds90/goquantum/quantum/spin"
	"github.com/njchilds90/goquantum/symbol"
)

// call sends params through a JSON round trip, as the HTTP server does.
func call(t *testing.T, tool string, params map[string]interface{}) mcp.ToolResponse {
	t.Helper()
	raw, err := json.Marshal(mcp.ToolRequest{Tool: tool, Params: params})
	require.NoError(t, err)
	var req mcp.ToolRequest
	require.NoError(t, json.Unmarshal(raw, &req))
	return mcp.HandleToolCall(context.Background(), req)
}

func ok(t *testing.T, resp mcp.ToolResponse) mcp.ToolResponse {
	t.Helper()
	require.Empty(t, resp.Error)
	return resp
}

func obj(kind, label string) map[string]interface{} {
	return map[string]interface{}{"type": "object", "kind": kind, "label": label}
}

// ============================================================
// represent
// ============================================================

func TestRepresent_PositionKet(t *testing.T) {
	resp := ok(t, call(t, "represent", map[string]interface{}{"expr": obj("XKet", "x")}))
	assert.Equal(t, "DiracDelta(x + -1*x_1)", resp.String)
	assert.NotEmpty(t, resp.LaTeX)
	result := resp.Result.(map[string]interface{})
	assert.Equal(t, "expr", result["type"])
}

func TestRepresent_FormatsAndBasis(t *testing.T) {
	resp := ok(t, call(t, "represent", map[string]interface{}{
		"expr":   quantum.ToJSON(spin.Sx()),
		"format": "numpy",
		"basis":  "SzOp",
	}))
	assert.Equal(t, "dense", resp.Result.(map[string]interface{})["type"])

	resp = ok(t, call(t, "represent", map[string]interface{}{
		"expr":  quantum.ToJSON(cartesian.NewXOp()),
		"basis": map[string]interface{}{"kind": "PxKet"},
	}))
	assert.Contains(t, resp.String, "DiracDelta")
}

func TestRepresent_HandlerDefaultFormat(t *testing.T) {
	h := &mcp.Handler{Format: "sparse"}
	resp := h.Handle(context.Background(), mcp.ToolRequest{
		Tool:   "represent",
		Params: map[string]interface{}{"expr": quantum.ToJSON(spin.Sz())},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "sparse", resp.Result.(map[string]interface{})["type"])
}

func TestRepresent_Errors(t *testing.T) {
	cases := map[string]struct {
		params map[string]interface{}
		want   string
	}{
		"missing expr":   {map[string]interface{}{}, "missing param: expr"},
		"expr not obj":   {map[string]interface{}{"expr": "X"}, "invalid type"},
		"unknown format": {map[string]interface{}{"expr": obj("XKet", "x"), "format": "csv"}, "unknown format"},
		"unknown basis":  {map[string]interface{}{"expr": obj("XKet", "x"), "basis": "Nope"}, "unknown kind"},
		"no fallback": {
			map[string]interface{}{"expr": map[string]interface{}{"type": "object", "kind": "HermitianOperator", "label": "H"}},
			"fallback",
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			resp := call(t, "represent", c.params)
			assert.Contains(t, resp.Error, c.want)
			assert.Nil(t, resp.Result)
		})
	}
}

// ============================================================
// Basis tools
// ============================================================

func TestGetBasis(t *testing.T) {
	resp := ok(t, call(t, "get_basis", map[string]interface{}{"expr": quantum.ToJSON(cartesian.NewXOp())}))
	assert.Equal(t, "|x>", resp.String)

	resp = ok(t, call(t, "get_basis", map[string]interface{}{
		"expr":  obj("XKet", "q"),
		"basis": "PxOp",
	}))
	assert.Equal(t, "|px>", resp.String)

	resp = call(t, "get_basis", map[string]interface{}{"expr": quantum.ToJSON(spin.Sx())})
	assert.Contains(t, resp.Error, "basis could not be resolved")
}

func TestEnumerateStates(t *testing.T) {
	resp := ok(t, call(t, "enumerate_states", map[string]interface{}{
		"state":     obj("XKet", "x"),
		"positions": []int{1, 2},
	}))
	assert.Equal(t, "[|x_1> |x_2>]", resp.String)
	assert.Len(t, resp.Result, 2)

	resp = ok(t, call(t, "enumerate_states", map[string]interface{}{
		"state": obj("PxBra", "p"),
		"start": 3,
		"count": 2,
	}))
	assert.Equal(t, "[<p_3| <p_4|]", resp.String)

	resp = call(t, "enumerate_states", map[string]interface{}{
		"state":     obj("XKet", "x"),
		"positions": []float64{1.5},
	})
	assert.Contains(t, resp.Error, "must be an integer")

	resp = call(t, "enumerate_states", map[string]interface{}{"state": quantum.ToJSON(cartesian.NewXOp())})
	assert.Contains(t, resp.Error, "type mismatch")
}

func TestRepInnerProduct(t *testing.T) {
	resp := ok(t, call(t, "rep_innerproduct", map[string]interface{}{"expr": obj("XKet", "x")}))
	assert.Equal(t, "DiracDelta(x + -1*x_1)", resp.String)

	resp = ok(t, call(t, "rep_innerproduct", map[string]interface{}{"expr": obj("XKet", "x"), "index": 3}))
	assert.Equal(t, "DiracDelta(x + -1*x_3)", resp.String)

	resp = call(t, "rep_innerproduct", map[string]interface{}{"expr": quantum.ToJSON(cartesian.NewXOp())})
	assert.Contains(t, resp.Error, "type mismatch")
}

func TestRepExpectation(t *testing.T) {
	resp := ok(t, call(t, "rep_expectation", map[string]interface{}{"expr": quantum.ToJSON(cartesian.NewXOp())}))
	x1, x2 := symbol.S("x_1"), symbol.S("x_2")
	want := symbol.MulOf(x1, symbol.DiracDeltaOf(symbol.SubOf(x1, x2)))
	assert.Equal(t, want.String(), resp.String)

	resp = call(t, "rep_expectation", map[string]interface{}{
		"expr":  quantum.ToJSON(cartesian.NewXOp()),
		"basis": "PxKet",
	})
	assert.Contains(t, resp.Error, "declined")
}

// ============================================================
// collapse_deltas and apply
// ============================================================

func TestCollapseDeltas(t *testing.T) {
	x, x1, x2 := symbol.S("x"), symbol.S("x_1"), symbol.S("x_2")
	delta := func(a, b symbol.Expr) symbol.Expr { return symbol.DiracDeltaOf(symbol.SubOf(a, b)) }
	e := symbol.MulOf(x1, delta(x1, x2), delta(x, x1))

	resp := ok(t, call(t, "collapse_deltas", map[string]interface{}{
		"expr":    symbol.ToMap(e),
		"unities": []int{1},
		"basis":   "XKet",
	}))
	assert.Equal(t, symbol.MulOf(x, delta(x, x2)).String(), resp.String)

	resp = call(t, "collapse_deltas", map[string]interface{}{
		"expr":    symbol.ToMap(e),
		"unities": []int{1},
	})
	assert.Contains(t, resp.Error, "basis could not be resolved")
}

func TestApply(t *testing.T) {
	up := spin.NewKet(spin.Up)
	resp := ok(t, call(t, "apply", map[string]interface{}{
		"expr": quantum.ToJSON(quantum.NewMul(quantum.Dual(up), spin.Sz(), up)),
	}))
	assert.Equal(t, "scalar", resp.Result.(map[string]interface{})["type"])

	resp = ok(t, call(t, "apply", map[string]interface{}{
		"expr": quantum.ToJSON(quantum.NewMul(cartesian.NewXOp(), cartesian.NewXKet("a"))),
	}))
	assert.Equal(t, "a*|a>", resp.String)
}

// ============================================================
// Registry and schema
// ============================================================

func TestKinds(t *testing.T) {
	resp := ok(t, call(t, "kinds", nil))
	byName := map[string]map[string]interface{}{}
	for _, e := range resp.Result.([]interface{}) {
		m := e.(map[string]interface{})
		byName[m["name"].(string)] = m
	}
	require.Contains(t, byName, "XKet")
	assert.Equal(t, "XBra", byName["XKet"]["dual"])
	assert.Equal(t, "XKet", byName["XOp"]["eigenstates"])
	assert.NotContains(t, byName["SxOp"], "eigenstates")
}

func TestMCPToolSpec(t *testing.T) {
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(mcp.MCPToolSpec()), &spec))
	names := make([]string, len(spec.Tools))
	for i, tool := range spec.Tools {
		names[i] = tool.Name
	}
	for _, want := range []string{"represent", "get_basis", "enumerate_states", "rep_innerproduct",
		"rep_expectation", "collapse_deltas", "apply", "kinds", "mcp_spec"} {
		assert.Contains(t, names, want)
	}

	resp := ok(t, call(t, "mcp_spec", nil))
	assert.Equal(t, mcp.MCPToolSpec(), resp.Result)
}

func TestUnknownTool(t *testing.T) {
	resp := call(t, "teleport", nil)
	assert.Contains(t, resp.Error, "unknown tool: teleport")
}

func TestSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	call(t, "kinds", nil)
	call(t, "teleport", nil)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "mcp.kinds", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, "mcp.teleport", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
