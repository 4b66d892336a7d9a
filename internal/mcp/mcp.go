// Package mcp exposes the quantum representation engine as JSON tool calls
// for agent frameworks.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/njchilds90/goquantum/quantum"
	"github.com/njchilds90/goquantum/symbol"

	// Register the concrete systems with the kind registry.
	_ "github.com/njchilds90/goquantum/quantum/cartesian"
	_ "github.com/njchilds90/goquantum/quantum/spin"
)

// ============================================================
// Requests and responses
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

var ErrUnknownTool = errors.New("mcp: unknown tool")

// Handler answers tool calls. The zero value is usable.
type Handler struct {
	// Format is used by calls that do not name one.
	Format string
	Logger *slog.Logger
}

var tracer = otel.Tracer("github.com/njchilds90/goquantum/internal/mcp")

// HandleToolCall answers req with a zero Handler.
func HandleToolCall(ctx context.Context, req ToolRequest) ToolResponse {
	return (&Handler{}).Handle(ctx, req)
}

// Handle runs one tool call in its own span. Each call represents against a
// fresh quantum.Context.
func (h *Handler) Handle(ctx context.Context, req ToolRequest) ToolResponse {
	ctx, span := tracer.Start(ctx, "mcp."+req.Tool,
		trace.WithAttributes(attribute.String("mcp.tool", req.Tool)))
	defer span.End()

	resp, err := h.call(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "tool call failed")
		h.logger().DebugContext(ctx, "tool call failed", "tool", req.Tool, "error", err)
		return ToolResponse{Error: err.Error()}
	}
	span.SetStatus(codes.Ok, "")
	return resp
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// ============================================================
// Dispatch
// ============================================================

func (h *Handler) call(ctx context.Context, req ToolRequest) (ToolResponse, error) {
	p := params(req.Params)
	h.logger().DebugContext(ctx, "tool call", "tool", req.Tool, "params", len(p))

	options := func() (quantum.Options, error) {
		format := h.Format
		if s, ok := p["format"].(string); ok {
			format = s
		}
		f, err := quantum.ParseFormat(format)
		if err != nil {
			return quantum.Options{}, err
		}
		basis, err := quantum.BasisFromJSON(p["basis"])
		if err != nil {
			return quantum.Options{}, err
		}
		extra, _ := p["options"].(map[string]interface{})
		logger := h.logger().With("tool", req.Tool)
		return quantum.Options{Format: f, Basis: basis, Extra: extra, Logger: logger}, nil
	}

	switch req.Tool {
	case "represent":
		e, err := p.expr("expr")
		if err != nil {
			return ToolResponse{}, err
		}
		opts, err := options()
		if err != nil {
			return ToolResponse{}, err
		}
		v, err := quantum.Represent(e, opts)
		if err != nil {
			return ToolResponse{}, err
		}
		return respondValue(v), nil

	case "get_basis":
		e, err := p.expr("expr")
		if err != nil {
			return ToolResponse{}, err
		}
		spec, err := quantum.BasisFromJSON(p["basis"])
		if err != nil {
			return ToolResponse{}, err
		}
		b := quantum.GetBasis(e, spec)
		if b == nil {
			return ToolResponse{}, fmt.Errorf("%w for %s", quantum.ErrBasisUnresolved, e)
		}
		return respondExpr(b), nil

	case "enumerate_states":
		e, err := p.expr("state")
		if err != nil {
			return ToolResponse{}, err
		}
		var states []quantum.Object
		if _, ok := p["positions"]; ok {
			positions, err := p.ints("positions")
			if err != nil {
				return ToolResponse{}, err
			}
			states, err = quantum.EnumerateStates(e, positions)
			if err != nil {
				return ToolResponse{}, err
			}
		} else {
			start, err := p.intOr("start", 1)
			if err != nil {
				return ToolResponse{}, err
			}
			count, err := p.intOr("count", 1)
			if err != nil {
				return ToolResponse{}, err
			}
			states, err = quantum.EnumerateRange(e, start, count)
			if err != nil {
				return ToolResponse{}, err
			}
		}
		out := make([]interface{}, len(states))
		names := make([]string, len(states))
		for i, s := range states {
			out[i] = quantum.ToJSON(s)
			names[i] = s.String()
		}
		return ToolResponse{Result: out, String: fmt.Sprint(names)}, nil

	case "rep_innerproduct", "rep_expectation":
		e, err := p.expr("expr")
		if err != nil {
			return ToolResponse{}, err
		}
		opts, err := options()
		if err != nil {
			return ToolResponse{}, err
		}
		qctx := quantum.NewContext(opts)
		if start, ok := p["index"]; ok {
			n, err := asInt("index", start)
			if err != nil {
				return ToolResponse{}, err
			}
			qctx.SetIndex(n)
		}
		rep := quantum.RepInnerProduct
		if req.Tool == "rep_expectation" {
			rep = quantum.RepExpectation
		}
		v, err := rep(e, opts.Basis, qctx)
		if err != nil {
			return ToolResponse{}, err
		}
		return respondValue(v), nil

	case "collapse_deltas":
		raw, ok := p["expr"].(map[string]interface{})
		if !ok {
			return ToolResponse{}, fmt.Errorf("missing param: expr")
		}
		e, err := symbol.FromJSON(raw)
		if err != nil {
			return ToolResponse{}, err
		}
		unities, err := p.ints("unities")
		if err != nil {
			return ToolResponse{}, err
		}
		basis, err := quantum.BasisFromJSON(p["basis"])
		if err != nil {
			return ToolResponse{}, err
		}
		out, err := quantum.CollapseDeltas(e, unities, basis)
		if err != nil {
			return ToolResponse{}, err
		}
		return respondValue(out), nil

	case "apply":
		e, err := p.expr("expr")
		if err != nil {
			return ToolResponse{}, err
		}
		return respondExpr(quantum.Apply(e)), nil

	case "kinds":
		kinds := quantum.Kinds()
		out := make([]interface{}, len(kinds))
		names := make([]string, len(kinds))
		for i, k := range kinds {
			entry := map[string]interface{}{
				"name":     k.Name(),
				"class":    k.Class().String(),
				"defaults": k.DefaultLabels(),
			}
			if d := k.Dual(); d != nil {
				entry["dual"] = d.Name()
			}
			if s := quantum.OperatorToState(k); s != nil {
				entry["eigenstates"] = s.Name()
			}
			out[i] = entry
			names[i] = k.Name()
		}
		return ToolResponse{Result: out, String: fmt.Sprint(names)}, nil

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec(), String: "MCP tool specification"}, nil
	}

	return ToolResponse{}, fmt.Errorf("%w: %s", ErrUnknownTool, req.Tool)
}

func respondValue(v quantum.Value) ToolResponse {
	return ToolResponse{
		Result: quantum.ValueToJSON(v),
		LaTeX:  quantum.ValueLaTeX(v),
		String: quantum.ValueString(v),
	}
}

func respondExpr(e quantum.Expr) ToolResponse {
	return ToolResponse{Result: quantum.ToJSON(e), String: e.String()}
}

// ============================================================
// Parameter access
// ============================================================

type params map[string]interface{}

func (p params) expr(key string) (quantum.Expr, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid type for param %s", key)
	}
	return quantum.FromJSON(m)
}

func (p params) ints(key string) ([]int, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("param %s must be array", key)
	}
	out := make([]int, len(raw))
	for i, r := range raw {
		n, err := asInt(fmt.Sprintf("%s[%d]", key, i), r)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func (p params) intOr(key string, fallback int) (int, error) {
	v, ok := p[key]
	if !ok {
		return fallback, nil
	}
	return asInt(key, v)
}

func asInt(key string, v interface{}) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("param %s must be an integer", key)
		}
		return int(n), nil
	case int:
		return n, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("param %s must be an integer", key)
		}
		return int(i), nil
	}
	return 0, fmt.Errorf("param %s must be an integer", key)
}

// ============================================================
// Tool schema
// ============================================================

func MCPToolSpec() string {
	spec := map[string]interface{}{"tools": toolSpecs()}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

// ToolNames lists the tools HandleToolCall answers, in schema order.
func ToolNames() []string {
	specs := toolSpecs()
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s["name"].(string)
	}
	return names
}

func toolSpecs() []map[string]interface{} {
	return []map[string]interface{}{
		ts("represent", "Represent a quantum expression in a basis. Optional: format (symbolic|dense|sparse), basis (kind name or state/operator object), options (object)", []string{"expr"}, map[string]string{"expr": "object", "format": "string", "basis": "object", "options": "object"}),
		ts("get_basis", "Resolve a basis specifier to a default basis state for expr", []string{"expr"}, map[string]string{"expr": "object", "basis": "object"}),
		ts("enumerate_states", "Indexed copies of a state. Either positions (int[]) or start and count", []string{"state"}, map[string]string{"state": "object", "positions": "array", "start": "integer", "count": "integer"}),
		ts("rep_innerproduct", "Overlap of a state with a basis state, <x_i|psi>", []string{"expr"}, map[string]string{"expr": "object", "basis": "object", "format": "string", "index": "integer"}),
		ts("rep_expectation", "Matrix element <x_i|A|x_j> of a Hermitian operator", []string{"expr"}, map[string]string{"expr": "object", "basis": "object", "format": "string", "index": "integer"}),
		ts("collapse_deltas", "Substitute away dummy coordinates fixed by DiracDelta factors", []string{"expr", "unities", "basis"}, map[string]string{"expr": "object", "unities": "array", "basis": "object"}),
		ts("apply", "Apply operators to kets and evaluate bra-ket pairs", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("kinds", "List registered state and operator kinds", []string{}, map[string]string{}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
