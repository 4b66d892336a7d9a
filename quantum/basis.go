package quantum

import "sync"

// ============================================================
// Operator <-> state mapping
// ============================================================

var mapping = struct {
	sync.RWMutex
	opToState map[*Kind]*Kind
	stateToOp map[*Kind]*Kind
}{opToState: map[*Kind]*Kind{}, stateToOp: map[*Kind]*Kind{}}

// RegisterMapping records that the eigenstates of operator kind op are the
// ket kind state.
func RegisterMapping(op, state *Kind) {
	if state.IsBra() {
		state = state.Dual()
	}
	mapping.Lock()
	defer mapping.Unlock()
	mapping.opToState[op] = state
	mapping.stateToOp[state] = op
}

// OperatorToState returns the ket kind of an operator basis, or nil.
func OperatorToState(b Basis) *Kind {
	if b == nil {
		return nil
	}
	mapping.RLock()
	defer mapping.RUnlock()
	return mapping.opToState[b.basisKind()]
}

// StateToOperator returns the operator kind whose eigenstates are b, or nil.
// Bras map through their dual.
func StateToOperator(b Basis) *Kind {
	if b == nil {
		return nil
	}
	k := b.basisKind()
	if k.IsBra() {
		k = k.Dual()
	}
	mapping.RLock()
	defer mapping.RUnlock()
	return mapping.stateToOp[k]
}

// ============================================================
// BasisResolver
// ============================================================

// GetBasis resolves a basis specifier to a state instance. Without a
// specifier a state resolves to the default instance of its own kind and an
// operator to the default instance of its mapped state kind. A state
// instance is returned unchanged, a state kind yields its default instance
// and an operator (instance or kind) goes through the mapping. Anything that
// cannot be resolved yields nil.
func GetBasis(expr Expr, spec Basis) Object {
	if spec == nil {
		obj, ok := expr.(Object)
		if !ok {
			return nil
		}
		return stateFor(obj.Kind())
	}
	if obj, ok := spec.(Object); ok && obj.Kind().IsState() {
		return obj
	}
	return stateFor(spec.basisKind())
}

func stateFor(k *Kind) Object {
	if k == nil {
		return nil
	}
	if k.IsState() {
		return k.Default()
	}
	if sk := OperatorToState(k); sk != nil {
		return sk.Default()
	}
	return nil
}

// ResolveKind is the kind GetBasis would resolve spec to for leaf, with bra
// kinds replaced by their kets. Leaf rules switch on it.
func ResolveKind(leaf Expr, spec Basis) *Kind {
	b := GetBasis(leaf, spec)
	if b == nil {
		return nil
	}
	k := b.Kind()
	if k.IsBra() {
		return k.Dual()
	}
	return k
}
