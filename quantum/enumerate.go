package quantum

import (
	"strconv"
)

// EnumerateStates returns one state per position, of the same kind as
// template, with every label suffixed "_<position>".
func EnumerateStates(template Expr, positions []int) ([]Object, error) {
	obj, ok := template.(Object)
	if !ok || !obj.Kind().IsState() {
		return nil, &ValueError{Op: "enumerate", Value: template.String(), Err: ErrTypeMismatch}
	}
	labels := obj.Labels()
	out := make([]Object, len(positions))
	for i, pos := range positions {
		suffixed := make([]string, len(labels))
		for j, l := range labels {
			suffixed[j] = l + "_" + strconv.Itoa(pos)
		}
		out[i] = obj.Kind().New(suffixed...)
	}
	return out, nil
}

// EnumerateRange enumerates count states at start, start+1, ...
func EnumerateRange(template Expr, start, count int) ([]Object, error) {
	positions := make([]int, 0, max(count, 0))
	for i := 0; i < count; i++ {
		positions = append(positions, start+i)
	}
	return EnumerateStates(template, positions)
}
