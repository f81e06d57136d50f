package onnx

import "fmt"

// CheckSSA verifies that g is a single-assignment chain: every name is
// defined once (graph input, initializer or node output) and every node
// input and graph output refers to a name defined before it.
func CheckSSA(g *GraphProto) error {
	if g == nil {
		return ErrNoGraph
	}

	defined := make(map[string]string)
	define := func(name, by string) error {
		if prev, ok := defined[name]; ok {
			return fmt.Errorf("%w: %q by %s and %s", ErrDuplicateName, name, prev, by)
		}
		defined[name] = by
		return nil
	}

	for i := range g.Inputs {
		if err := define(g.Inputs[i].Name, "graph input"); err != nil {
			return err
		}
	}
	for i := range g.Initializers {
		if err := define(g.Initializers[i].Name, "initializer"); err != nil {
			return err
		}
	}
	for i := range g.Nodes {
		node := &g.Nodes[i]
		for _, in := range node.Inputs {
			if in == "" {
				continue // omitted optional input
			}
			if _, ok := defined[in]; !ok {
				return fmt.Errorf("%w: node %d (%s) reads %q", ErrForwardReference, i, node.OpType, in)
			}
		}
		for _, out := range node.Outputs {
			if err := define(out, fmt.Sprintf("node %d (%s)", i, node.OpType)); err != nil {
				return err
			}
		}
	}
	for i := range g.Outputs {
		if _, ok := defined[g.Outputs[i].Name]; !ok {
			return fmt.Errorf("%w: graph output %q", ErrForwardReference, g.Outputs[i].Name)
		}
	}

	return nil
}
