// Package main provides the weightgraph CLI.
//
// weightgraph serializes a reference network to a descriptor and weight
// container, exports the pair as an ONNX graph, and runs or inspects the
// result.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
