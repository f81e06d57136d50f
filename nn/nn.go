// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn builds small sequential networks and saves them as an
// architecture descriptor plus weight container.
//
// Example:
//
//	net := nn.NewSimpleNet(42)
//	if err := net.Save("model_arch.json", "model_weights.bin"); err != nil {
//	    return err
//	}
package nn

import (
	"math/rand/v2"

	internalnn "github.com/born-ml/weightgraph/internal/nn"
)

type (
	// Module is the base interface for all network components.
	Module = internalnn.Module
	// Parameter is a named tensor owned by a module.
	Parameter = internalnn.Parameter
	// Linear implements a fully connected layer: y = x @ W.T + b.
	Linear = internalnn.Linear
	// Activation is a parameter-free elementwise module.
	Activation = internalnn.Activation
	// Sequential chains named modules in registration order.
	Sequential = internalnn.Sequential
)

// NewRand returns a deterministic generator for the given seed.
func NewRand(seed uint64) *rand.Rand { return internalnn.NewRand(seed) }

// NewLinear creates a Linear layer initialized from rng.
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand) *Linear {
	return internalnn.NewLinear(inFeatures, outFeatures, rng)
}

// NewReLU creates a ReLU activation.
func NewReLU() *Activation { return internalnn.NewReLU() }

// NewSigmoid creates a Sigmoid activation.
func NewSigmoid() *Activation { return internalnn.NewSigmoid() }

// NewTanh creates a Tanh activation.
func NewTanh() *Activation { return internalnn.NewTanh() }

// NewSequential creates an empty Sequential container.
func NewSequential() *Sequential { return internalnn.NewSequential() }

// NewSimpleNet builds fc1: Linear(10, 32) -> relu1: ReLU -> fc2: Linear(32, 5).
func NewSimpleNet(seed uint64) *Sequential { return internalnn.NewSimpleNet(seed) }
