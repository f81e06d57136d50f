// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the float32 tensor and its binary record codec.
//
// # Overview
//
// A Tensor is a row-major float32 array with int64 dimensions. One tensor
// is stored as a single record:
//
//	int64 rank | rank x int64 dims | product(dims) x float32 values
//
// All fields are little-endian. Records carry no name, magic number or
// padding, so a stream of records is read back purely by position.
//
// # Basic Usage
//
//	t, err := tensor.New([]int64{2, 3}, []float32{1, 2, 3, 4, 5, 6})
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := tensor.Encode(&buf, t); err != nil {
//	    return err
//	}
//	back, err := tensor.Decode(&buf)
package tensor
