// Package tensorbuf defines the in-memory float32 tensor used throughout
// weightgraph and its compact binary record layout.
//
// A record is self-describing for a single tensor:
//
//	Record Structure:
//	  [8 bytes: Rank (int64 LE)]
//	  [Rank * 8 bytes: Dimension sizes (int64 LE), declared order]
//	  [product(dims) * 4 bytes: Data (float32 LE), row-major]
//
// There is no magic number, version, padding or name. A sequence of records
// needs an external name list to be interpreted, see package weights.
//
// Example usage:
//
//	t, err := tensorbuf.New([]int64{2, 3}, []float32{1, 2, 3, 4, 5, 6})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := tensorbuf.Encode(&buf, t); err != nil {
//	    log.Fatal(err)
//	}
//	back, err := tensorbuf.Decode(&buf)
package tensorbuf
