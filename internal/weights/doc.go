// Package weights reads and writes the weight container: an ordered
// concatenation of tensorbuf records with no header, names, lengths or
// checksum.
//
// The container is not self-describing. The only join key between a record
// and its parameter name is position, so the reader must be given the exact
// name order the writer used (the descriptor's param_order). Supplying a
// different order is not detectable: tensors are silently attached to the
// wrong names, and shapes only match by coincidence.
//
// Example usage:
//
//	// Export
//	params := model.NamedParameters()
//	if err := weights.WriteFile("model_weights.bin", params); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Import
//	byName, err := weights.ReadFile("model_weights.bin", desc.ParamOrder)
//	if err != nil {
//	    log.Fatal(err)
//	}
package weights
