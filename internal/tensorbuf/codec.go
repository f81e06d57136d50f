package tensorbuf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Record field sizes in bytes.
const (
	RankSize    = 8 // int64 rank
	DimSize     = 8 // int64 per dimension
	ElementSize = 4 // float32 per value
)

// readChunk bounds how many dims or values are allocated per read, so a
// corrupt header claiming a huge size runs out of input before memory.
const readChunk = 1 << 16

// EncodedSize returns the number of bytes Encode writes for t.
func EncodedSize(t *Tensor) int64 {
	return RankSize + int64(len(t.Dims))*DimSize + int64(len(t.Data))*ElementSize
}

// Encode appends one record for t to w.
// It neither flushes nor closes w.
func Encode(w io.Writer, t *Tensor) error {
	if t == nil {
		return fmt.Errorf("%w: nil tensor", ErrShapeMismatch)
	}
	if err := t.Validate(); err != nil {
		return err
	}

	buf := make([]byte, 0, EncodedSize(t))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(t.Dims)))
	for _, d := range t.Dims {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(d)) //nolint:gosec // G115: validated non-negative.
	}
	for _, v := range t.Data {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write tensor record: %w", err)
	}
	return nil
}

// Decode reads exactly one record from r.
//
// Only the bytes just read determine the rank and element count. Running out
// of input at any stage yields ErrTruncatedInput; negative sizes or an
// overflowing element count yield ErrInvalidHeader.
func Decode(r io.Reader) (*Tensor, error) {
	var head [RankSize]byte
	if err := readFull(r, head[:], "rank"); err != nil {
		return nil, err
	}
	rank := int64(binary.LittleEndian.Uint64(head[:])) //nolint:gosec // G115: sign checked below.
	if rank < 0 {
		return nil, fmt.Errorf("%w: negative rank %d", ErrInvalidHeader, rank)
	}

	dims := make([]int64, 0, min(rank, readChunk))
	chunk := make([]byte, min(rank, readChunk)*DimSize)
	for remaining := rank; remaining > 0; {
		n := min(remaining, readChunk)
		if err := readFull(r, chunk[:n*DimSize], "dims"); err != nil {
			return nil, err
		}
		for i := int64(0); i < n; i++ {
			d := int64(binary.LittleEndian.Uint64(chunk[i*DimSize:])) //nolint:gosec // G115: sign checked by NumElements.
			dims = append(dims, d)
		}
		remaining -= n
	}

	count, err := NumElements(dims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if count > math.MaxInt/ElementSize {
		return nil, fmt.Errorf("%w: %d elements do not fit in memory", ErrInvalidHeader, count)
	}

	data := make([]float32, 0, min(count, readChunk))
	raw := make([]byte, min(count, readChunk)*ElementSize)
	for remaining := count; remaining > 0; {
		n := min(remaining, readChunk)
		if err := readFull(r, raw[:n*ElementSize], "data"); err != nil {
			return nil, err
		}
		for i := int64(0); i < n; i++ {
			data = append(data, math.Float32frombits(binary.LittleEndian.Uint32(raw[i*ElementSize:])))
		}
		remaining -= n
	}

	return &Tensor{Dims: dims, Data: data}, nil
}

// readFull fills buf, mapping a short read to ErrTruncatedInput.
func readFull(r io.Reader, buf []byte, field string) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: reading %s (%d bytes)", ErrTruncatedInput, field, len(buf))
		}
		return fmt.Errorf("failed to read %s: %w", field, err)
	}
	return nil
}
