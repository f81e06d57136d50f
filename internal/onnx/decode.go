package onnx

import (
	"fmt"
	"math"
	"os"

	"google.golang.org/protobuf/encoding/protowire"
)

// ParseFile parses an ONNX model from file.
//
//nolint:gosec // G304: Path is provided by user, file inclusion is intentional for ONNX model loading
func ParseFile(path string) (*ModelProto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse parses an ONNX model from bytes.
// Fields this package does not model are skipped.
func Parse(data []byte) (*ModelProto, error) {
	model := &ModelProto{}
	if err := readModel(data, model); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedModel, err)
	}
	return model, nil
}

// field is one decoded protobuf field.
type field struct {
	num    protowire.Number
	typ    protowire.Type
	varint uint64
	fixed  uint32
	bytes  []byte
}

func (f field) asInt64() int64 { return int64(f.varint) } //nolint:gosec // G115: proto int64 field.

func (f field) asInt32() int32 { return int32(f.varint) } //nolint:gosec // G115: proto enum/int32 field.

func (f field) str() string { return string(f.bytes) }

// int64s decodes a repeated int64 field in packed or unpacked form.
func (f field) int64s() ([]int64, error) {
	if f.typ == protowire.VarintType {
		return []int64{f.asInt64()}, nil
	}
	var out []int64
	for b := f.bytes; len(b) > 0; {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		out = append(out, int64(v)) //nolint:gosec // G115: proto int64 field.
		b = b[n:]
	}
	return out, nil
}

// float32s decodes a repeated float field in packed or unpacked form.
func (f field) float32s() ([]float32, error) {
	if f.typ == protowire.Fixed32Type {
		return []float32{math.Float32frombits(f.fixed)}, nil
	}
	if len(f.bytes)%4 != 0 {
		return nil, fmt.Errorf("packed float field has %d bytes", len(f.bytes))
	}
	out := make([]float32, 0, len(f.bytes)/4)
	for b := f.bytes; len(b) > 0; {
		v, n := protowire.ConsumeFixed32(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		out = append(out, math.Float32frombits(v))
		b = b[n:]
	}
	return out, nil
}

// walk calls fn for every field in a message.
func walk(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.Fixed32Type:
			f.fixed, n = protowire.ConsumeFixed32(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func readModel(data []byte, m *ModelProto) error {
	return walk(data, func(f field) error {
		switch f.num {
		case fieldModelIRVersion:
			m.IRVersion = f.asInt64()
		case fieldModelProducerName:
			m.ProducerName = f.str()
		case fieldModelProducerVersion:
			m.ProducerVersion = f.str()
		case fieldModelDomain:
			m.Domain = f.str()
		case fieldModelVersion:
			m.ModelVersion = f.asInt64()
		case fieldModelDocString:
			m.DocString = f.str()
		case fieldModelGraph:
			m.Graph = &GraphProto{}
			return readGraph(f.bytes, m.Graph)
		case fieldModelOpsetImport:
			opset := OperatorSetID{}
			err := walk(f.bytes, func(f field) error {
				switch f.num {
				case fieldOpsetDomain:
					opset.Domain = f.str()
				case fieldOpsetVersion:
					opset.Version = f.asInt64()
				}
				return nil
			})
			m.OpsetImport = append(m.OpsetImport, opset)
			return err
		case fieldModelMetadataProps:
			entry := StringStringEntry{}
			err := walk(f.bytes, func(f field) error {
				switch f.num {
				case fieldEntryKey:
					entry.Key = f.str()
				case fieldEntryValue:
					entry.Value = f.str()
				}
				return nil
			})
			m.MetadataProps = append(m.MetadataProps, entry)
			return err
		}
		return nil
	})
}

func readGraph(data []byte, g *GraphProto) error {
	return walk(data, func(f field) error {
		switch f.num {
		case fieldGraphNode:
			node := NodeProto{}
			if err := readNode(f.bytes, &node); err != nil {
				return fmt.Errorf("node %d: %w", len(g.Nodes), err)
			}
			g.Nodes = append(g.Nodes, node)
		case fieldGraphName:
			g.Name = f.str()
		case fieldGraphInitializer:
			t := TensorProto{}
			if err := readTensor(f.bytes, &t); err != nil {
				return fmt.Errorf("initializer %d: %w", len(g.Initializers), err)
			}
			g.Initializers = append(g.Initializers, t)
		case fieldGraphDocString:
			g.DocString = f.str()
		case fieldGraphInput, fieldGraphOutput:
			vi := ValueInfoProto{}
			if err := readValueInfo(f.bytes, &vi); err != nil {
				return err
			}
			if f.num == fieldGraphInput {
				g.Inputs = append(g.Inputs, vi)
			} else {
				g.Outputs = append(g.Outputs, vi)
			}
		}
		return nil
	})
}

func readNode(data []byte, n *NodeProto) error {
	return walk(data, func(f field) error {
		switch f.num {
		case fieldNodeInput:
			n.Inputs = append(n.Inputs, f.str())
		case fieldNodeOutput:
			n.Outputs = append(n.Outputs, f.str())
		case fieldNodeName:
			n.Name = f.str()
		case fieldNodeOpType:
			n.OpType = f.str()
		case fieldNodeAttribute:
			attr := AttributeProto{}
			if err := readAttribute(f.bytes, &attr); err != nil {
				return err
			}
			n.Attributes = append(n.Attributes, attr)
		case fieldNodeDomain:
			n.Domain = f.str()
		}
		return nil
	})
}

func readTensor(data []byte, t *TensorProto) error {
	return walk(data, func(f field) error {
		switch f.num {
		case fieldTensorDims:
			dims, err := f.int64s()
			if err != nil {
				return err
			}
			t.Dims = append(t.Dims, dims...)
		case fieldTensorDataType:
			t.DataType = f.asInt32()
		case fieldTensorFloatData:
			values, err := f.float32s()
			if err != nil {
				return err
			}
			t.FloatData = append(t.FloatData, values...)
		case fieldTensorName:
			t.Name = f.str()
		case fieldTensorRawData:
			t.RawData = f.bytes
		}
		return nil
	})
}

func readValueInfo(data []byte, v *ValueInfoProto) error {
	return walk(data, func(f field) error {
		switch f.num {
		case fieldValueInfoName:
			v.Name = f.str()
		case fieldValueInfoType:
			v.Type = &TypeProto{}
			return walk(f.bytes, func(f field) error {
				if f.num != fieldTypeTensorType {
					return nil
				}
				v.Type.TensorType = &TensorTypeProto{}
				return readTensorType(f.bytes, v.Type.TensorType)
			})
		}
		return nil
	})
}

func readTensorType(data []byte, tt *TensorTypeProto) error {
	return walk(data, func(f field) error {
		switch f.num {
		case fieldTensorTypeElemType:
			tt.ElemType = f.asInt32()
		case fieldTensorTypeShape:
			tt.Shape = &TensorShapeProto{}
			return walk(f.bytes, func(f field) error {
				if f.num != fieldShapeDim {
					return nil
				}
				dim := DimensionProto{}
				err := walk(f.bytes, func(f field) error {
					switch f.num {
					case fieldDimValue:
						dim.DimValue = f.asInt64()
					case fieldDimParam:
						dim.DimParam = f.str()
					}
					return nil
				})
				tt.Shape.Dims = append(tt.Shape.Dims, dim)
				return err
			})
		}
		return nil
	})
}

func readAttribute(data []byte, a *AttributeProto) error {
	return walk(data, func(f field) error {
		switch f.num {
		case fieldAttrName:
			a.Name = f.str()
		case fieldAttrF:
			a.F = math.Float32frombits(f.fixed)
		case fieldAttrI:
			a.I = f.asInt64()
		case fieldAttrS:
			a.S = f.bytes
		case fieldAttrFloats:
			values, err := f.float32s()
			if err != nil {
				return err
			}
			a.Floats = append(a.Floats, values...)
		case fieldAttrInts:
			values, err := f.int64s()
			if err != nil {
				return err
			}
			a.Ints = append(a.Ints, values...)
		case fieldAttrType:
			a.Type = f.asInt32()
		}
		return nil
	})
}
