package onnx

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// ONNX protobuf field numbers, from onnx.proto.
const (
	fieldModelIRVersion       = 1
	fieldModelProducerName    = 2
	fieldModelProducerVersion = 3
	fieldModelDomain          = 4
	fieldModelVersion         = 5
	fieldModelDocString       = 6
	fieldModelGraph           = 7
	fieldModelOpsetImport     = 8
	fieldModelMetadataProps   = 14

	fieldOpsetDomain  = 1
	fieldOpsetVersion = 2

	fieldGraphNode        = 1
	fieldGraphName        = 2
	fieldGraphInitializer = 5
	fieldGraphDocString   = 10
	fieldGraphInput       = 11
	fieldGraphOutput      = 12

	fieldNodeInput     = 1
	fieldNodeOutput    = 2
	fieldNodeName      = 3
	fieldNodeOpType    = 4
	fieldNodeAttribute = 5
	fieldNodeDomain    = 7

	fieldTensorDims      = 1
	fieldTensorDataType  = 2
	fieldTensorFloatData = 4
	fieldTensorName      = 8
	fieldTensorRawData   = 9

	fieldValueInfoName = 1
	fieldValueInfoType = 2

	fieldTypeTensorType = 1

	fieldTensorTypeElemType = 1
	fieldTensorTypeShape    = 2

	fieldShapeDim = 1

	fieldDimValue = 1
	fieldDimParam = 2

	fieldAttrName   = 1
	fieldAttrF      = 2
	fieldAttrI      = 3
	fieldAttrS      = 4
	fieldAttrFloats = 7
	fieldAttrInts   = 8
	fieldAttrType   = 20

	fieldEntryKey   = 1
	fieldEntryValue = 2
)

// Marshal encodes m in protobuf wire format.
func Marshal(m *ModelProto) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("cannot marshal nil model")
	}
	if m.Graph == nil {
		return nil, ErrNoGraph
	}
	return appendModel(nil, m), nil
}

func appendModel(b []byte, m *ModelProto) []byte {
	b = appendVarintField(b, fieldModelIRVersion, uint64(m.IRVersion)) //nolint:gosec // G115: proto int64 field.
	b = appendStringField(b, fieldModelProducerName, m.ProducerName)
	b = appendStringField(b, fieldModelProducerVersion, m.ProducerVersion)
	b = appendStringField(b, fieldModelDomain, m.Domain)
	b = appendVarintField(b, fieldModelVersion, uint64(m.ModelVersion)) //nolint:gosec // G115: proto int64 field.
	b = appendStringField(b, fieldModelDocString, m.DocString)
	if m.Graph != nil {
		b = appendMessage(b, fieldModelGraph, appendGraph(nil, m.Graph))
	}
	for _, opset := range m.OpsetImport {
		var sub []byte
		sub = appendStringField(sub, fieldOpsetDomain, opset.Domain)
		sub = appendVarintField(sub, fieldOpsetVersion, uint64(opset.Version)) //nolint:gosec // G115: proto int64 field.
		b = appendMessage(b, fieldModelOpsetImport, sub)
	}
	for _, entry := range m.MetadataProps {
		var sub []byte
		sub = appendStringField(sub, fieldEntryKey, entry.Key)
		sub = appendStringField(sub, fieldEntryValue, entry.Value)
		b = appendMessage(b, fieldModelMetadataProps, sub)
	}
	return b
}

func appendGraph(b []byte, g *GraphProto) []byte {
	for i := range g.Nodes {
		b = appendMessage(b, fieldGraphNode, appendNode(nil, &g.Nodes[i]))
	}
	b = appendStringField(b, fieldGraphName, g.Name)
	for i := range g.Initializers {
		b = appendMessage(b, fieldGraphInitializer, appendTensor(nil, &g.Initializers[i]))
	}
	b = appendStringField(b, fieldGraphDocString, g.DocString)
	for i := range g.Inputs {
		b = appendMessage(b, fieldGraphInput, appendValueInfo(nil, &g.Inputs[i]))
	}
	for i := range g.Outputs {
		b = appendMessage(b, fieldGraphOutput, appendValueInfo(nil, &g.Outputs[i]))
	}
	return b
}

func appendNode(b []byte, n *NodeProto) []byte {
	for _, in := range n.Inputs {
		b = protowire.AppendTag(b, fieldNodeInput, protowire.BytesType)
		b = protowire.AppendString(b, in)
	}
	for _, out := range n.Outputs {
		b = protowire.AppendTag(b, fieldNodeOutput, protowire.BytesType)
		b = protowire.AppendString(b, out)
	}
	b = appendStringField(b, fieldNodeName, n.Name)
	b = appendStringField(b, fieldNodeOpType, n.OpType)
	for i := range n.Attributes {
		b = appendMessage(b, fieldNodeAttribute, appendAttribute(nil, &n.Attributes[i]))
	}
	b = appendStringField(b, fieldNodeDomain, n.Domain)
	return b
}

func appendTensor(b []byte, t *TensorProto) []byte {
	if len(t.Dims) > 0 {
		var packed []byte
		for _, d := range t.Dims {
			packed = protowire.AppendVarint(packed, uint64(d)) //nolint:gosec // G115: proto int64 field.
		}
		b = appendMessage(b, fieldTensorDims, packed)
	}
	b = appendVarintField(b, fieldTensorDataType, uint64(t.DataType)) //nolint:gosec // G115: enum value.
	if len(t.FloatData) > 0 {
		packed := make([]byte, 0, 4*len(t.FloatData))
		for _, v := range t.FloatData {
			packed = protowire.AppendFixed32(packed, math.Float32bits(v))
		}
		b = appendMessage(b, fieldTensorFloatData, packed)
	}
	b = appendStringField(b, fieldTensorName, t.Name)
	if len(t.RawData) > 0 {
		b = appendMessage(b, fieldTensorRawData, t.RawData)
	}
	return b
}

func appendValueInfo(b []byte, v *ValueInfoProto) []byte {
	b = appendStringField(b, fieldValueInfoName, v.Name)
	if v.Type != nil && v.Type.TensorType != nil {
		tt := v.Type.TensorType
		var tensorType []byte
		tensorType = appendVarintField(tensorType, fieldTensorTypeElemType, uint64(tt.ElemType)) //nolint:gosec // G115: enum value.
		if tt.Shape != nil {
			var shape []byte
			for _, dim := range tt.Shape.Dims {
				var d []byte
				if dim.DimParam != "" {
					d = protowire.AppendTag(d, fieldDimParam, protowire.BytesType)
					d = protowire.AppendString(d, dim.DimParam)
				} else {
					d = protowire.AppendTag(d, fieldDimValue, protowire.VarintType)
					d = protowire.AppendVarint(d, uint64(dim.DimValue)) //nolint:gosec // G115: proto int64 field.
				}
				shape = appendMessage(shape, fieldShapeDim, d)
			}
			tensorType = appendMessage(tensorType, fieldTensorTypeShape, shape)
		}
		b = appendMessage(b, fieldValueInfoType, appendMessage(nil, fieldTypeTensorType, tensorType))
	}
	return b
}

func appendAttribute(b []byte, a *AttributeProto) []byte {
	b = appendStringField(b, fieldAttrName, a.Name)
	switch a.Type {
	case AttributeProtoFloat:
		b = protowire.AppendTag(b, fieldAttrF, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(a.F))
	case AttributeProtoInt:
		b = protowire.AppendTag(b, fieldAttrI, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(a.I)) //nolint:gosec // G115: proto int64 field.
	case AttributeProtoString:
		b = appendMessage(b, fieldAttrS, a.S)
	case AttributeProtoFloats:
		packed := make([]byte, 0, 4*len(a.Floats))
		for _, v := range a.Floats {
			packed = protowire.AppendFixed32(packed, math.Float32bits(v))
		}
		b = appendMessage(b, fieldAttrFloats, packed)
	case AttributeProtoInts:
		var packed []byte
		for _, v := range a.Ints {
			packed = protowire.AppendVarint(packed, uint64(v)) //nolint:gosec // G115: proto int64 field.
		}
		b = appendMessage(b, fieldAttrInts, packed)
	}
	b = appendVarintField(b, fieldAttrType, uint64(a.Type)) //nolint:gosec // G115: enum value.
	return b
}

// appendMessage writes a length-delimited field. Empty payloads are still
// written, since presence matters for sub-messages.
func appendMessage(b []byte, num protowire.Number, payload []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, payload)
}

// appendStringField writes a string field, omitting the empty string.
func appendStringField(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// appendVarintField writes a varint field, omitting zero.
func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}
