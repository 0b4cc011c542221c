package codec

import (
	"github.com/lk2023060901/tensor-garden-go/internal/dataplane"
	"github.com/lk2023060901/tensor-garden-go/internal/tensor"
	"github.com/lk2023060901/tensor-garden-go/pkg/util/merr"
)

// ArrayCodec 在多维数组与单个线上张量之间互转，内容类型 "np"。
//
// 编码按行主序平铺并记录完整 shape；解码按声明的 datatype 做严格
// 元素转换后还原数组。BYTES 张量没有数组元素表示，解码为字节串序列。
type ArrayCodec struct{}

var _ Codec = ArrayCodec{}

func (ArrayCodec) ContentType() string {
	return ContentTypeArray
}

func (ArrayCodec) CanEncode(v tensor.Value) bool {
	return v.Kind() == tensor.KindArray
}

func (c ArrayCodec) Encode(name string, v tensor.Value) (*dataplane.Tensor, error) {
	arr, ok := v.(*tensor.Array)
	if !ok {
		return nil, merr.WrapErrUnsupportedValue(v.Kind().String(), "encode tensor "+name)
	}

	datatype, err := InferDatatype(arr)
	if err != nil {
		return nil, err
	}

	return &dataplane.Tensor{
		Name:     name,
		Shape:    arr.Shape(),
		Datatype: datatype,
		Data:     arr.Flat(),
	}, nil
}

func (c ArrayCodec) Decode(t *dataplane.Tensor) (tensor.Value, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	switch t.Datatype {
	case dataplane.BOOL:
		return decodeArray(t, toBool)
	case dataplane.UINT8:
		return decodeArray(t, toUnsigned[uint8])
	case dataplane.UINT16:
		return decodeArray(t, toUnsigned[uint16])
	case dataplane.UINT32:
		return decodeArray(t, toUnsigned[uint32])
	case dataplane.UINT64:
		return decodeArray(t, toUnsigned[uint64])
	case dataplane.INT8:
		return decodeArray(t, toSigned[int8])
	case dataplane.INT16:
		return decodeArray(t, toSigned[int16])
	case dataplane.INT32:
		return decodeArray(t, toSigned[int32])
	case dataplane.INT64:
		return decodeArray(t, toSigned[int64])
	case dataplane.FP16:
		return decodeArray(t, toFloat16)
	case dataplane.FP32:
		return decodeArray(t, toFloat[float32])
	case dataplane.FP64:
		return decodeArray(t, toFloat[float64])
	case dataplane.BYTES:
		return decodeByteArray(t)
	default:
		return nil, merr.WrapErrUnsupportedDatatype(string(t.Datatype), "decode tensor "+t.Name)
	}
}

func decodeArray[T tensor.Element](t *dataplane.Tensor, convert func(any) (T, bool)) (*tensor.Array, error) {
	elems := make([]T, len(t.Data))
	for i, elem := range t.Data {
		converted, ok := convert(elem)
		if !ok {
			return nil, merr.WrapErrTensorData(t.Name, elem, string(t.Datatype))
		}
		elems[i] = converted
	}
	return tensor.NewArray(t.Shape, elems)
}

func decodeByteArray(t *dataplane.Tensor) (tensor.Bytes, error) {
	blobs := make(tensor.Bytes, len(t.Data))
	for i, elem := range t.Data {
		b, ok := toBytes(elem)
		if !ok {
			return nil, merr.WrapErrTensorData(t.Name, elem, string(t.Datatype))
		}
		blobs[i] = b
	}
	return blobs, nil
}
