package codec

import (
	"math"

	"github.com/x448/float16"
	"golang.org/x/exp/constraints"

	"github.com/lk2023060901/tensor-garden-go/internal/dataplane"
	"github.com/lk2023060901/tensor-garden-go/internal/tensor"
	"github.com/lk2023060901/tensor-garden-go/pkg/util/merr"
)

// 元素类型与数据面 datatype 的固定映射表。
var dtypeToDatatype = map[tensor.DType]dataplane.Datatype{
	tensor.Bool:    dataplane.BOOL,
	tensor.Uint8:   dataplane.UINT8,
	tensor.Uint16:  dataplane.UINT16,
	tensor.Uint32:  dataplane.UINT32,
	tensor.Uint64:  dataplane.UINT64,
	tensor.Int8:    dataplane.INT8,
	tensor.Int16:   dataplane.INT16,
	tensor.Int32:   dataplane.INT32,
	tensor.Int64:   dataplane.INT64,
	tensor.Float16: dataplane.FP16,
	tensor.Float32: dataplane.FP32,
	tensor.Float64: dataplane.FP64,
}

var datatypeToDType = map[dataplane.Datatype]tensor.DType{
	dataplane.BOOL:   tensor.Bool,
	dataplane.UINT8:  tensor.Uint8,
	dataplane.UINT16: tensor.Uint16,
	dataplane.UINT32: tensor.Uint32,
	dataplane.UINT64: tensor.Uint64,
	dataplane.INT8:   tensor.Int8,
	dataplane.INT16:  tensor.Int16,
	dataplane.INT32:  tensor.Int32,
	dataplane.INT64:  tensor.Int64,
	dataplane.FP16:   tensor.Float16,
	dataplane.FP32:   tensor.Float32,
	dataplane.FP64:   tensor.Float64,
}

// InferDatatype 推断 native 值对应的数据面 datatype。
//
// 规则按优先级排列：数组按元素类型查固定映射表；字符串、字节串与
// 时间戳序列一律映射为 BYTES（时间戳以 RFC 3339 字节串上线）。
func InferDatatype(v tensor.Value) (dataplane.Datatype, error) {
	switch v.Kind() {
	case tensor.KindArray:
		arr, ok := v.(*tensor.Array)
		if !ok {
			return "", merr.WrapErrUnsupportedType(v.Kind().String(), "infer datatype")
		}
		datatype, ok := dtypeToDatatype[arr.DType()]
		if !ok {
			return "", merr.WrapErrUnsupportedType(arr.DType().String(), "infer datatype")
		}
		return datatype, nil
	case tensor.KindStrings, tensor.KindBytes, tensor.KindDatetimes:
		return dataplane.BYTES, nil
	default:
		return "", merr.WrapErrUnsupportedType(v.Kind().String(), "infer datatype")
	}
}

// NativeDType 返回数据面 datatype 对应的数组元素类型。
// BYTES 没有数组元素表示（解码为字节串序列），返回 false。
func NativeDType(d dataplane.Datatype) (tensor.DType, bool) {
	dtype, ok := datatypeToDType[d]
	return dtype, ok
}

// 以下转换用于把线上平铺数据的标量元素还原为声明的元素类型。
// 线上数据经过 JSON 往返后数值会以 float64 出现，因此这里按声明类型
// 做带溢出/截断检查的严格转换，而不是信任内存里的 Go 类型。

func toSigned[T constraints.Signed](elem any) (T, bool) {
	switch v := elem.(type) {
	case int:
		return fromInt64[T](int64(v))
	case int8:
		return fromInt64[T](int64(v))
	case int16:
		return fromInt64[T](int64(v))
	case int32:
		return fromInt64[T](int64(v))
	case int64:
		return fromInt64[T](v)
	case uint:
		return fromUint64ToSigned[T](uint64(v))
	case uint8:
		return fromInt64[T](int64(v))
	case uint16:
		return fromInt64[T](int64(v))
	case uint32:
		return fromInt64[T](int64(v))
	case uint64:
		return fromUint64ToSigned[T](v)
	case float32:
		return floatToSigned[T](float64(v))
	case float64:
		return floatToSigned[T](v)
	default:
		return 0, false
	}
}

func fromInt64[T constraints.Signed](v int64) (T, bool) {
	c := T(v)
	if int64(c) != v {
		return 0, false
	}
	return c, true
}

func fromUint64ToSigned[T constraints.Signed](v uint64) (T, bool) {
	if v > math.MaxInt64 {
		return 0, false
	}
	return fromInt64[T](int64(v))
}

func floatToSigned[T constraints.Signed](v float64) (T, bool) {
	i := int64(v)
	if float64(i) != v {
		return 0, false
	}
	return fromInt64[T](i)
}

func toUnsigned[T constraints.Unsigned](elem any) (T, bool) {
	switch v := elem.(type) {
	case int:
		return fromUint64[T](uint64(v), v < 0)
	case int8:
		return fromUint64[T](uint64(v), v < 0)
	case int16:
		return fromUint64[T](uint64(v), v < 0)
	case int32:
		return fromUint64[T](uint64(v), v < 0)
	case int64:
		return fromUint64[T](uint64(v), v < 0)
	case uint:
		return fromUint64[T](uint64(v), false)
	case uint8:
		return fromUint64[T](uint64(v), false)
	case uint16:
		return fromUint64[T](uint64(v), false)
	case uint32:
		return fromUint64[T](uint64(v), false)
	case uint64:
		return fromUint64[T](v, false)
	case float16.Float16:
		return fromUint64[T](uint64(uint16(v)), false)
	case float32:
		return floatToUnsigned[T](float64(v))
	case float64:
		return floatToUnsigned[T](v)
	default:
		return 0, false
	}
}

func fromUint64[T constraints.Unsigned](v uint64, negative bool) (T, bool) {
	if negative {
		return 0, false
	}
	c := T(v)
	if uint64(c) != v {
		return 0, false
	}
	return c, true
}

func floatToUnsigned[T constraints.Unsigned](v float64) (T, bool) {
	if v < 0 {
		return 0, false
	}
	u := uint64(v)
	if float64(u) != v {
		return 0, false
	}
	return fromUint64[T](u, false)
}

func toFloat[T constraints.Float](elem any) (T, bool) {
	switch v := elem.(type) {
	case float32:
		return T(v), true
	case float64:
		return T(v), true
	case int:
		return T(v), true
	case int8:
		return T(v), true
	case int16:
		return T(v), true
	case int32:
		return T(v), true
	case int64:
		return T(v), true
	case uint:
		return T(v), true
	case uint8:
		return T(v), true
	case uint16:
		return T(v), true
	case uint32:
		return T(v), true
	case uint64:
		return T(v), true
	default:
		return 0, false
	}
}

func toBool(elem any) (bool, bool) {
	switch v := elem.(type) {
	case bool:
		return v, true
	case float64:
		if v == 0 || v == 1 {
			return v == 1, true
		}
		return false, false
	case int:
		if v == 0 || v == 1 {
			return v == 1, true
		}
		return false, false
	default:
		return false, false
	}
}

// toFloat16 将线上元素还原为 float16。
// FP16 在线上以 IEEE 754 位模式的整数形式存放。
func toFloat16(elem any) (float16.Float16, bool) {
	bits, ok := toUnsigned[uint16](elem)
	if !ok {
		return 0, false
	}
	return float16.Frombits(bits), true
}

func toBytes(elem any) ([]byte, bool) {
	switch v := elem.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
