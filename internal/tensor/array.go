package tensor

import (
	"github.com/x448/float16"

	"github.com/lk2023060901/tensor-garden-go/pkg/util/merr"
)

// DType 是数组元素类型的封闭枚举。
type DType int

const (
	Bool DType = iota
	Uint8
	Uint16
	Uint32
	Uint64
	Int8
	Int16
	Int32
	Int64
	Float16
	Float32
	Float64
)

var dtypeNames = map[DType]string{
	Bool:    "bool",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Float16: "float16",
	Float32: "float32",
	Float64: "float64",
}

func (d DType) String() string {
	if name, ok := dtypeNames[d]; ok {
		return name
	}
	return "invalid"
}

// Element 约束数组允许的元素类型。
// float16 用 x448/float16 表示，因此这里只能用精确类型而非底层类型集合。
type Element interface {
	bool |
		uint8 | uint16 | uint32 | uint64 |
		int8 | int16 | int32 | int64 |
		float16.Float16 | float32 | float64
}

// Array 是元素类型齐一的多维数组。
// 数据按行主序平铺存放，shape 记录各维长度。
type Array struct {
	dtype DType
	shape []int64
	elems any
}

func (*Array) Kind() Kind { return KindArray }

// NewArray 从平铺数据与 shape 构造数组。
// data 的长度必须等于 shape 各维乘积。
func NewArray[T Element](shape []int64, data []T) (*Array, error) {
	if len(shape) == 0 {
		return nil, merr.WrapErrTensorShapeInvalid("", shape, "array shape must have at least one dimension")
	}
	total := int64(1)
	for _, dim := range shape {
		if dim < 0 {
			return nil, merr.WrapErrTensorShapeInvalid("", shape, "negative dimension")
		}
		total *= dim
	}
	if total != int64(len(data)) {
		return nil, merr.WrapErrTensorShapeMismatch("", total, len(data))
	}

	return &Array{
		dtype: dtypeOf[T](),
		shape: append([]int64(nil), shape...),
		elems: data,
	}, nil
}

// NewVector 构造一维数组，shape 取 [len(data)]。
func NewVector[T Element](data []T) *Array {
	arr, _ := NewArray([]int64{int64(len(data))}, data)
	return arr
}

func dtypeOf[T Element]() DType {
	var zero T
	switch any(zero).(type) {
	case bool:
		return Bool
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case float16.Float16:
		return Float16
	case float32:
		return Float32
	default:
		return Float64
	}
}

// DType 返回元素类型。
func (a *Array) DType() DType {
	return a.dtype
}

// Shape 返回各维长度，调用方不应修改返回的切片。
func (a *Array) Shape() []int64 {
	return a.shape
}

// Len 返回平铺后的元素个数。
func (a *Array) Len() int {
	total := int64(1)
	for _, dim := range a.shape {
		total *= dim
	}
	return int(total)
}

// Flat 以 []any 形式返回行主序平铺的全部元素。
func (a *Array) Flat() []any {
	switch elems := a.elems.(type) {
	case []bool:
		return anySlice(elems)
	case []uint8:
		return anySlice(elems)
	case []uint16:
		return anySlice(elems)
	case []uint32:
		return anySlice(elems)
	case []uint64:
		return anySlice(elems)
	case []int8:
		return anySlice(elems)
	case []int16:
		return anySlice(elems)
	case []int32:
		return anySlice(elems)
	case []int64:
		return anySlice(elems)
	case []float16.Float16:
		return anySlice(elems)
	case []float32:
		return anySlice(elems)
	case []float64:
		return anySlice(elems)
	default:
		return nil
	}
}

func anySlice[T Element](elems []T) []any {
	out := make([]any, len(elems))
	for i, elem := range elems {
		out[i] = elem
	}
	return out
}

// Data 返回底层平铺切片（[]bool、[]int32 等），供需要具体类型的调用方断言。
func (a *Array) Data() any {
	return a.elems
}

// Elems 以具体元素类型返回底层平铺切片。
// 当 T 与数组实际元素类型不一致时返回 false。
func Elems[T Element](a *Array) ([]T, bool) {
	elems, ok := a.elems.([]T)
	return elems, ok
}
