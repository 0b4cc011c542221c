package dataplane

import (
	"github.com/lk2023060901/tensor-garden-go/pkg/util/typeutil"
)

// Datatype 是数据面张量元素类型的封闭枚举。
//
// 取值必须与协议的其他实现保持一致，序列化时直接使用字符串形式。
type Datatype string

const (
	BOOL   Datatype = "BOOL"
	UINT8  Datatype = "UINT8"
	UINT16 Datatype = "UINT16"
	UINT32 Datatype = "UINT32"
	UINT64 Datatype = "UINT64"
	INT8   Datatype = "INT8"
	INT16  Datatype = "INT16"
	INT32  Datatype = "INT32"
	INT64  Datatype = "INT64"
	FP16   Datatype = "FP16"
	FP32   Datatype = "FP32"
	FP64   Datatype = "FP64"
	BYTES  Datatype = "BYTES"
)

var datatypes = typeutil.NewSet(
	BOOL,
	UINT8, UINT16, UINT32, UINT64,
	INT8, INT16, INT32, INT64,
	FP16, FP32, FP64,
	BYTES,
)

// Valid 判断 datatype 是否属于协议定义的封闭枚举。
func (d Datatype) Valid() bool {
	return datatypes.Contain(d)
}

// IsNumeric 判断 datatype 是否为数值类型（含 BOOL，不含 BYTES）。
func (d Datatype) IsNumeric() bool {
	return d.Valid() && d != BYTES
}

func (d Datatype) String() string {
	return string(d)
}
