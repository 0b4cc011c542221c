package tensor

import "time"

// Kind 标记 native 值的类别。
//
// 编解码调度基于该封闭枚举做匹配，而不是运行时反射。
type Kind int

const (
	// KindArray 表示元素类型齐一的多维数值数组。
	KindArray Kind = iota
	// KindTable 表示列名有序、列内元素类型齐一的表格。
	KindTable
	// KindStrings 表示字符串标量序列。
	KindStrings
	// KindBytes 表示字节串序列。
	KindBytes
	// KindDatetimes 表示时间戳序列。
	KindDatetimes
)

var kindNames = map[Kind]string{
	KindArray:     "array",
	KindTable:     "table",
	KindStrings:   "strings",
	KindBytes:     "bytes",
	KindDatetimes: "datetimes",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Value 是进出编解码层的 native 值。
//
// 编解码层不会在单次调用之外保留对 Value 的引用。
type Value interface {
	Kind() Kind
}

// Strings 是字符串标量序列。
type Strings []string

func (Strings) Kind() Kind { return KindStrings }

// Bytes 是字节串序列。
type Bytes [][]byte

func (Bytes) Kind() Kind { return KindBytes }

// Datetimes 是时间戳序列。
type Datetimes []time.Time

func (Datetimes) Kind() Kind { return KindDatetimes }
