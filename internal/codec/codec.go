package codec

import (
	"github.com/lk2023060901/tensor-garden-go/internal/dataplane"
	"github.com/lk2023060901/tensor-garden-go/internal/tensor"
)

// 协议定义的内容类型标签。与数据面的其他实现保持一致，
// 请求里出现的就是这些字符串。
const (
	// ContentTypeArray 表示多维数组编码（对应其他实现中的 "np"）。
	ContentTypeArray = "np"
	// ContentTypeTable 表示按列拆分的表格编码（对应其他实现中的 "pd"）。
	ContentTypeTable = "pd"
	// ContentTypeString 表示字符串标量序列编码。
	ContentTypeString = "str"
	// ContentTypeBase64 表示 base64 文本的字节串编码。
	ContentTypeBase64 = "base64"
	// ContentTypeDatetime 表示 RFC 3339 时间戳编码。
	ContentTypeDatetime = "datetime"
)

// Codec 负责单个 native 值与单个线上张量之间的互转。
//
// 实现必须是无状态且可并发调用的：编解码层在单次调用之外不保留任何
// 可变状态。
type Codec interface {
	// ContentType 返回该编解码器注册的内容类型标签。
	ContentType() string

	// CanEncode 判断该编解码器能否编码给定的 native 值。
	CanEncode(v tensor.Value) bool

	// Encode 将 native 值编码为一个线上张量。
	// RequestInput 与 ResponseOutput 结构一致，两个方向共用本方法。
	Encode(name string, v tensor.Value) (*dataplane.Tensor, error)

	// Decode 将一个线上张量还原为 native 值。
	Decode(t *dataplane.Tensor) (tensor.Value, error)
}

// DecodeState 标记请求中单个输入的解码结果状态。
type DecodeState int

const (
	// StateDecoded 表示成功解码出 native 值。
	StateDecoded DecodeState = iota
	// StateSkipped 表示没有适用的编解码器，该输入被跳过。
	StateSkipped
	// StateFailed 表示解码过程中发生了真正的错误。
	StateFailed
)

func (s DecodeState) String() string {
	switch s {
	case StateDecoded:
		return "decoded"
	case StateSkipped:
		return "skipped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FieldResult 是单个输入的解码结果。
// 区分 Skipped 与 Failed，调用方不会把"无适用编解码器"误当成错误。
type FieldResult struct {
	Name  string
	State DecodeState

	// Value 仅在 State 为 StateDecoded 时有效。
	Value tensor.Value

	// Err 在 StateFailed 时为真正的解码错误；
	// 在 StateSkipped 时记录跳过原因，仅用于上报。
	Err error
}

// DecodedRequest 是整个请求的解码结果，保持输入声明顺序。
type DecodedRequest struct {
	fields []FieldResult
	byName map[string]int
}

// Fields 按输入声明顺序返回全部解码结果。
func (r *DecodedRequest) Fields() []FieldResult {
	return r.fields
}

// Value 按输入名返回解码出的 native 值。
// 该输入不存在或未成功解码时返回 false。
func (r *DecodedRequest) Value(name string) (tensor.Value, bool) {
	i, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	field := r.fields[i]
	if field.State != StateDecoded {
		return nil, false
	}
	return field.Value, true
}

// Len 返回输入个数（含被跳过与失败的）。
func (r *DecodedRequest) Len() int {
	return len(r.fields)
}
