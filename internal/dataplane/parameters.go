package dataplane

import (
	"fmt"

	"github.com/lk2023060901/tensor-garden-go/internal/json"
)

// 保留参数键。
const (
	// ContentTypeKey 声明张量或请求/响应级别的内容类型。
	ContentTypeKey = "content_type"

	// DecodedPayloadKey 携带已经解码好的 native 值，用于旁路正常解码流程。
	// 该键只在进程内传递，永远不会被序列化到线上。
	DecodedPayloadKey = "_decoded_payload"
)

// ValueKind 标记参数值的具体类别。
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
	KindBytes
	// KindNative 表示进程内的不透明 native 句柄（解码旁路用），不可序列化。
	KindNative
)

// Value 是参数值的封闭变体类型：string | number | bool | bytes | native 句柄。
//
// 用变体而不是裸 any 表达，解码旁路机制才能保持类型安全。
type Value struct {
	kind   ValueKind
	str    string
	num    float64
	b      bool
	raw    []byte
	native any
}

func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }
func BoolValue(b bool) Value      { return Value{kind: KindBool, b: b} }
func BytesValue(p []byte) Value   { return Value{kind: KindBytes, raw: p} }

// NativeValue 包装一个进程内句柄。注意该值不会随参数一起序列化。
func NativeValue(v any) Value { return Value{kind: KindNative, native: v} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}
func (v Value) AsBool() (bool, bool)    { return v.b, v.kind == KindBool }
func (v Value) AsBytes() ([]byte, bool) { return v.raw, v.kind == KindBytes }
func (v Value) AsNative() (any, bool)   { return v.native, v.kind == KindNative }

// MarshalJSON 实现 json.Marshaler。
// native 句柄没有线上表示，编码为 null；Parameters 层面会直接跳过该键。
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindBytes:
		return json.Marshal(string(v.raw))
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON 实现 json.Unmarshaler。
// JSON 中只可能出现 string/number/bool 三类合法取值。
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch rv := raw.(type) {
	case string:
		*v = StringValue(rv)
	case float64:
		*v = NumberValue(rv)
	case bool:
		*v = BoolValue(rv)
	default:
		return fmt.Errorf("dataplane: unsupported parameter value %T", raw)
	}
	return nil
}

// Parameters 是附着在请求、张量或元数据上的开放参数包。
//
// 参数在被复制进所属实体后即归属于该实体，不跨实体共享。
type Parameters map[string]Value

// ContentType 返回声明的内容类型。
func (p Parameters) ContentType() (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p[ContentTypeKey]
	if !ok {
		return "", false
	}
	return v.AsString()
}

// SetContentType 设置内容类型，返回更新后的参数包（p 为 nil 时会新建）。
func (p Parameters) SetContentType(contentType string) Parameters {
	if p == nil {
		p = make(Parameters, 1)
	}
	p[ContentTypeKey] = StringValue(contentType)
	return p
}

// Decoded 返回附着的解码旁路值。
func (p Parameters) Decoded() (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p[DecodedPayloadKey]
	if !ok {
		return nil, false
	}
	return v.AsNative()
}

// SetDecoded 附着解码旁路值，返回更新后的参数包（p 为 nil 时会新建）。
func (p Parameters) SetDecoded(v any) Parameters {
	if p == nil {
		p = make(Parameters, 1)
	}
	p[DecodedPayloadKey] = NativeValue(v)
	return p
}

// Clone 返回参数包的浅拷贝。
func (p Parameters) Clone() Parameters {
	if p == nil {
		return nil
	}
	out := make(Parameters, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// MarshalJSON 实现 json.Marshaler，native 句柄键不会出现在线上表示中。
func (p Parameters) MarshalJSON() ([]byte, error) {
	wire := make(map[string]Value, len(p))
	for k, v := range p {
		if v.kind == KindNative {
			continue
		}
		wire[k] = v
	}
	return json.Marshal(wire)
}

// UnmarshalJSON 实现 json.Unmarshaler。
func (p *Parameters) UnmarshalJSON(data []byte) error {
	raw := make(map[string]Value)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Parameters(raw)
	return nil
}
