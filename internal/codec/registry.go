package codec

import (
	"github.com/lk2023060901/tensor-garden-go/internal/dataplane"
	"github.com/lk2023060901/tensor-garden-go/internal/tensor"
	"github.com/lk2023060901/tensor-garden-go/pkg/util/merr"
)

// Registry 是内容类型到编解码器的映射。
//
// 注册表在进程初始化阶段构造一次，发布后不可变，因此可以被任意多的
// goroutine 并发读取而无需加锁。组装器通过显式参数接收注册表，
// 不依赖任何全局可变查找。
type Registry struct {
	byContentType map[string]Codec
	order         []Codec
	table         TableCodec
}

// NewRegistry 按给定编解码器构造注册表。
// 同一内容类型后注册的覆盖先注册的；order 保留首次注册顺序，
// 用于"按值类别找默认编解码器"的确定性匹配。
func NewRegistry(codecs ...Codec) *Registry {
	r := &Registry{
		byContentType: make(map[string]Codec, len(codecs)),
	}
	for _, c := range codecs {
		if _, ok := r.byContentType[c.ContentType()]; !ok {
			r.order = append(r.order, c)
		}
		r.byContentType[c.ContentType()] = c
	}
	r.table = TableCodec{reg: r}
	return r
}

// DefaultRegistry 构造携带全部内置编解码器的注册表。
func DefaultRegistry() *Registry {
	return NewRegistry(
		ArrayCodec{},
		StringCodec{},
		Base64Codec{},
		DatetimeCodec{},
	)
}

// Codec 按内容类型查找张量级编解码器。
//
// 表格内容类型 "pd" 工作在请求/响应级别，单张量路径上声明它属于
// 级别误用，返回 ErrOperationNotSupported 而不是 ErrCodecNotFound。
func (r *Registry) Codec(contentType string) (Codec, error) {
	if contentType == ContentTypeTable {
		return nil, merr.WrapErrOperationNotSupported(
			"tensor-level codec lookup",
			"content type "+ContentTypeTable+" works at request level")
	}
	c, ok := r.byContentType[contentType]
	if !ok {
		return nil, merr.WrapErrCodecNotFound(contentType)
	}
	return c, nil
}

// Table 返回表格编解码器（内容类型 "pd"，工作在请求/响应级别）。
func (r *Registry) Table() TableCodec {
	return r.table
}

// DefaultFor 按 native 值的类别返回第一个能编码它的编解码器。
// 匹配顺序即注册顺序，保证结果确定。
func (r *Registry) DefaultFor(v tensor.Value) (Codec, bool) {
	for _, c := range r.order {
		if c.CanEncode(v) {
			return c, true
		}
	}
	return nil, false
}

// ForWire 按线上张量的 datatype 推断默认编解码器：
// 数值/布尔张量走数组编码，BYTES 走字符串标量序列编码。
func (r *Registry) ForWire(t *dataplane.Tensor) (Codec, error) {
	if t.Datatype == dataplane.BYTES {
		return r.Codec(ContentTypeString)
	}
	return r.Codec(ContentTypeArray)
}

// ResolveDecode 为一个输入/输出解析解码用的编解码器。
//
// 优先级从高到低：
//  1. 张量自身参数里声明的内容类型；
//  2. 同名 MetadataTensor 声明的内容类型；
//  3. 请求/响应级参数声明的内容类型；
//  4. 按张量的 datatype 推断默认编解码器。
//
// 显式声明了未注册的内容类型时返回 ErrCodecNotFound，而不是退回默认。
func (r *Registry) ResolveDecode(t *dataplane.Tensor, meta *dataplane.MetadataTensor, requestParams dataplane.Parameters) (Codec, error) {
	if contentType, ok := t.Parameters.ContentType(); ok {
		return r.Codec(contentType)
	}
	if meta != nil {
		if contentType, ok := meta.Parameters.ContentType(); ok {
			return r.Codec(contentType)
		}
	}
	if contentType, ok := requestParams.ContentType(); ok {
		return r.Codec(contentType)
	}
	return r.ForWire(t)
}
