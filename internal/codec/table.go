package codec

import (
	"github.com/lk2023060901/tensor-garden-go/internal/dataplane"
	"github.com/lk2023060901/tensor-garden-go/internal/tensor"
	"github.com/lk2023060901/tensor-garden-go/pkg/util/merr"
	"github.com/lk2023060901/tensor-garden-go/pkg/util/typeutil"
)

// TableCodec 把表格值拆成每列一个线上张量，或把一组张量重组为表格，
// 内容类型 "pd"。
//
// 它工作在请求/响应级别而不是单张量级别：一个表格对应多个张量，
// 张量名即列名，列顺序在两个方向都保持不变。
type TableCodec struct {
	reg *Registry
}

func (TableCodec) ContentType() string {
	return ContentTypeTable
}

func (TableCodec) CanEncode(v tensor.Value) bool {
	return v.Kind() == tensor.KindTable
}

// Encode 将表格的每一列独立编码为一个张量，张量名取列名。
// 每列按自身元素类别选择默认编解码器，并把所选内容类型写入该列张量的
// 参数，否则 BYTES 列在解码侧无法区分 str、base64 和 datetime。
func (c TableCodec) Encode(table *tensor.Table) ([]dataplane.Tensor, error) {
	cols := table.Columns()
	tensors := make([]dataplane.Tensor, 0, len(cols))
	for _, col := range cols {
		colCodec, ok := c.reg.DefaultFor(col.Value)
		if !ok {
			return nil, merr.WrapErrUnsupportedValue(col.Value.Kind().String(), "encode column "+col.Name)
		}
		encoded, err := colCodec.Encode(col.Name, col.Value)
		if err != nil {
			return nil, err
		}
		encoded.Parameters = encoded.Parameters.SetContentType(colCodec.ContentType())
		tensors = append(tensors, *encoded)
	}
	return tensors, nil
}

// Decode 将一组张量重组为表格，每个张量成为一列，顺序保持解码顺序。
// 每列的编解码器按张量自身参数声明的内容类型解析，未声明时按 datatype
// 推断默认。两个张量同名意味着列歧义，直接拒绝而不是静默覆盖。
func (c TableCodec) Decode(tensors []dataplane.Tensor) (*tensor.Table, error) {
	seen := typeutil.NewSet[string]()
	cols := make([]tensor.Column, 0, len(tensors))
	for i := range tensors {
		t := &tensors[i]
		if seen.Contain(t.Name) {
			return nil, merr.WrapErrDuplicateTensorName(t.Name, "decode table")
		}
		seen.Insert(t.Name)

		colCodec, err := c.reg.ResolveDecode(t, nil, nil)
		if err != nil {
			return nil, err
		}
		value, err := colCodec.Decode(t)
		if err != nil {
			return nil, err
		}
		cols = append(cols, tensor.Column{Name: t.Name, Value: value})
	}
	return tensor.NewTable(cols...)
}
