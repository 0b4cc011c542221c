package tensor

import (
	"github.com/lk2023060901/tensor-garden-go/pkg/util/merr"
	"github.com/lk2023060901/tensor-garden-go/pkg/util/typeutil"
)

// Column 是表格中的一列：列名加上一段元素类型齐一的序列。
type Column struct {
	Name  string
	Value Value
}

// Table 是列名有序的表格值。列顺序即构造顺序，解码与编码都保持该顺序。
type Table struct {
	cols  []Column
	index map[string]int
}

func (*Table) Kind() Kind { return KindTable }

// NewTable 按给定列构造表格。
//
// 列名冲突直接拒绝；嵌套表格无法用扁平的列结构表达，同样拒绝。
func NewTable(cols ...Column) (*Table, error) {
	seen := typeutil.NewSet[string]()
	index := make(map[string]int, len(cols))
	for i, col := range cols {
		if seen.Contain(col.Name) {
			return nil, merr.WrapErrDuplicateTensorName(col.Name, "build table")
		}
		seen.Insert(col.Name)

		if col.Value == nil {
			return nil, merr.WrapErrUnsupportedValue("nil", "column "+col.Name)
		}
		if col.Value.Kind() == KindTable {
			return nil, merr.WrapErrUnsupportedValue("table", "nested table in column "+col.Name)
		}
		index[col.Name] = i
	}

	return &Table{
		cols:  append([]Column(nil), cols...),
		index: index,
	}, nil
}

// Columns 返回全部列，调用方不应修改返回的切片。
func (t *Table) Columns() []Column {
	return t.cols
}

// Column 按列名查找某一列的值。
func (t *Table) Column(name string) (Value, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i].Value, true
}

// Len 返回列数。
func (t *Table) Len() int {
	return len(t.cols)
}
