package tensor

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/x448/float16"

	"github.com/lk2023060901/tensor-garden-go/pkg/util/merr"
)

type ArraySuite struct {
	suite.Suite
}

func (s *ArraySuite) TestNewArray() {
	arr, err := NewArray([]int64{2, 2}, []int32{1, 2, 3, 4})
	s.NoError(err)
	s.Equal(Int32, arr.DType())
	s.Equal([]int64{2, 2}, arr.Shape())
	s.Equal(4, arr.Len())

	_, err = NewArray([]int64{3}, []int32{1, 2})
	s.ErrorIs(err, merr.ErrTensorShapeMismatch)
}

func (s *ArraySuite) TestNewVector() {
	arr := NewVector([]float64{1.5, 2.5})
	s.Equal(Float64, arr.DType())
	s.Equal([]int64{2}, arr.Shape())
}

func (s *ArraySuite) TestDTypeInference() {
	s.Equal(Bool, NewVector([]bool{true}).DType())
	s.Equal(Uint8, NewVector([]uint8{1}).DType())
	s.Equal(Int64, NewVector([]int64{1}).DType())
	s.Equal(Float16, NewVector([]float16.Float16{float16.Fromfloat32(1)}).DType())
	s.Equal(Float32, NewVector([]float32{1}).DType())
}

func (s *ArraySuite) TestElems() {
	arr := NewVector([]int64{7, 8, 9})

	elems, ok := Elems[int64](arr)
	s.True(ok)
	s.Equal([]int64{7, 8, 9}, elems)

	// 元素类型不匹配时不做隐式转换。
	_, ok = Elems[int32](arr)
	s.False(ok)
}

func (s *ArraySuite) TestFlat() {
	arr := NewVector([]int16{5, 6})
	flat := arr.Flat()
	s.Len(flat, 2)
	s.Equal(int16(5), flat[0])
	s.Equal(int16(6), flat[1])
}

func (s *ArraySuite) TestKind() {
	s.Equal(KindArray, NewVector([]int8{1}).Kind())
	s.Equal("array", NewVector([]int8{1}).Kind().String())
}

func TestArray(t *testing.T) {
	suite.Run(t, new(ArraySuite))
}
