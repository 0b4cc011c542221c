package dataplane

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/tensor-garden-go/internal/json"
	"github.com/lk2023060901/tensor-garden-go/pkg/util/merr"
)

type TypesSuite struct {
	suite.Suite
}

func (s *TypesSuite) TestDatatype() {
	s.True(INT64.Valid())
	s.True(BYTES.Valid())
	s.False(Datatype("INT128").Valid())

	s.True(FP32.IsNumeric())
	s.True(BOOL.IsNumeric())
	s.False(BYTES.IsNumeric())
	s.False(Datatype("").IsNumeric())
}

func (s *TypesSuite) TestElements() {
	t := &Tensor{Shape: []int64{2, 3}}
	s.Equal(int64(6), t.Elements())

	t = &Tensor{Shape: []int64{4}}
	s.Equal(int64(4), t.Elements())

	t = &Tensor{Shape: []int64{2, 0}}
	s.Equal(int64(0), t.Elements())
}

func (s *TypesSuite) TestTensorValidate() {
	valid := &Tensor{
		Name:     "a",
		Datatype: INT32,
		Shape:    []int64{2, 2},
		Data:     TensorData{1, 2, 3, 4},
	}
	s.NoError(valid.Validate())

	badDatatype := &Tensor{Name: "a", Datatype: "INT128", Shape: []int64{1}, Data: TensorData{1}}
	s.ErrorIs(badDatatype.Validate(), merr.ErrUnsupportedDatatype)

	emptyShape := &Tensor{Name: "a", Datatype: INT32, Shape: nil, Data: TensorData{1}}
	s.ErrorIs(emptyShape.Validate(), merr.ErrTensorShapeInvalid)

	negativeDim := &Tensor{Name: "a", Datatype: INT32, Shape: []int64{-1}, Data: TensorData{1}}
	s.ErrorIs(negativeDim.Validate(), merr.ErrTensorShapeInvalid)

	mismatch := &Tensor{Name: "a", Datatype: INT32, Shape: []int64{3}, Data: TensorData{1, 2}}
	s.ErrorIs(mismatch.Validate(), merr.ErrTensorShapeMismatch)
}

func (s *TypesSuite) TestRequestValidate() {
	req := &InferenceRequest{
		Inputs: []RequestInput{
			{Name: "a", Datatype: INT64, Shape: []int64{1}, Data: TensorData{1}},
			{Name: "b", Datatype: INT64, Shape: []int64{1}, Data: TensorData{2}},
		},
	}
	s.NoError(req.Validate())

	req.Inputs[1].Name = "a"
	s.ErrorIs(req.Validate(), merr.ErrDuplicateTensorName)
}

func (s *TypesSuite) TestResponseValidate() {
	resp := &InferenceResponse{
		Outputs: []ResponseOutput{
			{Name: "out", Datatype: FP32, Shape: []int64{1}, Data: TensorData{1.5}},
			{Name: "out", Datatype: FP32, Shape: []int64{1}, Data: TensorData{2.5}},
		},
	}
	s.ErrorIs(resp.Validate(), merr.ErrDuplicateTensorName)
}

func (s *TypesSuite) TestTensorDataBytesOnWire() {
	t := &Tensor{
		Name:     "comment",
		Datatype: BYTES,
		Shape:    []int64{2},
		Data:     TensorData{[]byte("foo"), []byte("bar")},
	}

	data, err := json.Marshal(t)
	s.NoError(err)
	// BYTES 元素以明文字符串上线而不是 base64。
	s.Contains(string(data), `"foo"`)
	s.Contains(string(data), `"bar"`)
}

func (s *TypesSuite) TestRequestWireRoundTrip() {
	req := &InferenceRequest{
		ModelName: "sum-model",
		ID:        "req-1",
		Parameters: Parameters{
			ContentTypeKey: StringValue("np"),
		},
		Inputs: []RequestInput{{
			Name:     "input-1",
			Datatype: INT64,
			Shape:    []int64{4},
			Data:     TensorData{1, 2, 3, 4},
		}},
	}

	data, err := json.Marshal(req)
	s.NoError(err)

	var back InferenceRequest
	s.NoError(json.Unmarshal(data, &back))
	s.Equal("sum-model", back.ModelName)
	s.Equal("req-1", back.ID)
	s.Len(back.Inputs, 1)
	s.Equal(INT64, back.Inputs[0].Datatype)
	s.Equal([]int64{4}, back.Inputs[0].Shape)
	s.Len(back.Inputs[0].Data, 4)

	ct, ok := back.Parameters.ContentType()
	s.True(ok)
	s.Equal("np", ct)
}

func TestTypes(t *testing.T) {
	suite.Run(t, new(TypesSuite))
}
