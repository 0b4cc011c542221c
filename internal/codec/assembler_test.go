package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/lk2023060901/tensor-garden-go/internal/dataplane"
	"github.com/lk2023060901/tensor-garden-go/internal/tensor"
	"github.com/lk2023060901/tensor-garden-go/pkg/log"
	"github.com/lk2023060901/tensor-garden-go/pkg/util/merr"
)

type AssemblerSuite struct {
	suite.Suite

	reg *Registry
}

func (s *AssemblerSuite) SetupTest() {
	s.reg = DefaultRegistry()
}

func (s *AssemblerSuite) TestDefaultNames() {
	s.Equal("output-1", DefaultOutputName(1))
	s.Equal("input-2", DefaultInputName(2))
}

func (s *AssemblerSuite) TestEncodeResponseFromArray() {
	resp, err := EncodeInferenceResponse(s.reg, tensor.NewVector([]int64{1, 2, 3, 4}), "sum-model", "v1")
	s.NoError(err)
	s.Equal("sum-model", resp.ModelName)
	s.Equal("v1", resp.ModelVersion)
	s.Len(resp.Outputs, 1)

	out := resp.Outputs[0]
	s.Equal("output-1", out.Name)
	s.Equal(dataplane.INT64, out.Datatype)
	s.Equal([]int64{4}, out.Shape)
	s.Len(out.Data, 4)
}

func (s *AssemblerSuite) TestEncodeResponseFromStrings() {
	resp, err := EncodeInferenceResponse(s.reg, tensor.Strings{"asd"}, "echo", "")
	s.NoError(err)
	s.Len(resp.Outputs, 1)
	s.Equal(dataplane.BYTES, resp.Outputs[0].Datatype)
	s.Equal([]byte("asd"), resp.Outputs[0].Data[0])
}

func (s *AssemblerSuite) TestEncodeResponseFromTable() {
	table, err := tensor.NewTable(
		tensor.Column{Name: "a", Value: tensor.NewVector([]int64{1, 2, 3})},
		tensor.Column{Name: "b", Value: tensor.Strings{"A", "B", "C"}},
	)
	s.NoError(err)

	resp, err := EncodeInferenceResponse(s.reg, table, "frame-model", "")
	s.NoError(err)
	s.Len(resp.Outputs, 2)

	s.Equal("a", resp.Outputs[0].Name)
	s.Equal(dataplane.INT64, resp.Outputs[0].Datatype)
	s.Equal("b", resp.Outputs[1].Name)
	s.Equal(dataplane.BYTES, resp.Outputs[1].Datatype)
}

func (s *AssemblerSuite) TestEncodeResponseUnsupported() {
	_, err := EncodeInferenceResponse(s.reg, nil, "m", "")
	s.ErrorIs(err, merr.ErrUnsupportedValue)
}

func (s *AssemblerSuite) TestEncodeResponseOutput() {
	requested := &dataplane.RequestOutput{
		Name:       "scores",
		Parameters: dataplane.Parameters{}.SetContentType(ContentTypeString),
	}
	out, err := EncodeResponseOutput(s.reg, tensor.Strings{"x", "y"}, requested, nil)
	s.NoError(err)
	s.NotNil(out)
	s.Equal("scores", out.Name)
	s.Equal(dataplane.BYTES, out.Datatype)
}

func (s *AssemblerSuite) TestEncodeResponseOutputMetadataFallback() {
	meta := map[string]*dataplane.MetadataTensor{
		"when": {
			Name:       "when",
			Datatype:   dataplane.BYTES,
			Parameters: dataplane.Parameters{}.SetContentType(ContentTypeDatetime),
		},
	}
	requested := &dataplane.RequestOutput{Name: "when"}

	out, err := EncodeResponseOutput(s.reg, tensor.Datetimes{time.Unix(0, 0).UTC()}, requested, meta)
	s.NoError(err)
	s.NotNil(out)
	s.Equal([]byte("1970-01-01T00:00:00Z"), out.Data[0])
}

func (s *AssemblerSuite) TestEncodeResponseOutputSkips() {
	// 声明了未注册的内容类型：跳过而不是失败。
	requested := &dataplane.RequestOutput{
		Name:       "x",
		Parameters: dataplane.Parameters{}.SetContentType("parquet"),
	}
	out, err := EncodeResponseOutput(s.reg, tensor.Strings{"v"}, requested, nil)
	s.NoError(err)
	s.Nil(out)

	// 声明的编解码器处理不了该值类别：同样跳过。
	requested = &dataplane.RequestOutput{
		Name:       "x",
		Parameters: dataplane.Parameters{}.SetContentType(ContentTypeArray),
	}
	out, err = EncodeResponseOutput(s.reg, tensor.Strings{"v"}, requested, nil)
	s.NoError(err)
	s.Nil(out)

	// nil 值没有输出。
	out, err = EncodeResponseOutput(s.reg, nil, &dataplane.RequestOutput{Name: "x"}, nil)
	s.NoError(err)
	s.Nil(out)
}

func (s *AssemblerSuite) TestEncodeRequest() {
	req, err := EncodeInferenceRequest(s.reg, tensor.NewVector([]float32{0.5}))
	s.NoError(err)
	s.Len(req.Inputs, 1)
	s.Equal("input-1", req.Inputs[0].Name)
	s.Equal(dataplane.FP32, req.Inputs[0].Datatype)

	table, err := tensor.NewTable(
		tensor.Column{Name: "a", Value: tensor.NewVector([]int64{1})},
		tensor.Column{Name: "b", Value: tensor.Strings{"x"}},
	)
	s.NoError(err)

	req, err = EncodeInferenceRequest(s.reg, table)
	s.NoError(err)
	s.Len(req.Inputs, 2)
	s.Equal("a", req.Inputs[0].Name)
	s.Equal("b", req.Inputs[1].Name)
}

func (s *AssemblerSuite) TestDecodeRequest() {
	req := &dataplane.InferenceRequest{
		Inputs: []dataplane.RequestInput{
			{
				Name:     "numbers",
				Datatype: dataplane.INT64,
				Shape:    []int64{2},
				Data:     dataplane.TensorData{1, 2},
			},
			{
				Name:     "comment",
				Datatype: dataplane.BYTES,
				Shape:    []int64{1},
				Data:     dataplane.TensorData{[]byte("asd")},
			},
		},
	}

	decoded, err := DecodeInferenceRequest(s.reg, req, nil)
	s.NoError(err)
	s.NoError(decoded.Err())
	s.Equal(2, decoded.Len())

	fields := decoded.Fields()
	s.Equal("numbers", fields[0].Name)
	s.Equal(StateDecoded, fields[0].State)
	s.Equal("comment", fields[1].Name)

	v, ok := decoded.Value("comment")
	s.True(ok)
	s.Equal(tensor.Strings{"asd"}, v)
}

func (s *AssemblerSuite) TestDecodeRequestSkipVsFail() {
	req := &dataplane.InferenceRequest{
		Inputs: []dataplane.RequestInput{
			{
				// 未注册的内容类型：Skipped。
				Name:       "skipped",
				Datatype:   dataplane.BYTES,
				Shape:      []int64{1},
				Data:       dataplane.TensorData{[]byte("x")},
				Parameters: dataplane.Parameters{}.SetContentType("parquet"),
			},
			{
				// 真正的解码错误：Failed。
				Name:       "broken",
				Datatype:   dataplane.BYTES,
				Shape:      []int64{1},
				Data:       dataplane.TensorData{[]byte("yesterday")},
				Parameters: dataplane.Parameters{}.SetContentType(ContentTypeDatetime),
			},
		},
	}

	decoded, err := DecodeInferenceRequest(s.reg, req, nil)
	s.NoError(err)

	fields := decoded.Fields()
	s.Equal(StateSkipped, fields[0].State)
	s.ErrorIs(fields[0].Err, merr.ErrCodecNotFound)
	s.Equal(StateFailed, fields[1].State)
	s.ErrorIs(fields[1].Err, merr.ErrTensorData)

	// 汇总错误只包含真正失败的字段。
	err = decoded.Err()
	s.ErrorIs(err, merr.ErrTensorData)
	s.NotErrorIs(err, merr.ErrCodecNotFound)

	_, ok := decoded.Value("skipped")
	s.False(ok)
}

func (s *AssemblerSuite) TestDecodeSkipWarnsWithTensorField() {
	buf := &zaptest.Buffer{}
	logger, props, err := log.InitLoggerWithWriteSyncer(&log.Config{Level: "warn", Format: "text"}, buf)
	s.NoError(err)
	log.ReplaceGlobals(logger, props)

	req := &dataplane.InferenceRequest{
		Inputs: []dataplane.RequestInput{{
			// 请求级内容类型用在单张量上：Skipped，并输出告警。
			Name:       "frame",
			Datatype:   dataplane.BYTES,
			Shape:      []int64{1},
			Data:       dataplane.TensorData{[]byte("hi")},
			Parameters: dataplane.Parameters{}.SetContentType(ContentTypeTable),
		}},
	}

	decoded, err := DecodeInferenceRequest(s.reg, req, nil)
	s.NoError(err)

	fields := decoded.Fields()
	s.Equal(StateSkipped, fields[0].State)
	s.ErrorIs(fields[0].Err, merr.ErrOperationNotSupported)

	out := buf.Stripped()
	s.Contains(out, "skip request input")
	s.Contains(out, log.FieldNameTensor)
	s.Contains(out, "frame")
}

func (s *AssemblerSuite) TestDecodeRequestDuplicateNames() {
	req := &dataplane.InferenceRequest{
		Inputs: []dataplane.RequestInput{
			{Name: "a", Datatype: dataplane.INT64, Shape: []int64{1}, Data: dataplane.TensorData{1}},
			{Name: "a", Datatype: dataplane.INT64, Shape: []int64{1}, Data: dataplane.TensorData{2}},
		},
	}
	_, err := DecodeInferenceRequest(s.reg, req, nil)
	s.ErrorIs(err, merr.ErrDuplicateTensorName)
}

func (s *AssemblerSuite) TestDecodeHint() {
	native := tensor.Strings{"already", "decoded"}
	req := &dataplane.InferenceRequest{
		Inputs: []dataplane.RequestInput{{
			Name:     "x",
			Datatype: dataplane.INT64,
			Shape:    []int64{1},
			// 张量数据与旁路值刻意不一致，验证解码被完全绕过。
			Data:       dataplane.TensorData{42},
			Parameters: dataplane.Parameters{}.SetDecoded(native),
		}},
	}

	v, err := DecodeSingleInput(s.reg, req, nil)
	s.NoError(err)
	s.Equal(native, v)
}

func (s *AssemblerSuite) TestDecodeHintWrongType() {
	req := &dataplane.InferenceRequest{
		Inputs: []dataplane.RequestInput{{
			Name:       "x",
			Datatype:   dataplane.INT64,
			Shape:      []int64{1},
			Data:       dataplane.TensorData{1},
			Parameters: dataplane.Parameters{}.SetDecoded("not a tensor value"),
		}},
	}

	decoded, err := DecodeInferenceRequest(s.reg, req, nil)
	s.NoError(err)
	s.Equal(StateFailed, decoded.Fields()[0].State)
	s.ErrorIs(decoded.Err(), merr.ErrUnsupportedValue)
}

func (s *AssemblerSuite) TestDecodeSingleInput() {
	one := dataplane.RequestInput{
		Name:     "x",
		Datatype: dataplane.INT64,
		Shape:    []int64{1},
		Data:     dataplane.TensorData{7},
	}

	req := &dataplane.InferenceRequest{Inputs: []dataplane.RequestInput{one}}
	v, err := DecodeSingleInput(s.reg, req, nil)
	s.NoError(err)
	elems, ok := tensor.Elems[int64](v.(*tensor.Array))
	s.True(ok)
	s.Equal([]int64{7}, elems)

	// 两个输入无法判断该返回哪一个。
	two := one
	two.Name = "y"
	req = &dataplane.InferenceRequest{Inputs: []dataplane.RequestInput{one, two}}
	_, err = DecodeSingleInput(s.reg, req, nil)
	s.ErrorIs(err, merr.ErrSingleInputAmbiguous)

	// 零个也一样。
	req = &dataplane.InferenceRequest{}
	_, err = DecodeSingleInput(s.reg, req, nil)
	s.ErrorIs(err, merr.ErrSingleInputAmbiguous)
}

func (s *AssemblerSuite) TestDecodeFirstInput() {
	req := &dataplane.InferenceRequest{
		Inputs: []dataplane.RequestInput{
			{Name: "x", Datatype: dataplane.INT64, Shape: []int64{1}, Data: dataplane.TensorData{1}},
			{Name: "y", Datatype: dataplane.INT64, Shape: []int64{1}, Data: dataplane.TensorData{2}},
		},
	}

	v, err := DecodeFirstInput(s.reg, req, nil)
	s.NoError(err)
	elems, ok := tensor.Elems[int64](v.(*tensor.Array))
	s.True(ok)
	s.Equal([]int64{1}, elems)

	_, err = DecodeFirstInput(s.reg, &dataplane.InferenceRequest{}, nil)
	s.ErrorIs(err, merr.ErrSingleInputAmbiguous)
}

func (s *AssemblerSuite) TestDecodeSingleOutput() {
	resp := &dataplane.InferenceResponse{
		ModelName: "echo",
		Outputs: []dataplane.ResponseOutput{{
			Name:     "output-1",
			Datatype: dataplane.BYTES,
			Shape:    []int64{1},
			Data:     dataplane.TensorData{[]byte("hello")},
		}},
	}

	v, err := DecodeSingleOutput(s.reg, resp, nil)
	s.NoError(err)
	s.Equal(tensor.Strings{"hello"}, v)

	resp.Outputs = append(resp.Outputs, resp.Outputs[0])
	resp.Outputs[1].Name = "output-2"
	_, err = DecodeSingleOutput(s.reg, resp, nil)
	s.ErrorIs(err, merr.ErrSingleOutputAmbiguous)
}

func (s *AssemblerSuite) TestTableRoundTrip() {
	table, err := tensor.NewTable(
		tensor.Column{Name: "a", Value: tensor.NewVector([]int64{1, 2, 3})},
		tensor.Column{Name: "b", Value: tensor.Strings{"A", "B", "C"}},
	)
	s.NoError(err)

	req, err := EncodeInferenceRequest(s.reg, table)
	s.NoError(err)

	back, err := DecodeTableRequest(s.reg, req)
	s.NoError(err)
	s.Equal(2, back.Len())

	cols := back.Columns()
	s.Equal("a", cols[0].Name)
	elems, ok := tensor.Elems[int64](cols[0].Value.(*tensor.Array))
	s.True(ok)
	s.Equal([]int64{1, 2, 3}, elems)

	s.Equal("b", cols[1].Name)
	s.Equal(tensor.Strings{"A", "B", "C"}, cols[1].Value)
}

func (s *AssemblerSuite) TestTableRoundTripBytesAndDatetimes() {
	when := time.Date(2021, 2, 25, 12, 0, 0, 0, time.UTC)
	table, err := tensor.NewTable(
		tensor.Column{Name: "payload", Value: tensor.Bytes{[]byte("hello")}},
		tensor.Column{Name: "when", Value: tensor.Datetimes{when}},
	)
	s.NoError(err)

	req, err := EncodeInferenceRequest(s.reg, table)
	s.NoError(err)
	s.Len(req.Inputs, 2)

	// 列张量必须携带所选编解码器的内容类型，
	// 否则两个 BYTES 列在解码侧都会退化成字符串序列。
	ct, ok := req.Inputs[0].Parameters.ContentType()
	s.True(ok)
	s.Equal(ContentTypeBase64, ct)
	ct, ok = req.Inputs[1].Parameters.ContentType()
	s.True(ok)
	s.Equal(ContentTypeDatetime, ct)

	back, err := DecodeTableRequest(s.reg, req)
	s.NoError(err)

	cols := back.Columns()
	s.Equal("payload", cols[0].Name)
	s.Equal(tensor.Bytes{[]byte("hello")}, cols[0].Value)
	s.Equal("when", cols[1].Name)
	got, ok := cols[1].Value.(tensor.Datetimes)
	s.True(ok)
	s.Len(got, 1)
	s.True(got[0].Equal(when))
}

func (s *AssemblerSuite) TestTableDecodeDuplicateColumns() {
	req := &dataplane.InferenceRequest{
		Inputs: []dataplane.RequestInput{
			{Name: "a", Datatype: dataplane.INT64, Shape: []int64{1}, Data: dataplane.TensorData{1}},
			{Name: "a", Datatype: dataplane.INT64, Shape: []int64{1}, Data: dataplane.TensorData{2}},
		},
	}
	_, err := DecodeTableRequest(s.reg, req)
	s.ErrorIs(err, merr.ErrDuplicateTensorName)
}

func TestAssembler(t *testing.T) {
	suite.Run(t, new(AssemblerSuite))
}
