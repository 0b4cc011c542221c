package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/tensor-garden-go/internal/dataplane"
	"github.com/lk2023060901/tensor-garden-go/internal/tensor"
	"github.com/lk2023060901/tensor-garden-go/pkg/util/merr"
)

type RegistrySuite struct {
	suite.Suite

	reg *Registry
}

func (s *RegistrySuite) SetupTest() {
	s.reg = DefaultRegistry()
}

func (s *RegistrySuite) TestLookup() {
	c, err := s.reg.Codec(ContentTypeArray)
	s.NoError(err)
	s.Equal(ContentTypeArray, c.ContentType())

	for _, ct := range []string{ContentTypeString, ContentTypeBase64, ContentTypeDatetime} {
		c, err := s.reg.Codec(ct)
		s.NoError(err)
		s.Equal(ct, c.ContentType())
	}

	_, err = s.reg.Codec("parquet")
	s.ErrorIs(err, merr.ErrCodecNotFound)
}

func (s *RegistrySuite) TestDefaultFor() {
	c, ok := s.reg.DefaultFor(tensor.NewVector([]int64{1}))
	s.True(ok)
	s.Equal(ContentTypeArray, c.ContentType())

	c, ok = s.reg.DefaultFor(tensor.Strings{"x"})
	s.True(ok)
	s.Equal(ContentTypeString, c.ContentType())

	c, ok = s.reg.DefaultFor(tensor.Bytes{[]byte("x")})
	s.True(ok)
	s.Equal(ContentTypeBase64, c.ContentType())

	c, ok = s.reg.DefaultFor(tensor.Datetimes{time.Now()})
	s.True(ok)
	s.Equal(ContentTypeDatetime, c.ContentType())

	table, err := tensor.NewTable(tensor.Column{Name: "a", Value: tensor.Strings{"x"}})
	s.NoError(err)
	_, ok = s.reg.DefaultFor(table)
	s.False(ok)
}

func (s *RegistrySuite) TestForWire() {
	c, err := s.reg.ForWire(&dataplane.Tensor{Datatype: dataplane.BYTES})
	s.NoError(err)
	s.Equal(ContentTypeString, c.ContentType())

	c, err = s.reg.ForWire(&dataplane.Tensor{Datatype: dataplane.FP32})
	s.NoError(err)
	s.Equal(ContentTypeArray, c.ContentType())
}

func (s *RegistrySuite) TestResolveDecodePriority() {
	t := &dataplane.Tensor{
		Name:     "x",
		Datatype: dataplane.BYTES,
		Shape:    []int64{1},
		Data:     dataplane.TensorData{[]byte("aGk=")},
	}
	meta := &dataplane.MetadataTensor{
		Name:       "x",
		Datatype:   dataplane.BYTES,
		Parameters: dataplane.Parameters{}.SetContentType(ContentTypeDatetime),
	}
	reqParams := dataplane.Parameters{}.SetContentType(ContentTypeString)

	// 张量参数压过元数据与请求参数。
	t.Parameters = dataplane.Parameters{}.SetContentType(ContentTypeBase64)
	c, err := s.reg.ResolveDecode(t, meta, reqParams)
	s.NoError(err)
	s.Equal(ContentTypeBase64, c.ContentType())

	// 没有张量参数时轮到元数据。
	t.Parameters = nil
	c, err = s.reg.ResolveDecode(t, meta, reqParams)
	s.NoError(err)
	s.Equal(ContentTypeDatetime, c.ContentType())

	// 再退到请求级参数。
	c, err = s.reg.ResolveDecode(t, nil, reqParams)
	s.NoError(err)
	s.Equal(ContentTypeString, c.ContentType())

	// 什么都没声明时按线型缺省。
	c, err = s.reg.ResolveDecode(t, nil, nil)
	s.NoError(err)
	s.Equal(ContentTypeString, c.ContentType())
}

func (s *RegistrySuite) TestResolveDecodeUnknownContentType() {
	t := &dataplane.Tensor{
		Name:       "x",
		Datatype:   dataplane.BYTES,
		Shape:      []int64{1},
		Data:       dataplane.TensorData{[]byte("hi")},
		Parameters: dataplane.Parameters{}.SetContentType("parquet"),
	}

	// 显式声明了未注册的内容类型不会退回默认。
	_, err := s.reg.ResolveDecode(t, nil, nil)
	s.ErrorIs(err, merr.ErrCodecNotFound)
}

func (s *RegistrySuite) TestTableContentTypeIsRequestLevel() {
	// "pd" 是请求级内容类型，单张量查找属于级别误用。
	_, err := s.reg.Codec(ContentTypeTable)
	s.ErrorIs(err, merr.ErrOperationNotSupported)

	t := &dataplane.Tensor{
		Name:       "frame",
		Datatype:   dataplane.BYTES,
		Shape:      []int64{1},
		Data:       dataplane.TensorData{[]byte("hi")},
		Parameters: dataplane.Parameters{}.SetContentType(ContentTypeTable),
	}
	_, err = s.reg.ResolveDecode(t, nil, nil)
	s.ErrorIs(err, merr.ErrOperationNotSupported)
}

func (s *RegistrySuite) TestRegistrationOverride() {
	// 同一内容类型后注册者覆盖先注册者，首次注册顺序保持不变。
	reg := NewRegistry(ArrayCodec{}, StringCodec{}, StringCodec{})
	c, err := reg.Codec(ContentTypeString)
	s.NoError(err)
	s.Equal(ContentTypeString, c.ContentType())

	c, ok := reg.DefaultFor(tensor.NewVector([]int32{1}))
	s.True(ok)
	s.Equal(ContentTypeArray, c.ContentType())
}

func TestRegistry(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}
