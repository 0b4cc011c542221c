package codec

import (
	"github.com/lk2023060901/tensor-garden-go/internal/dataplane"
	"github.com/lk2023060901/tensor-garden-go/internal/tensor"
	"github.com/lk2023060901/tensor-garden-go/pkg/util/merr"
)

// StringCodec 在字符串标量序列与 BYTES 张量之间互转，内容类型 "str"。
// 每个字符串按原始字节占据一个平铺槽位，shape 为 [长度]。
type StringCodec struct{}

var _ Codec = StringCodec{}

func (StringCodec) ContentType() string {
	return ContentTypeString
}

func (StringCodec) CanEncode(v tensor.Value) bool {
	return v.Kind() == tensor.KindStrings
}

func (c StringCodec) Encode(name string, v tensor.Value) (*dataplane.Tensor, error) {
	strs, ok := v.(tensor.Strings)
	if !ok {
		return nil, merr.WrapErrUnsupportedValue(v.Kind().String(), "encode tensor "+name)
	}

	data := make(dataplane.TensorData, len(strs))
	for i, s := range strs {
		data[i] = []byte(s)
	}

	return &dataplane.Tensor{
		Name:     name,
		Shape:    []int64{int64(len(strs))},
		Datatype: dataplane.BYTES,
		Data:     data,
	}, nil
}

func (c StringCodec) Decode(t *dataplane.Tensor) (tensor.Value, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	strs := make(tensor.Strings, len(t.Data))
	for i, elem := range t.Data {
		b, ok := toBytes(elem)
		if !ok {
			return nil, merr.WrapErrTensorData(t.Name, elem, string(t.Datatype))
		}
		strs[i] = string(b)
	}
	return strs, nil
}
