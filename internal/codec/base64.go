package codec

import (
	"encoding/base64"

	"github.com/lk2023060901/tensor-garden-go/internal/dataplane"
	"github.com/lk2023060901/tensor-garden-go/internal/tensor"
	"github.com/lk2023060901/tensor-garden-go/pkg/util/merr"
)

// Base64Codec 在字节串序列与 BYTES 张量之间互转，内容类型 "base64"。
// 线上元素是 base64 文本；解不出的元素按原始字节保留，
// 与数据面其他实现对历史客户端的兼容行为一致。
type Base64Codec struct{}

var _ Codec = Base64Codec{}

func (Base64Codec) ContentType() string {
	return ContentTypeBase64
}

func (Base64Codec) CanEncode(v tensor.Value) bool {
	return v.Kind() == tensor.KindBytes
}

func (c Base64Codec) Encode(name string, v tensor.Value) (*dataplane.Tensor, error) {
	blobs, ok := v.(tensor.Bytes)
	if !ok {
		return nil, merr.WrapErrUnsupportedValue(v.Kind().String(), "encode tensor "+name)
	}

	data := make(dataplane.TensorData, len(blobs))
	for i, blob := range blobs {
		encoded := make([]byte, base64.StdEncoding.EncodedLen(len(blob)))
		base64.StdEncoding.Encode(encoded, blob)
		data[i] = encoded
	}

	return &dataplane.Tensor{
		Name:     name,
		Shape:    []int64{int64(len(blobs))},
		Datatype: dataplane.BYTES,
		Data:     data,
	}, nil
}

func (c Base64Codec) Decode(t *dataplane.Tensor) (tensor.Value, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	blobs := make(tensor.Bytes, len(t.Data))
	for i, elem := range t.Data {
		b, ok := toBytes(elem)
		if !ok {
			return nil, merr.WrapErrTensorData(t.Name, elem, string(t.Datatype))
		}
		decoded := make([]byte, base64.StdEncoding.DecodedLen(len(b)))
		n, err := base64.StdEncoding.Decode(decoded, b)
		if err != nil {
			blobs[i] = b
			continue
		}
		blobs[i] = decoded[:n]
	}
	return blobs, nil
}
