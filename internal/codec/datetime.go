package codec

import (
	"time"

	"github.com/lk2023060901/tensor-garden-go/internal/dataplane"
	"github.com/lk2023060901/tensor-garden-go/internal/tensor"
	"github.com/lk2023060901/tensor-garden-go/pkg/util/merr"
)

// DatetimeCodec 在时间戳序列与 BYTES 张量之间互转，内容类型 "datetime"。
// 线上元素是 RFC 3339 文本的原始字节；编码保留调用方时间戳的时区偏移。
type DatetimeCodec struct{}

var _ Codec = DatetimeCodec{}

func (DatetimeCodec) ContentType() string {
	return ContentTypeDatetime
}

func (DatetimeCodec) CanEncode(v tensor.Value) bool {
	return v.Kind() == tensor.KindDatetimes
}

func (c DatetimeCodec) Encode(name string, v tensor.Value) (*dataplane.Tensor, error) {
	times, ok := v.(tensor.Datetimes)
	if !ok {
		return nil, merr.WrapErrUnsupportedValue(v.Kind().String(), "encode tensor "+name)
	}

	data := make(dataplane.TensorData, len(times))
	for i, ts := range times {
		data[i] = []byte(ts.Format(time.RFC3339))
	}

	return &dataplane.Tensor{
		Name:     name,
		Shape:    []int64{int64(len(times))},
		Datatype: dataplane.BYTES,
		Data:     data,
	}, nil
}

func (c DatetimeCodec) Decode(t *dataplane.Tensor) (tensor.Value, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	times := make(tensor.Datetimes, len(t.Data))
	for i, elem := range t.Data {
		b, ok := toBytes(elem)
		if !ok {
			return nil, merr.WrapErrTensorData(t.Name, elem, string(t.Datatype))
		}
		ts, err := time.Parse(time.RFC3339, string(b))
		if err != nil {
			return nil, merr.WrapErrTensorData(t.Name, elem, string(t.Datatype), "parse datetime: "+err.Error())
		}
		times[i] = ts
	}
	return times, nil
}
