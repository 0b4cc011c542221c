package dataplane

import (
	"github.com/lk2023060901/tensor-garden-go/internal/json"
	"github.com/lk2023060901/tensor-garden-go/pkg/util/merr"
	"github.com/lk2023060901/tensor-garden-go/pkg/util/typeutil"
)

// TensorData 是张量的平铺数据，元素按行主序排列。
//
// 元素要么是数值/布尔标量，要么是 BYTES 类型下的字节串。
type TensorData []any

// MarshalJSON 实现 json.Marshaler。
// BYTES 元素（[]byte）以明文字符串形式上线，与协议其他实现保持一致，
// 避免标准库默认的 base64 表示破坏往返。
func (d TensorData) MarshalJSON() ([]byte, error) {
	wire := make([]any, len(d))
	for i, elem := range d {
		if b, ok := elem.([]byte); ok {
			wire[i] = string(b)
			continue
		}
		wire[i] = elem
	}
	return json.Marshal(wire)
}

// Tensor 是协议的数据交换单元：具名、带类型、带 shape 的平铺数组。
type Tensor struct {
	Name       string     `json:"name"`
	Shape      []int64    `json:"shape"`
	Datatype   Datatype   `json:"datatype"`
	Parameters Parameters `json:"parameters,omitempty"`
	Data       TensorData `json:"data"`
}

// RequestInput 与 ResponseOutput 的线上结构完全一致，这里用别名表达。
type (
	RequestInput   = Tensor
	ResponseOutput = Tensor
)

// Elements 返回 shape 各维的乘积，即张量应当包含的元素个数。
func (t *Tensor) Elements() int64 {
	total := int64(1)
	for _, dim := range t.Shape {
		total *= dim
	}
	return total
}

// Validate 校验张量的结构不变量：
//   - datatype 属于封闭枚举；
//   - shape 至少一维且各维非负；
//   - data 长度与 shape 乘积一致。
func (t *Tensor) Validate() error {
	if !t.Datatype.Valid() {
		return merr.WrapErrUnsupportedDatatype(string(t.Datatype), "validate tensor "+t.Name)
	}
	if len(t.Shape) == 0 {
		return merr.WrapErrTensorShapeInvalid(t.Name, t.Shape, "shape must have at least one dimension")
	}
	for _, dim := range t.Shape {
		if dim < 0 {
			return merr.WrapErrTensorShapeInvalid(t.Name, t.Shape, "negative dimension")
		}
	}
	if expected := t.Elements(); expected != int64(len(t.Data)) {
		return merr.WrapErrTensorShapeMismatch(t.Name, expected, len(t.Data))
	}
	return nil
}

// RequestOutput 表示请求方对某个输出的声明（名称与期望的内容类型）。
type RequestOutput struct {
	Name       string     `json:"name"`
	Parameters Parameters `json:"parameters,omitempty"`
}

// MetadataTensor 声明模型某个输入/输出的预期结构，独立于任何单次请求。
type MetadataTensor struct {
	Name       string     `json:"name"`
	Datatype   Datatype   `json:"datatype"`
	Shape      []int64    `json:"shape"`
	Parameters Parameters `json:"parameters,omitempty"`
}

// InferenceRequest 是一次推理请求的线上形式。
type InferenceRequest struct {
	ModelName    string          `json:"model_name,omitempty"`
	ModelVersion string          `json:"model_version,omitempty"`
	ID           string          `json:"id,omitempty"`
	Parameters   Parameters      `json:"parameters,omitempty"`
	Inputs       []RequestInput  `json:"inputs"`
	Outputs      []RequestOutput `json:"outputs,omitempty"`
}

// Validate 校验请求级不变量：输入名在请求内唯一，且每个输入自身合法。
func (r *InferenceRequest) Validate() error {
	seen := typeutil.NewSet[string]()
	for i := range r.Inputs {
		in := &r.Inputs[i]
		if seen.Contain(in.Name) {
			return merr.WrapErrDuplicateTensorName(in.Name, "validate request inputs")
		}
		seen.Insert(in.Name)
		if err := in.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// InferenceResponse 是一次推理响应的线上形式。
type InferenceResponse struct {
	ModelName    string           `json:"model_name"`
	ModelVersion string           `json:"model_version,omitempty"`
	ID           string           `json:"id,omitempty"`
	Parameters   Parameters       `json:"parameters,omitempty"`
	Outputs      []ResponseOutput `json:"outputs"`
}

// Validate 校验响应级不变量：输出名唯一，且每个输出自身合法。
func (r *InferenceResponse) Validate() error {
	seen := typeutil.NewSet[string]()
	for i := range r.Outputs {
		out := &r.Outputs[i]
		if seen.Contain(out.Name) {
			return merr.WrapErrDuplicateTensorName(out.Name, "validate response outputs")
		}
		seen.Insert(out.Name)
		if err := out.Validate(); err != nil {
			return err
		}
	}
	return nil
}
