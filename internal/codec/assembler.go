package codec

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/lk2023060901/tensor-garden-go/internal/dataplane"
	"github.com/lk2023060901/tensor-garden-go/internal/tensor"
	"github.com/lk2023060901/tensor-garden-go/pkg/log"
	"github.com/lk2023060901/tensor-garden-go/pkg/util/merr"
	"github.com/lk2023060901/tensor-garden-go/pkg/util/typeutil"
)

// DefaultOutputName 返回第 index 个（从 1 起）位置输出的默认名。
func DefaultOutputName(index int) string {
	return fmt.Sprintf("output-%d", index)
}

// DefaultInputName 返回第 index 个（从 1 起）位置输入的默认名。
func DefaultInputName(index int) string {
	return fmt.Sprintf("input-%d", index)
}

// EncodeInferenceResponse 将一个 native 结果值组装为完整的推理响应。
//
// 表格按列拆成多个输出；其余可编码的值成为名为 output-1 的单个输出。
// 没有任何编解码器能处理的值类别返回 ErrUnsupportedValue。
func EncodeInferenceResponse(reg *Registry, v tensor.Value, modelName, modelVersion string) (*dataplane.InferenceResponse, error) {
	if v == nil {
		return nil, merr.WrapErrUnsupportedValue("nil", "encode response")
	}

	var outputs []dataplane.ResponseOutput
	if table, ok := v.(*tensor.Table); ok {
		encoded, err := reg.Table().Encode(table)
		if err != nil {
			return nil, err
		}
		outputs = encoded
	} else {
		c, ok := reg.DefaultFor(v)
		if !ok {
			return nil, merr.WrapErrUnsupportedValue(v.Kind().String(), "encode response")
		}
		encoded, err := c.Encode(DefaultOutputName(1), v)
		if err != nil {
			return nil, err
		}
		outputs = []dataplane.ResponseOutput{*encoded}
	}

	return &dataplane.InferenceResponse{
		ModelName:    modelName,
		ModelVersion: modelVersion,
		Outputs:      outputs,
	}, nil
}

// EncodeResponseOutput 按请求方声明与模型元数据编码单个输出。
//
// 内容类型优先取 RequestOutput 自身参数，其次取同名输出元数据；
// 都没有时按值类别匹配默认编解码器。找不到适用编解码器时返回
// (nil, nil)，表示调用方应当略过该输出而不是让整个响应失败。
func EncodeResponseOutput(reg *Registry, v tensor.Value, requestOutput *dataplane.RequestOutput, metadataOutputs map[string]*dataplane.MetadataTensor) (*dataplane.ResponseOutput, error) {
	if v == nil {
		return nil, nil
	}

	contentType, declared := requestOutput.Parameters.ContentType()
	if !declared {
		if meta, ok := metadataOutputs[requestOutput.Name]; ok && meta != nil {
			contentType, declared = meta.Parameters.ContentType()
		}
	}

	var c Codec
	if declared {
		resolved, err := reg.Codec(contentType)
		if err != nil {
			log.Warn("skip response output: declared content type has no codec",
				log.FieldTensor(requestOutput.Name),
				log.FieldContentType(contentType))
			return nil, nil
		}
		c = resolved
	} else {
		resolved, ok := reg.DefaultFor(v)
		if !ok {
			return nil, nil
		}
		c = resolved
	}

	if !c.CanEncode(v) {
		log.Warn("skip response output: codec cannot encode value kind",
			log.FieldTensor(requestOutput.Name),
			log.FieldContentType(c.ContentType()),
			zap.String("kind", v.Kind().String()))
		return nil, nil
	}

	return c.Encode(requestOutput.Name, v)
}

// EncodeInferenceRequest 将一个 native 值组装为完整的推理请求。
// 表格按列拆成多个输入；其余可编码的值成为名为 input-1 的单个输入。
func EncodeInferenceRequest(reg *Registry, v tensor.Value) (*dataplane.InferenceRequest, error) {
	if v == nil {
		return nil, merr.WrapErrUnsupportedValue("nil", "encode request")
	}

	var inputs []dataplane.RequestInput
	if table, ok := v.(*tensor.Table); ok {
		encoded, err := reg.Table().Encode(table)
		if err != nil {
			return nil, err
		}
		inputs = encoded
	} else {
		c, ok := reg.DefaultFor(v)
		if !ok {
			return nil, merr.WrapErrUnsupportedValue(v.Kind().String(), "encode request")
		}
		encoded, err := c.Encode(DefaultInputName(1), v)
		if err != nil {
			return nil, err
		}
		inputs = []dataplane.RequestInput{*encoded}
	}

	return &dataplane.InferenceRequest{Inputs: inputs}, nil
}

// DecodeInferenceRequest 独立解码请求的每个输入，结果保持输入声明顺序。
//
// 单个输入失败不会使整个请求失败：无适用编解码器的输入标记为 Skipped，
// 真正的解码错误标记为 Failed 并携带指明输入名的错误。输入名在请求内
// 重复属于结构性错误，直接使整个调用失败。
func DecodeInferenceRequest(reg *Registry, req *dataplane.InferenceRequest, metadataInputs map[string]*dataplane.MetadataTensor) (*DecodedRequest, error) {
	seen := typeutil.NewSet[string]()
	result := &DecodedRequest{
		fields: make([]FieldResult, 0, len(req.Inputs)),
		byName: make(map[string]int, len(req.Inputs)),
	}

	for i := range req.Inputs {
		input := &req.Inputs[i]
		if seen.Contain(input.Name) {
			return nil, merr.WrapErrDuplicateTensorName(input.Name, "decode request inputs")
		}
		seen.Insert(input.Name)

		result.byName[input.Name] = len(result.fields)
		result.fields = append(result.fields, decodeRequestInput(reg, input, metadataInputs[input.Name], req.Parameters))
	}

	return result, nil
}

// decodeRequestInput 解码单个输入。
//
// 参数中携带解码旁路值时原样返回，完全绕过编解码器与注册表。
func decodeRequestInput(reg *Registry, input *dataplane.RequestInput, meta *dataplane.MetadataTensor, requestParams dataplane.Parameters) FieldResult {
	if decoded, ok := input.Parameters.Decoded(); ok {
		value, ok := decoded.(tensor.Value)
		if !ok {
			return FieldResult{
				Name:  input.Name,
				State: StateFailed,
				Err:   merr.WrapErrUnsupportedValue(fmt.Sprintf("%T", decoded), "decoded payload of input "+input.Name),
			}
		}
		return FieldResult{Name: input.Name, State: StateDecoded, Value: value}
	}

	c, err := reg.ResolveDecode(input, meta, requestParams)
	if err != nil {
		log.Warn("skip request input: no codec resolved",
			log.FieldTensor(input.Name),
			zap.Error(err))
		return FieldResult{
			Name:  input.Name,
			State: StateSkipped,
			Err:   errors.Wrapf(err, "input %q", input.Name),
		}
	}

	value, err := c.Decode(input)
	if err != nil {
		return FieldResult{
			Name:  input.Name,
			State: StateFailed,
			Err:   errors.Wrapf(err, "input %q", input.Name),
		}
	}
	return FieldResult{Name: input.Name, State: StateDecoded, Value: value}
}

// Err 汇总请求解码中真正失败的字段错误；没有失败时返回 nil。
func (r *DecodedRequest) Err() error {
	errs := lo.FilterMap(r.fields, func(field FieldResult, _ int) (error, bool) {
		return field.Err, field.State == StateFailed
	})
	return merr.Combine(errs...)
}

// DecodeSingleInput 是严格单输入的便捷路径。
//
// 请求必须恰好携带一个输入，多于一个意味着无法判断该返回哪个，
// 直接失败而不是悄悄取第一个；该路径上任何字段级失败都会升级为
// 调用级失败。
func DecodeSingleInput(reg *Registry, req *dataplane.InferenceRequest, metadataInputs map[string]*dataplane.MetadataTensor) (tensor.Value, error) {
	if len(req.Inputs) != 1 {
		return nil, merr.WrapErrSingleInputAmbiguous(len(req.Inputs))
	}

	input := &req.Inputs[0]
	field := decodeRequestInput(reg, input, metadataInputs[input.Name], req.Parameters)
	if field.State != StateDecoded {
		return nil, field.Err
	}
	return field.Value, nil
}

// DecodeFirstInput 只解码第一个声明的输入并忽略其余输入。
// 供结构上只接受单个数组参数的调用方使用，解码旁路值同样生效。
func DecodeFirstInput(reg *Registry, req *dataplane.InferenceRequest, metadataInputs map[string]*dataplane.MetadataTensor) (tensor.Value, error) {
	if len(req.Inputs) == 0 {
		return nil, merr.WrapErrSingleInputAmbiguous(0)
	}

	input := &req.Inputs[0]
	field := decodeRequestInput(reg, input, metadataInputs[input.Name], req.Parameters)
	if field.State != StateDecoded {
		return nil, field.Err
	}
	return field.Value, nil
}

// DecodeSingleOutput 是响应侧的严格单输出便捷路径。
func DecodeSingleOutput(reg *Registry, resp *dataplane.InferenceResponse, metadataOutputs map[string]*dataplane.MetadataTensor) (tensor.Value, error) {
	if len(resp.Outputs) != 1 {
		return nil, merr.WrapErrSingleOutputAmbiguous(len(resp.Outputs))
	}

	output := &resp.Outputs[0]
	c, err := reg.ResolveDecode(output, metadataOutputs[output.Name], resp.Parameters)
	if err != nil {
		return nil, err
	}
	return c.Decode(output)
}

// DecodeTableRequest 将整个请求的输入重组为表格（内容类型 "pd" 的
// 请求级解码），输入顺序即列顺序。
func DecodeTableRequest(reg *Registry, req *dataplane.InferenceRequest) (*tensor.Table, error) {
	return reg.Table().Decode(req.Inputs)
}
