package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FieldNameModule      = "module"
	FieldNameComponent   = "component"
	FieldNameModel       = "model"
	FieldNameTensor      = "tensor"
	FieldNameContentType = "contentType"
)

// FieldModule 返回一个包含模块名的 zap 字段。
func FieldModule(module string) zap.Field {
	return zap.String(FieldNameModule, module)
}

// FieldComponent 返回一个包含组件名的 zap 字段。
func FieldComponent(component string) zap.Field {
	return zap.String(FieldNameComponent, component)
}

// FieldModel 返回一个包含模型名的 zap 字段。
func FieldModel(model string) zap.Field {
	return zap.String(FieldNameModel, model)
}

// FieldTensor 返回一个包含张量名的 zap 字段。
func FieldTensor(name string) zap.Field {
	return zap.String(FieldNameTensor, name)
}

// FieldContentType 返回一个包含 content type 的 zap 字段。
func FieldContentType(ct string) zap.Field {
	return zap.String(FieldNameContentType, ct)
}

// FieldMessage 返回一个包含消息对象的 zap 字段。
func FieldMessage(msg zapcore.ObjectMarshaler) zap.Field {
	return zap.Object("message", msg)
}
