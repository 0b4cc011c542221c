// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/lk2023060901/tensor-garden-go/pkg/log"
)

const InputErrorFlagKey string = "is_input_error"

// Code 返回给定错误对应的错误码。
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	cause := errors.Cause(err)
	switch specificErr := cause.(type) {
	case zeusError:
		return specificErr.code()

	default:
		if errors.Is(specificErr, context.Canceled) {
			return CanceledCode
		} else if errors.Is(specificErr, context.DeadlineExceeded) {
			return TimeoutCode
		} else {
			return errUnexpected.code()
		}
	}
}

func IsRetryableErr(err error) bool {
	if err, ok := err.(zeusError); ok {
		return err.retriable
	}

	return false
}

func IsCanceledOrTimeout(err error) bool {
	return errors.IsAny(err, context.Canceled, context.DeadlineExceeded)
}

// IsUnsupportedTypeErr 判断错误是否属于类型映射类错误（1xxx 区间）。
func IsUnsupportedTypeErr(err error) bool {
	code := Code(err)
	return code >= 1000 && code < 2000
}

// IsCodecErr 判断错误是否属于编解码结构性错误（2xxx 区间）。
func IsCodecErr(err error) bool {
	code := Code(err)
	return code >= 2000 && code < 3000
}

// IsCodecNotFoundErr 判断错误是否属于注册表查找错误（3xxx 区间）。
func IsCodecNotFoundErr(err error) bool {
	code := Code(err)
	return code >= 3000 && code < 4000
}

func WrapErrAsInputError(err error) error {
	if merr, ok := err.(zeusError); ok {
		WithErrorType(InputError)(&merr)
		return merr
	}
	return err
}

func WrapErrAsInputErrorWhen(err error, targets ...zeusError) error {
	if merr, ok := err.(zeusError); ok {
		for _, target := range targets {
			if target.errCode == merr.errCode {
				log.Info("mark error as input error", zap.Error(err))
				WithErrorType(InputError)(&merr)
				return merr
			}
		}
	}
	return err
}

func GetErrorType(err error) ErrorType {
	if merr, ok := err.(zeusError); ok {
		return merr.errType
	}

	return SystemError
}

// Datatype 映射相关错误封装。
func WrapErrUnsupportedType(elemType string, msg ...string) error {
	err := wrapFields(ErrUnsupportedType, value("type", elemType))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrUnsupportedValue(kind string, msg ...string) error {
	err := wrapFields(ErrUnsupportedValue, value("kind", kind))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrUnsupportedDatatype(datatype string, msg ...string) error {
	err := wrapFields(ErrUnsupportedDatatype, value("datatype", datatype))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// 编解码结构相关错误封装。
func WrapErrTensorShapeMismatch(name string, expected int64, actual int, msg ...string) error {
	err := wrapFields(ErrTensorShapeMismatch,
		value("tensor", name),
		value("shapeElems", expected),
		value("dataElems", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrTensorShapeInvalid(name string, shape []int64, msg ...string) error {
	err := wrapFields(ErrTensorShapeInvalid,
		value("tensor", name),
		value("shape", shape),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrTensorData(name string, elem any, datatype string, msg ...string) error {
	err := wrapFields(ErrTensorData,
		value("tensor", name),
		value("element", elem),
		value("datatype", datatype),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrDuplicateTensorName(name string, msg ...string) error {
	err := wrapFields(ErrDuplicateTensorName, value("tensor", name))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrSingleInputAmbiguous(count int, msg ...string) error {
	err := wrapFields(ErrSingleInputAmbiguous, value("inputs", count))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrSingleOutputAmbiguous(count int, msg ...string) error {
	err := wrapFields(ErrSingleOutputAmbiguous, value("outputs", count))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// 注册表相关错误封装。
func WrapErrCodecNotFound(contentType string, msg ...string) error {
	err := wrapFields(ErrCodecNotFound, value("contentType", contentType))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrOperationNotSupported(operation string, msg ...string) error {
	err := wrapFields(ErrOperationNotSupported, value("operation", operation))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func wrapFields(err zeusError, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.detail = err.msg
	return err
}

func wrapFieldsWithDesc(err zeusError, desc string, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.msg += ": " + desc
	err.detail = err.msg
	return err
}

type errorField interface {
	String() string
}

type valueField struct {
	name  string
	value any
}

func value(name string, value any) valueField {
	return valueField{
		name,
		value,
	}
}

func (f valueField) String() string {
	return fmt.Sprintf("%s=%v", f.name, f.value)
}
