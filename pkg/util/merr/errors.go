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
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

const (
	CanceledCode int32 = 10000
	TimeoutCode  int32 = 10001
)

type ErrorType int32

const (
	SystemError ErrorType = 0
	InputError  ErrorType = 1
)

var ErrorTypeName = map[ErrorType]string{
	SystemError: "system_error",
	InputError:  "input_error",
}

func (err ErrorType) String() string {
	return ErrorTypeName[err]
}

// Define leaf errors here,
// WARN: take care to add new error,
// check whether you can use the errors below before adding a new one.
// Name: Err + related prefix + error name
//
// 错误码按区间划分：
//   1xxx 类型映射（native 元素类型 <-> 数据面 datatype）
//   2xxx 编解码结构性错误（shape 与数据不一致、名称冲突、单输入歧义等）
//   3xxx 内容类型注册表查找
var (
	// Datatype mapping related
	ErrUnsupportedType     = newZeusError("unsupported native element type", 1001, false)
	ErrUnsupportedValue    = newZeusError("unsupported native value kind", 1002, false)
	ErrUnsupportedDatatype = newZeusError("unsupported wire datatype", 1003, false)

	// Codec structural related
	ErrTensorShapeMismatch   = newZeusError("tensor shape does not match data length", 2001, false)
	ErrTensorData            = newZeusError("tensor data element does not fit declared datatype", 2002, false)
	ErrDuplicateTensorName   = newZeusError("duplicate tensor name", 2003, false)
	ErrSingleInputAmbiguous  = newZeusError("request does not carry exactly one input", 2004, false)
	ErrSingleOutputAmbiguous = newZeusError("response does not carry exactly one output", 2005, false)
	ErrTensorShapeInvalid    = newZeusError("tensor shape is invalid", 2006, false)

	// Content-type registry related
	ErrCodecNotFound = newZeusError("no codec registered for content type", 3001, false)

	// General
	ErrOperationNotSupported = newZeusError("unsupported operation", 9000, false)

	errUnexpected = newZeusError("unexpected error", 9001, false)
)

type errorOption func(*zeusError)

func WithDetail(detail string) errorOption {
	return func(err *zeusError) {
		err.detail = detail
	}
}

func WithErrorType(etype ErrorType) errorOption {
	return func(err *zeusError) {
		err.errType = etype
	}
}

type zeusError struct {
	msg       string
	detail    string
	retriable bool
	errCode   int32
	errType   ErrorType
}

func newZeusError(msg string, code int32, retriable bool, options ...errorOption) zeusError {
	err := zeusError{
		msg:       msg,
		detail:    msg,
		retriable: retriable,
		errCode:   code,
	}

	for _, option := range options {
		option(&err)
	}
	return err
}

func (e zeusError) code() int32 {
	return e.errCode
}

func (e zeusError) Error() string {
	return e.msg
}

func (e zeusError) Detail() string {
	return e.detail
}

func (e zeusError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(zeusError); ok {
		return e.errCode == cause.errCode
	}
	return false
}

type multiErrors struct {
	errs []error
}

func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	// To make merr work for multi errors,
	// we need cause of multi errors, which defined as the last error
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}
