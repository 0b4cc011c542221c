// Copyright 2019 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// DefaultTimeEncoder 以可读格式序列化时间，精确到毫秒并带时区偏移。
func DefaultTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006/01/02 15:04:05.000 -07:00"))
}

// textEncoder 是 text 格式的编码器，基于 zapcore 编码器封装。
// textIOCore 依赖 addFields 来延迟合并 With 携带的字段。
type textEncoder struct {
	zapcore.Encoder
}

func (e *textEncoder) addFields(fields []zapcore.Field) {
	for _, field := range fields {
		field.AddTo(e.Encoder)
	}
}

func (e *textEncoder) Clone() zapcore.Encoder {
	return &textEncoder{Encoder: e.Encoder.Clone()}
}

// NewTextEncoderByConfig 按日志配置创建编码器。
// format 为 json 时输出结构化 JSON，text 与 console 输出单行可读格式。
func NewTextEncoderByConfig(cfg *Config) zapcore.Encoder {
	ec := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "name",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     DefaultTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if cfg.DisableTimestamp {
		ec.TimeKey = zapcore.OmitKey
	}
	if cfg.DisableErrorVerbose {
		ec.StacktraceKey = zapcore.OmitKey
	}

	if strings.EqualFold(cfg.Format, "json") {
		return &textEncoder{Encoder: zapcore.NewJSONEncoder(ec)}
	}
	return &textEncoder{Encoder: zapcore.NewConsoleEncoder(ec)}
}
