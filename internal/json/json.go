package json

import (
	"io"

	"github.com/bytedance/sonic"
)

// 本包基于 bytedance/sonic 封装出与标准库 encoding/json 兼容的接口，
// 模块内所有 JSON 编解码统一从这里走，避免直接依赖具体实现。

var (
	json = sonic.ConfigStd

	// Marshal 将对象编码为 JSON 字节序列。
	Marshal = json.Marshal

	// Unmarshal 将 JSON 字节序列解码到目标对象。
	Unmarshal = json.Unmarshal

	// MarshalIndent 以缩进格式编码 JSON，主要用于日志与调试输出。
	MarshalIndent = json.MarshalIndent
)

// NewEncoder 创建一个写入 w 的 JSON 编码器。
func NewEncoder(w io.Writer) sonic.Encoder {
	return json.NewEncoder(w)
}

// NewDecoder 创建一个从 r 读取的 JSON 解码器。
func NewDecoder(r io.Reader) sonic.Decoder {
	return json.NewDecoder(r)
}
