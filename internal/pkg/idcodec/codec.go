package idcodec

import (
	"Opsboard/internal/api/config"
	"fmt"
	"math"

	"github.com/sqids/sqids-go"
)

// MaxID 可编码的最大内部 ID，覆盖 bigint 自增主键的有效范围
const MaxID int64 = math.MaxInt64

const defaultMinLength = 6

// Codec 内部自增 ID 与对外公开字符串 ID 之间的可逆映射
type Codec struct {
	sq *sqids.Sqids
}

// New 按配置构建编解码器，字母表打乱后即为最小程度的混淆
func New(cfg config.IDCodecConfig) (*Codec, error) {
	minLength := cfg.MinLength
	if minLength == 0 {
		minLength = defaultMinLength
	}
	sq, err := sqids.New(sqids.Options{
		Alphabet:  cfg.Alphabet,
		MinLength: minLength,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init id codec: %w", err)
	}
	return &Codec{sq: sq}, nil
}

// Encode 编码内部 ID，id 超出 [0, MaxID] 属于调用方错误
func (c *Codec) Encode(id int64) string {
	if id < 0 || id > MaxID {
		panic(fmt.Sprintf("idcodec: id %d out of range", id))
	}
	s, err := c.sq.Encode([]uint64{uint64(id)})
	if err != nil {
		panic(fmt.Sprintf("idcodec: encode %d: %v", id, err))
	}
	return s
}

// Decode 解码公开 ID，非法输入或越界一律返回 ok=false，由调用方视为“不存在”
func (c *Codec) Decode(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	numbers := c.sq.Decode(s)
	if len(numbers) != 1 {
		return 0, false
	}
	n := numbers[0]
	if n > uint64(MaxID) {
		return 0, false
	}
	// 同一数字可能对应多个字符串，只接受规范形式
	canonical, err := c.sq.Encode(numbers)
	if err != nil || canonical != s {
		return 0, false
	}
	return int64(n), true
}

// EncodeUint64 便于直接编码 gorm 模型中的 uint64 主键
func (c *Codec) EncodeUint64(id uint64) string {
	if id > uint64(MaxID) {
		panic(fmt.Sprintf("idcodec: id %d out of range", id))
	}
	return c.Encode(int64(id))
}

// DecodeUint64 解码为 uint64 主键
func (c *Codec) DecodeUint64(s string) (uint64, bool) {
	id, ok := c.Decode(s)
	if !ok {
		return 0, false
	}
	return uint64(id), true
}
