package kafka

import (
	"fmt"
	"strconv"
	"time"
)

// Canal 事件类型
const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

const canalTimeLayout = "2006-01-02 15:04:05"

// CanalMessage 定义了 Canal 推送到 Kafka 的 JSON 数据结构
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`
	SQL      string   `json:"sql"`

	// Data 存储变更后的数据
	Data []map[string]interface{} `json:"data"`

	// Old UPDATE 时只包含发生变化的列的旧值
	Old []map[string]interface{} `json:"old"`

	SqlType   map[string]int    `json:"sqlType"`
	MysqlType map[string]string `json:"mysqlType"`
}

// OldRow 第 i 行的旧值，没有时返回 nil
func (m *CanalMessage) OldRow(i int) map[string]interface{} {
	if i < len(m.Old) {
		return m.Old[i]
	}
	return nil
}

// StrToUint64 Canal 的列值统一是字符串，解析失败返回 0
func StrToUint64(v interface{}) uint64 {
	switch val := v.(type) {
	case string:
		n, _ := strconv.ParseUint(val, 10, 64)
		return n
	case float64:
		return uint64(val)
	case nil:
		return 0
	default:
		n, _ := strconv.ParseUint(fmt.Sprint(val), 10, 64)
		return n
	}
}

func StrToInt64(v interface{}) int64 {
	switch val := v.(type) {
	case string:
		n, _ := strconv.ParseInt(val, 10, 64)
		return n
	case float64:
		return int64(val)
	case nil:
		return 0
	default:
		n, _ := strconv.ParseInt(fmt.Sprint(val), 10, 64)
		return n
	}
}

func StrToBool(v interface{}) bool {
	s, _ := v.(string)
	return s == "1" || s == "true"
}

func StrToString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func StrToTime(v interface{}) time.Time {
	t, err := time.ParseInLocation(canalTimeLayout, StrToString(v), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
