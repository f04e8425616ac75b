package logger

import (
	"Opsboard/internal/pkg/consts"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisSlowThreshold = 100 * time.Millisecond

// RedisLoggerHook 只记录错误与慢命令，排行榜相关命令额外带上 key 与 member
type RedisLoggerHook struct {
	slow time.Duration
}

func NewRedisLogger(slow time.Duration) *RedisLoggerHook {
	if slow <= 0 {
		slow = defaultRedisSlowThreshold
	}
	return &RedisLoggerHook{slow: slow}
}

func (s *RedisLoggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "Redis Dial Error",
				log.String("addr", addr),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err),
			)
		}
		return conn, err
	}
}

func (s *RedisLoggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		if err == nil && elapsed <= s.slow {
			return nil
		}
		if err != nil && ignorableRedisErr(cmd.Name(), err) {
			return err
		}

		fields := append(commandFields(cmd), log.Duration("latency", elapsed))
		switch {
		case err != nil:
			log.ErrorContext(ctx, "Redis Error", append(fields, log.Any("err", err))...)
		default:
			log.WarnContext(ctx, "Redis Slow", fields...)
		}
		return err
	}
}

func (s *RedisLoggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		elapsed := time.Since(start)

		if err == nil && elapsed <= s.slow {
			return nil
		}
		if errors.Is(err, redis.Nil) {
			return err
		}

		names := make([]string, 0, len(cmds))
		for _, cmd := range cmds {
			names = append(names, cmd.Name())
		}
		fields := []any{
			log.Int("cmd_count", len(cmds)),
			log.String("commands", strings.Join(names, ",")),
			log.Duration("latency", elapsed),
		}
		if err != nil {
			log.ErrorContext(ctx, "Redis Pipeline Error", append(fields, log.Any("err", err))...)
		} else {
			log.WarnContext(ctx, "Redis Pipeline Slow", fields...)
		}
		return err
	}
}

func ignorableRedisErr(name string, err error) bool {
	if errors.Is(err, redis.Nil) || err.Error() == "ERR no such key" {
		return true
	}
	// Script.Run 首次执行时的正常回退
	if name == "evalsha" && redis.HasErrorPrefix(err, "NOSCRIPT") {
		return true
	}
	return name == "client" && strings.Contains(err.Error(), "setinfo")
}

// commandFields 排行榜命令只记录 key 与 member，参数可能是整段 ZADD
func commandFields(cmd redis.Cmder) []any {
	name := cmd.Name()
	fields := []any{log.String("command", name)}

	key, rest := commandKey(cmd)
	switch {
	case name == "auth" || name == "hello":
		fields = append(fields, log.String("args", "[PROTECTED]"))
	case strings.HasPrefix(key, consts.OperationHotRankKey):
		fields = append(fields, log.String("key", key), log.Bool("rank", true))
		if len(rest) > 0 {
			fields = append(fields, log.Int("arg_count", len(rest)))
		}
	default:
		fields = append(fields, log.String("args", fmt.Sprint(cmd.Args())))
	}
	return fields
}

// commandKey 返回命令操作的第一个 key 及其后的参数，EVAL/EVALSHA 跳过脚本与 numkeys
func commandKey(cmd redis.Cmder) (string, []any) {
	args := cmd.Args()
	first := 1
	switch cmd.Name() {
	case "eval", "evalsha", "eval_ro", "evalsha_ro":
		if len(args) < 3 {
			return "", nil
		}
		if n, err := strconv.Atoi(fmt.Sprint(args[2])); err != nil || n == 0 {
			return "", nil
		}
		first = 3
	}
	if len(args) <= first {
		return "", nil
	}
	return fmt.Sprint(args[first]), args[first+1:]
}
