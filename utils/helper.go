package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/pragadastech/wms-ai-py2/config"
	"github.com/shopspring/decimal"
)

func IntFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "true", "1", "yes", "y", "on":
		return true
	case "false", "0", "no", "n", "off":
		return false
	default:
		return def
	}
}

func SplitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ConvertStringToDecimal parses quantity strings coming back from NetSuite
// ("on_hand", "available"); they are decimal-formatted text, not numbers.
func ConvertStringToDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, errors.New("empty decimal string")
	}

	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}

	return dec, nil
}

// SyncLock obtains a distributed lock for one sync target so two concurrent
// syncs of the same table cannot interleave their clear/write phases.
// The returned release func is nil-safe on error paths.
func SyncLock(ctx context.Context, tableName string, moduleName string, functionName string, ttl time.Duration) (func(), error) {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		// Avoid nil-pointer panics when Redis lock isn't initialized yet.
		config.LogError(logger, moduleName, functionName, "Redis lock not initialized", tableName, errors.New("redis lock is nil"))
		return nil, errors.New("service not ready (redis lock not initialized)")
	}

	lockKey := fmt.Sprintf("SyncLock:%s", tableName)
	lock, err := locker.Obtain(ctx, lockKey, ttl, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain sync lock", tableName, err)
		return nil, fmt.Errorf("sync already in progress for %s", tableName)
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining sync lock", tableName, err)
		return nil, err
	}

	return func() {
		_ = lock.Release(context.Background())
	}, nil
}
