package iocache

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnverse/pkg/errcode"
)

func ConnectionError(addr string, err error) error {
	msg := `Cannot connect to Redis at <em>%s</em>

<em>How to fix:</em>
  1. Check that Redis is running: <em>redis-cli -h HOST -p PORT ping</em>
  2. Set <em>cache.redis_addr</em> in the config file
  3. Remove <em>cache.redis_addr</em> to work without the cache`

	return &gn.Error{
		Code: errcode.ReaderCacheError,
		Msg:  msg,
		Vars: []any{addr},
		Err:  fmt.Errorf("redis %s: %w", addr, err),
	}
}

func GetError(err error) error {
	return &gn.Error{
		Code: errcode.ReaderCacheError,
		Msg:  "Cannot read a page from the cache",
		Err:  fmt.Errorf("cache get: %w", err),
	}
}

func SetError(err error) error {
	return &gn.Error{
		Code: errcode.ReaderCacheError,
		Msg:  "Cannot save a page to the cache",
		Err:  fmt.Errorf("cache set: %w", err),
	}
}

func EncodeError(err error) error {
	return &gn.Error{
		Code: errcode.ReaderCacheError,
		Msg:  "Cannot encode a page",
		Err:  fmt.Errorf("cache encode: %w", err),
	}
}

func DecodeError(err error) error {
	return &gn.Error{
		Code: errcode.ReaderCacheError,
		Msg:  "Cannot decode a cached page",
		Err:  fmt.Errorf("cache decode: %w", err),
	}
}
