package diskcache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mpapenbr/f1-quali-timeline/log"
	"github.com/mpapenbr/f1-quali-timeline/pkg/utils"
	"github.com/mpapenbr/f1-quali-timeline/pkg/utils/cache"
)

// An append-only keyed store on disk. Entries never expire; the
// directory is the invalidation unit (delete it to refetch).

type (
	Option func(*diskCache)

	diskCache struct {
		dir string
		l   *log.Logger
	}
)

func WithLogger(arg *log.Logger) Option {
	return func(c *diskCache) {
		c.l = arg
	}
}

func New(dir string, opts ...Option) (cache.Cache[string, []byte], error) {
	c := &diskCache{
		dir: dir,
		l:   log.Default().Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create cache dir %s: %w", dir, err)
	}
	return c, nil
}

func (c *diskCache) Get(_ context.Context, key string) (*[]byte, error) {
	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cache.ErrCacheMiss
		}
		return nil, err
	}
	c.l.Debug("cache hit", log.String("key", key))
	return &data, nil
}

func (c *diskCache) Put(_ context.Context, key string, value *[]byte) error {
	if value == nil {
		return nil
	}
	return os.WriteFile(c.entryPath(key), *value, 0o644)
}

func (c *diskCache) Invalidate(_ context.Context, key string) {
	if err := os.Remove(c.entryPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.l.Warn("could not invalidate cache entry",
			log.String("key", key), log.ErrorField(err))
	}
}

func (c *diskCache) entryPath(key string) string {
	return filepath.Join(c.dir, utils.HashKey(key)+".json")
}
