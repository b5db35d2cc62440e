package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"samskrtam-drill/internal/domain"
	"samskrtam-drill/internal/logger"
)

// LessonLoader fetches lesson content from the source of truth (files, Postgres).
type LessonLoader interface {
	LoadLessons(ctx context.Context) ([]domain.Lesson, error)
}

// LessonCache keeps lesson JSON in Redis in front of a slower loader.
// Layout:
//
//	RPUSH lessons:order {lessonID}...
//	HSET  lessons:data  {lessonID} {lesson json}
type LessonCache struct {
	client *redis.Client
	loader LessonLoader
	ttl    time.Duration
	log    *logger.Logger
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewLessonCache(client *redis.Client, loader LessonLoader, ttl time.Duration, log *logger.Logger) *LessonCache {
	if log == nil {
		log = logger.Nop()
	}
	return &LessonCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    log,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

const (
	orderKey = "lessons:order"
	dataKey  = "lessons:data"
)

// LoadLessons serves lessons from the cache, filling it from the loader on a miss.
func (c *LessonCache) LoadLessons(ctx context.Context) ([]domain.Lesson, error) {
	if lessons, ok := c.cached(ctx); ok {
		return lessons, nil
	}

	result, err, _ := c.sf.Do(orderKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if lessons, ok := c.cached(ctx); ok {
			return lessons, nil
		}
		lessons, err := c.loader.LoadLessons(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.fill(ctx, lessons); err != nil {
			// the loader's lessons are still good; the next load retries the fill
			c.log.Warn("lesson cache fill failed", "lessons", len(lessons), "error", err)
		}
		return lessons, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Lesson), nil
}

// Invalidate drops the cached lessons so the next load goes to the loader.
func (c *LessonCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, orderKey, dataKey).Err()
}

func (c *LessonCache) cached(ctx context.Context) ([]domain.Lesson, bool) {
	ids, err := c.client.LRange(ctx, orderKey, 0, -1).Result()
	if err != nil || len(ids) == 0 {
		return nil, false
	}
	raw, err := c.client.HMGet(ctx, dataKey, ids...).Result()
	if err != nil {
		return nil, false
	}
	lessons := make([]domain.Lesson, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		var l domain.Lesson
		if err := json.Unmarshal([]byte(s), &l); err != nil {
			return nil, false
		}
		lessons = append(lessons, l)
	}
	return lessons, true
}

func (c *LessonCache) fill(ctx context.Context, lessons []domain.Lesson) error {
	if len(lessons) == 0 {
		return nil
	}
	ids := make([]interface{}, 0, len(lessons))
	fields := make([]interface{}, 0, 2*len(lessons))
	for _, l := range lessons {
		data, err := json.Marshal(l)
		if err != nil {
			return fmt.Errorf("marshal lesson %s: %w", l.ID, err)
		}
		ids = append(ids, l.ID)
		fields = append(fields, l.ID, string(data))
	}

	ttl := c.ttlWithJitter()
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, orderKey, dataKey)
		pipe.RPush(ctx, orderKey, ids...)
		pipe.HSet(ctx, dataKey, fields...)
		if ttl > 0 {
			pipe.Expire(ctx, orderKey, ttl)
			pipe.Expire(ctx, dataKey, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("fill lesson cache: %w", err)
	}
	return nil
}

func (c *LessonCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
