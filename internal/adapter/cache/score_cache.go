package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ressKim-io/sentiment-lab/internal/domain/entity"
	"github.com/ressKim-io/sentiment-lab/internal/domain/service"
)

const keyPrefix = "sentiment:scores:"

// CachedClassifier stores class distributions in Redis, keyed by model and text.
// Redis errors never fail a classification; the inner classifier is called instead.
type CachedClassifier struct {
	inner  service.Classifier
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedClassifier wraps inner with a Redis score cache
func NewCachedClassifier(inner service.Classifier, rdb redis.Cmdable, ttl time.Duration, logger *zap.Logger) *CachedClassifier {
	return &CachedClassifier{
		inner:  inner,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

var _ service.BatchClassifier = (*CachedClassifier)(nil)

// Model returns the inner classifier's model
func (c *CachedClassifier) Model() string {
	return c.inner.Model()
}

// Classify returns the cached distribution of text, classifying it on a miss
func (c *CachedClassifier) Classify(ctx context.Context, text string) ([]entity.LabelScore, error) {
	key := c.key(text)

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if scores, ok := c.decode(key, data); ok {
			return scores, nil
		}
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("score cache read failed", zap.String("key", key), zap.Error(err))
	}

	scores, err := c.inner.Classify(ctx, text)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, scores)
	return scores, nil
}

// ClassifyBatch serves hits from the cache and classifies the misses together.
// Misses go through the inner batch call when the inner classifier has one.
func (c *CachedClassifier) ClassifyBatch(ctx context.Context, texts []string) ([][]entity.LabelScore, error) {
	results := make([][]entity.LabelScore, len(texts))
	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = c.key(text)
	}

	var missing []int
	values, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil || len(values) != len(texts) {
		if err != nil {
			c.logger.Warn("score cache batch read failed", zap.Int("keys", len(keys)), zap.Error(err))
		}
		values = make([]interface{}, len(texts))
	}
	for i, v := range values {
		if s, ok := v.(string); ok {
			if scores, ok := c.decode(keys[i], []byte(s)); ok {
				results[i] = scores
				continue
			}
		}
		missing = append(missing, i)
	}

	if len(missing) == 0 {
		return results, nil
	}

	pending := make([]string, len(missing))
	for j, i := range missing {
		pending[j] = texts[i]
	}

	fresh, err := c.classifyMisses(ctx, pending)
	if err != nil {
		return nil, err
	}
	for j, i := range missing {
		results[i] = fresh[j]
		c.store(ctx, keys[i], fresh[j])
	}
	return results, nil
}

func (c *CachedClassifier) classifyMisses(ctx context.Context, texts []string) ([][]entity.LabelScore, error) {
	if batch, ok := c.inner.(service.BatchClassifier); ok {
		results, err := batch.ClassifyBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(results) != len(texts) {
			return nil, errors.New("inner classifier returned a wrong number of results")
		}
		return results, nil
	}

	results := make([][]entity.LabelScore, len(texts))
	for i, text := range texts {
		scores, err := c.inner.Classify(ctx, text)
		if err != nil {
			return nil, err
		}
		results[i] = scores
	}
	return results, nil
}

func (c *CachedClassifier) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return keyPrefix + c.inner.Model() + ":" + hex.EncodeToString(sum[:])
}

func (c *CachedClassifier) decode(key string, data []byte) ([]entity.LabelScore, bool) {
	var scores []entity.LabelScore
	if err := json.Unmarshal(data, &scores); err != nil || len(scores) == 0 {
		c.logger.Warn("discarding corrupt score cache entry", zap.String("key", key))
		return nil, false
	}
	return scores, true
}

// store skips empty distributions so a bad answer is never served from the cache
func (c *CachedClassifier) store(ctx context.Context, key string, scores []entity.LabelScore) {
	if len(scores) == 0 {
		return
	}
	data, err := json.Marshal(scores)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("score cache write failed", zap.String("key", key), zap.Error(err))
	}
}
