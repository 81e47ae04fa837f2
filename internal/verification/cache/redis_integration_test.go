//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/cache"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/sentinel"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) key(contentID string) string {
	return cache.Key(
		cache.ContentHash(models.ParsedContent{ID: contentID, ExtractedText: "text"}),
		models.DomainLegal,
		models.Options{},
	)
}

func result(id string) *models.VerificationResult {
	return &models.VerificationResult{
		VerificationID:    id,
		OverallConfidence: 85,
		RiskLevel:         models.RiskLow,
		Issues: []models.Issue{
			{ID: "i1", Type: models.IssueFactualError, Severity: models.SeverityMedium, Confidence: 80},
		},
		Recommendations: []string{"review flagged claims"},
		Timestamp:       time.Now().UTC().Truncate(time.Millisecond),
	}
}

func (s *RedisCacheSuite) TestRoundTrip() {
	ctx := context.Background()
	c := cache.NewRedis(s.redis.Client, time.Minute)
	key := s.key("doc-1")

	_, err := c.Get(ctx, key)
	s.ErrorIs(err, sentinel.ErrNotFound)

	stored := result("ver-1")
	s.Require().NoError(c.Set(ctx, key, stored))

	got, err := c.Get(ctx, key)
	s.Require().NoError(err)
	s.Equal(stored.VerificationID, got.VerificationID)
	s.Equal(stored.OverallConfidence, got.OverallConfidence)
	s.Equal(stored.Issues, got.Issues)
	s.Equal(stored.Recommendations, got.Recommendations)
}

func (s *RedisCacheSuite) TestServerSideTTL() {
	ctx := context.Background()
	c := cache.NewRedis(s.redis.Client, time.Second)
	key := s.key("doc-1")

	s.Require().NoError(c.Set(ctx, key, result("ver-1")))

	_, err := c.Get(ctx, key)
	s.Require().NoError(err)

	s.Require().Eventually(func() bool {
		_, err := c.Get(ctx, key)
		return err != nil
	}, 5*time.Second, 100*time.Millisecond)

	_, err = c.Get(ctx, key)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisCacheSuite) TestCorruptEntryIsDroppedAsMiss() {
	ctx := context.Background()
	c := cache.NewRedis(s.redis.Client, time.Minute)
	key := s.key("doc-1")

	s.Require().NoError(s.redis.Client.Set(ctx, key, "not json", time.Minute).Err())

	_, err := c.Get(ctx, key)
	s.ErrorIs(err, sentinel.ErrNotFound)

	// The corrupt entry was deleted, not left to fail forever.
	exists, err := s.redis.Client.Exists(ctx, key).Result()
	s.Require().NoError(err)
	s.Zero(exists)
}

func (s *RedisCacheSuite) TestDeleteAndClear() {
	ctx := context.Background()
	c := cache.NewRedis(s.redis.Client, time.Minute)

	s.Require().NoError(c.Set(ctx, s.key("doc-1"), result("ver-1")))
	s.Require().NoError(c.Set(ctx, s.key("doc-2"), result("ver-2")))

	ok, err := c.Delete(ctx, s.key("doc-1"))
	s.Require().NoError(err)
	s.True(ok)

	ok, err = c.Delete(ctx, s.key("doc-1"))
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(c.Clear(ctx))
	_, err = c.Get(ctx, s.key("doc-2"))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisCacheSuite) TestStats() {
	ctx := context.Background()
	c := cache.NewRedis(s.redis.Client, time.Minute)
	key := s.key("doc-1")

	s.Require().NoError(c.Set(ctx, key, result("ver-1")))
	_, _ = c.Get(ctx, key)
	_, _ = c.Get(ctx, s.key("doc-nope"))

	stats := c.Stats()
	s.Equal(uint64(1), stats.Hits)
	s.Equal(uint64(1), stats.Misses)
	s.Equal(1, stats.Size)
}
