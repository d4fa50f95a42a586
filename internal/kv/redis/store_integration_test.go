//go:build integration

package redis

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/nova19-exe/eBhutanza/internal/kv"
	"github.com/nova19-exe/eBhutanza/internal/kv/kvtest"
	"github.com/nova19-exe/eBhutanza/pkg/testutil/containers"
)

type RedisIntegrationSuite struct {
	kvtest.StoreSuite
	redis *containers.RedisContainer
}

func TestRedisIntegrationSuite(t *testing.T) {
	s := new(RedisIntegrationSuite)
	s.NewStore = func() kv.Store {
		s.Require().NoError(s.redis.FlushAll(s.T().Context()))
		return New(s.redis.Client)
	}
	suite.Run(t, s)
}

func (s *RedisIntegrationSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}
