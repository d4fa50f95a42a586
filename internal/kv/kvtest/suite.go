// Package kvtest holds the behavioural suite every kv.Store backend must pass.
package kvtest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/stretchr/testify/suite"

	"github.com/nova19-exe/eBhutanza/internal/kv"
	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
)

// StoreSuite runs against whatever NewStore returns. Backends embed it and
// set NewStore in SetupTest.
type StoreSuite struct {
	suite.Suite
	NewStore func() kv.Store
	store    kv.Store
	ctx      context.Context
}

func (s *StoreSuite) SetupTest() {
	s.Require().NotNil(s.NewStore, "NewStore must be set")
	s.store = s.NewStore()
	s.ctx = context.Background()
}

func (s *StoreSuite) TestGetMissingKey() {
	_, err := s.store.Get(s.ctx, "applicationData_missing")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *StoreSuite) TestSetThenGet() {
	s.Require().NoError(s.store.Set(s.ctx, "applicationProgress_u1", "40"))
	v, err := s.store.Get(s.ctx, "applicationProgress_u1")
	s.Require().NoError(err)
	s.Equal("40", v)
}

func (s *StoreSuite) TestSetOverwrites() {
	s.Require().NoError(s.store.Set(s.ctx, "k", "first"))
	s.Require().NoError(s.store.Set(s.ctx, "k", "second"))
	v, err := s.store.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.Equal("second", v)
}

func (s *StoreSuite) TestSetManyWritesAllEntries() {
	entries := map[string]string{
		"applicationData_u2":      `{"fullName":"Tashi"}`,
		"applicationProgress_u2":  "20",
		"applicationStatusKey_u2": "inProgress",
	}
	s.Require().NoError(s.store.SetMany(s.ctx, entries))
	for k, want := range entries {
		got, err := s.store.Get(s.ctx, k)
		s.Require().NoError(err, k)
		s.Equal(want, got, k)
	}
}

func (s *StoreSuite) TestSetManyEmptyIsNoop() {
	s.Require().NoError(s.store.SetMany(s.ctx, map[string]string{}))
}

func (s *StoreSuite) TestDeleteIgnoresMissingKeys() {
	s.Require().NoError(s.store.Set(s.ctx, "a", "1"))
	s.Require().NoError(s.store.Delete(s.ctx, "a", "never-written"))
	_, err := s.store.Get(s.ctx, "a")
	s.Require().True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *StoreSuite) TestEmptyValueIsStored() {
	s.Require().NoError(s.store.Set(s.ctx, "empty", ""))
	v, err := s.store.Get(s.ctx, "empty")
	s.Require().NoError(err)
	s.Equal("", v)
}

func (s *StoreSuite) TestConcurrentWritersLastWriteWins() {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.store.Set(s.ctx, "race", fmt.Sprintf("writer-%d", i))
		}(i)
	}
	wg.Wait()
	v, err := s.store.Get(s.ctx, "race")
	s.Require().NoError(err)
	s.Contains(v, "writer-")
}
