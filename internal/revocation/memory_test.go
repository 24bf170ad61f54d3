package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MemoryStoreTestSuite struct {
	suite.Suite
	store *MemoryStore
	now   time.Time
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreTestSuite))
}

func (s *MemoryStoreTestSuite) SetupTest() {
	s.now = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewMemoryStore()
	s.store.now = func() time.Time { return s.now }
}

func (s *MemoryStoreTestSuite) TestRevoke() {
	ctx := s.T().Context()
	s.Require().NoError(s.store.Revoke(ctx, "a", s.now.Add(time.Hour)))

	revoked, err := s.store.IsRevoked(ctx, "a")
	s.Require().NoError(err)
	s.True(revoked)

	revoked, err = s.store.IsRevoked(ctx, "b")
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *MemoryStoreTestSuite) TestExpiredTokenIsNotStored() {
	s.Require().NoError(s.store.Revoke(s.T().Context(), "a", s.now.Add(-time.Second)))
	s.Zero(s.store.len())
}

func (s *MemoryStoreTestSuite) TestLazyEviction() {
	ctx := s.T().Context()
	s.Require().NoError(s.store.Revoke(ctx, "a", s.now.Add(time.Minute)))

	s.now = s.now.Add(2 * time.Minute)
	revoked, err := s.store.IsRevoked(ctx, "a")
	s.Require().NoError(err)
	s.False(revoked)
	s.Zero(s.store.len())
}

func (s *MemoryStoreTestSuite) TestSweep() {
	ctx := s.T().Context()
	s.Require().NoError(s.store.Revoke(ctx, "short", s.now.Add(time.Minute)))
	s.Require().NoError(s.store.Revoke(ctx, "long", s.now.Add(time.Hour)))

	s.now = s.now.Add(2 * time.Minute)
	s.store.sweep()

	s.Equal(1, s.store.len())
	revoked, err := s.store.IsRevoked(ctx, "long")
	s.Require().NoError(err)
	s.True(revoked)
}

func (s *MemoryStoreTestSuite) TestRunStops() {
	ctx, cancel := context.WithCancel(s.T().Context())
	done := make(chan struct{})
	go func() {
		s.store.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("sweeper did not stop")
	}
}
