package mocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MockClockSuite struct {
	suite.Suite
	clock *MockClock
	start time.Time
}

func TestMockClockSuite(t *testing.T) {
	suite.Run(t, new(MockClockSuite))
}

func (s *MockClockSuite) SetupTest() {
	s.start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.clock = NewMockClock(s.start)
}

func (s *MockClockSuite) TestAdvanceFiresDueTimers() {
	fired := 0
	s.clock.AfterFunc(10*time.Second, func() { fired++ })

	s.clock.Advance(9 * time.Second)
	s.Equal(0, fired)

	s.clock.Advance(time.Second)
	s.Equal(1, fired)

	s.clock.Advance(time.Minute)
	s.Equal(1, fired, "timers fire once")
}

func (s *MockClockSuite) TestStopPreventsFiring() {
	fired := false
	t := s.clock.AfterFunc(time.Second, func() { fired = true })

	s.True(t.Stop())
	s.False(t.Stop())

	s.clock.Advance(time.Hour)
	s.False(fired)
	s.Equal(0, s.clock.PendingTimers())
}

func (s *MockClockSuite) TestCallbackMayScheduleTimers() {
	var order []int
	s.clock.AfterFunc(time.Second, func() {
		order = append(order, 1)
		s.clock.AfterFunc(time.Second, func() { order = append(order, 2) })
	})

	s.clock.Advance(time.Second)
	s.Equal([]int{1}, order)
	s.Equal(1, s.clock.PendingTimers())

	s.clock.Advance(time.Second)
	s.Equal([]int{1, 2}, order)
}

func (s *MockClockSuite) TestSkewDoesNotFire() {
	fired := false
	s.clock.AfterFunc(time.Second, func() { fired = true })

	s.clock.Skew(time.Minute)
	s.False(fired)
	s.Equal(s.start.Add(time.Minute), s.clock.Now())

	s.clock.Advance(0)
	s.True(fired)
}

func (s *MockClockSuite) TestMockRandomCoinQueue() {
	r := NewMockRandom()
	r.QueueCoin(false, true)

	s.False(r.FlipCoin())
	s.True(r.FlipCoin())
	s.True(r.FlipCoin(), "defaults to true once drained")
	s.Equal(3, r.Flips())
}
