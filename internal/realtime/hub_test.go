package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playmoney/internal/model"
	"github.com/mcoot/playmoney/internal/testutil"
)

type HubSuite struct {
	suite.Suite
	hub *Hub
	now time.Time
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.hub = NewHub("123456", testutil.NopLogger())
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *HubSuite) client(id model.PlayerID, buffer int) *Client {
	return NewClient(id, model.Credential("token-"+string(id)), buffer, s.now)
}

func (s *HubSuite) frame(n int64) Frame {
	f, err := NewEvent(model.Event{
		Time:       s.now,
		ActionedBy: "p1",
		Payload:    model.Transaction{From: model.EntityBank, To: "p1", Amount: n},
	})
	s.Require().NoError(err)
	return f
}

func (s *HubSuite) TestPublishReachesEveryClientInOrder() {
	a := s.client("a", 8)
	b := s.client("b", 8)
	s.hub.Register(a)
	s.hub.Register(b)

	for i := int64(1); i <= 3; i++ {
		s.hub.Publish(s.frame(i))
	}

	for _, c := range []*Client{a, b} {
		frames := c.Drain()
		s.Require().Len(frames, 3)
		for i, f := range frames {
			s.Equal(s.frame(int64(i+1)), f)
		}
	}
}

func (s *HubSuite) TestRegisterSupersedesWithoutClosing() {
	old := s.client("a", 8)
	s.Nil(s.hub.Register(old))

	replacement := s.client("a", 8)
	s.Equal(old, s.hub.Register(replacement))

	s.False(old.Closed())
	s.Equal(1, s.hub.ClientCount())
	s.Equal(replacement, s.hub.Current("a"))

	s.hub.Publish(s.frame(1))
	s.Empty(old.Drain())
	s.Len(replacement.Drain(), 1)
}

func (s *HubSuite) TestUnregisterIgnoresSupersededClient() {
	old := s.client("a", 8)
	replacement := s.client("a", 8)
	s.hub.Register(old)
	s.hub.Register(replacement)

	s.False(s.hub.Unregister(old))
	s.Equal(replacement, s.hub.Current("a"))

	s.True(s.hub.Unregister(replacement))
	s.Nil(s.hub.Current("a"))
	s.False(s.hub.Unregister(replacement))
}

func (s *HubSuite) TestSlowClientIsClosedWithoutBlockingOthers() {
	slow := s.client("slow", 1)
	fast := s.client("fast", 8)
	s.hub.Register(slow)
	s.hub.Register(fast)

	s.hub.Publish(s.frame(1))
	s.hub.Publish(s.frame(2))

	s.True(slow.Closed())
	s.False(fast.Closed())
	s.Len(fast.Drain(), 2)

	// The closed client stays registered until its transport unsubscribes it
	s.Equal(slow, s.hub.Current("slow"))
	s.hub.Publish(s.frame(3))
	s.Len(slow.Drain(), 1)
}

func (s *HubSuite) TestDisconnect() {
	a := s.client("a", 8)
	s.hub.Register(a)

	s.hub.Disconnect("a")

	s.True(a.Closed())
	s.Equal(0, s.hub.ClientCount())
	s.False(s.hub.Unregister(a))

	// Unknown players are ignored
	s.hub.Disconnect("nobody")
}

func (s *HubSuite) TestCloseClosesEveryClient() {
	a := s.client("a", 8)
	b := s.client("b", 8)
	s.hub.Register(a)
	s.hub.Register(b)

	s.hub.Publish(GameEnd())
	s.hub.Close()

	s.True(a.Closed())
	s.True(b.Closed())
	s.Equal(0, s.hub.ClientCount())

	// Frames queued before closing are still there for the transport to flush
	s.Equal([]Frame{GameEnd()}, a.Drain())
}

func (s *HubSuite) TestClientCloseIsIdempotent() {
	a := s.client("a", 8)
	a.Close()
	a.Close()
	s.True(a.Closed())
	s.False(s.hub.SendTo(a, GameEnd()))
}
