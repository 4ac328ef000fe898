package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playmoney/internal/dependencies/mocks"
	"github.com/mcoot/playmoney/internal/model"
	"github.com/mcoot/playmoney/internal/realtime"
	"github.com/mcoot/playmoney/internal/storage/memory"
	"github.com/mcoot/playmoney/internal/testutil"
)

type SessionSuite struct {
	suite.Suite
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	ids      *mocks.MockIDs
	archive  *memory.Storage
	registry *Registry
	ctx      context.Context
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.ids = mocks.NewMockIDs()
	s.archive = memory.New()
	s.ctx = context.Background()
	s.registry = s.newRegistry(DefaultConfig())
}

func (s *SessionSuite) newRegistry(cfg Config) *Registry {
	return NewRegistry(s.archive, s.clock, s.random, s.ids, cfg, testutil.NopLogger())
}

// start creates a game banked by Ana that Bob has joined
func (s *SessionSuite) start() (*Session, Ticket, Ticket) {
	ana, err := s.registry.Create("Ana")
	s.Require().NoError(err)
	bob, err := s.registry.Join(ana.GameID, "Bob")
	s.Require().NoError(err)
	sess, err := s.registry.Get(ana.GameID)
	s.Require().NoError(err)
	return sess, ana, bob
}

func (s *SessionSuite) propose(sess *Session, t Ticket, p model.Payload) model.Reason {
	reason, err := sess.Propose(s.ctx, t.Credential, model.Event{Payload: p})
	s.Require().NoError(err)
	return reason
}

func (s *SessionSuite) balance(sess *Session, id model.PlayerID) int64 {
	state := sess.State()
	player := state.GetPlayer(id)
	s.Require().NotNil(player)
	return player.Balance
}

// observed decodes every frame queued for a client into the events it carries
func (s *SessionSuite) observed(c *realtime.Client) ([]model.Event, bool) {
	var events []model.Event
	gameEnded := false
	for _, f := range c.Drain() {
		var msg realtime.Outgoing
		s.Require().NoError(json.Unmarshal(f.Data, &msg))
		switch msg.Type {
		case realtime.MessageInitialEventArray:
			events = append(events, msg.Events...)
		case realtime.MessageNewEvent:
			s.Require().NotNil(msg.Event)
			events = append(events, *msg.Event)
		case realtime.MessageGameEnd:
			gameEnded = true
		}
	}
	return events, gameEnded
}

// Creation and joining

func (s *SessionSuite) TestCreateSeedsCreatorAsBanker() {
	s.random.QueueString("123456")

	ticket, err := s.registry.Create("Ana")
	s.Require().NoError(err)

	s.Equal(model.GameID("123456"), ticket.GameID)
	s.Equal(model.PlayerID("player-1"), ticket.PlayerID)
	s.Equal(model.Credential("token-1"), ticket.Credential)

	sess, err := s.registry.Get("123456")
	s.Require().NoError(err)

	events := sess.Events()
	s.Require().Len(events, 2)
	s.Equal(model.PlayerJoin{PlayerID: "player-1", Name: "Ana"}, events[0].Payload)
	s.Equal(model.PlayerBankerStatusChange{PlayerID: "player-1", IsBanker: true}, events[1].Payload)
	for _, e := range events {
		s.Equal(model.PlayerID("player-1"), e.ActionedBy)
	}

	state := sess.State()
	s.Require().Len(state.Players, 1)
	s.Equal(model.Player{ID: "player-1", Name: "Ana", IsBanker: true}, state.Players[0])
	s.True(state.Open)
	s.True(state.UseFreeParking)
}

func (s *SessionSuite) TestCreateRedrawsCollidingID() {
	s.random.QueueString("111111", "111111", "222222")

	first, err := s.registry.Create("Ana")
	s.Require().NoError(err)
	second, err := s.registry.Create("Carl")
	s.Require().NoError(err)

	s.Equal(model.GameID("111111"), first.GameID)
	s.Equal(model.GameID("222222"), second.GameID)
	s.Equal(2, s.registry.Count())
}

func (s *SessionSuite) TestCreateGivesUpWhenEveryDrawCollides() {
	s.random.QueueString("111111")
	_, err := s.registry.Create("Ana")
	s.Require().NoError(err)

	collisions := make([]string, MaxGameIDAttempts)
	for i := range collisions {
		collisions[i] = "111111"
	}
	s.random.QueueString(collisions...)

	_, err = s.registry.Create("Carl")
	s.ErrorIs(err, model.ErrNoFreeGameID)
	s.Equal(1, s.registry.Count())

	// The queue is spent, so the next draw is fresh
	third, err := s.registry.Create("Dana")
	s.Require().NoError(err)
	s.NotEqual(model.GameID("111111"), third.GameID)
	s.Equal(2, s.registry.Count())
}

func (s *SessionSuite) TestGameIDIsFreeAgainAfterGameEnds() {
	s.random.QueueString("111111", "111111")

	first, err := s.registry.Create("Ana")
	s.Require().NoError(err)
	sess, err := s.registry.Get(first.GameID)
	s.Require().NoError(err)
	s.Require().NoError(sess.EndGame(s.ctx, first.Credential))

	second, err := s.registry.Create("Carl")
	s.Require().NoError(err)
	s.Equal(model.GameID("111111"), second.GameID)

	reused, err := s.registry.Get("111111")
	s.Require().NoError(err)
	s.NotSame(sess, reused)
	s.True(sess.Ended())
}

func (s *SessionSuite) TestJoin() {
	sess, ana, bob := s.start()

	s.Equal(ana.GameID, bob.GameID)
	s.NotEqual(ana.Credential, bob.Credential)

	state := sess.State()
	s.Require().Len(state.Players, 2)
	s.Equal(model.Player{ID: bob.PlayerID, Name: "Bob"}, state.Players[1])
}

func (s *SessionSuite) TestJoinMissingGame() {
	_, err := s.registry.Join("999999", "Bob")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *SessionSuite) TestJoinClosedGame() {
	sess, ana, _ := s.start()
	s.Equal(model.ReasonNone, s.propose(sess, ana, model.GameOpenStateChange{Open: false}))

	_, err := s.registry.Join(ana.GameID, "Carl")
	s.ErrorIs(err, model.ErrGameNotOpen)

	s.Equal(model.ReasonNone, s.propose(sess, ana, model.GameOpenStateChange{Open: true}))
	_, err = s.registry.Join(ana.GameID, "Carl")
	s.NoError(err)
}

// Snapshots and credentials

func (s *SessionSuite) TestSnapshot() {
	_, ana, bob := s.start()

	state, err := s.registry.Snapshot(ana.GameID, bob.Credential)
	s.Require().NoError(err)
	s.Len(state.Players, 2)

	_, err = s.registry.Snapshot(ana.GameID, "not-a-token")
	s.ErrorIs(err, model.ErrUnauthorized)

	_, err = s.registry.Snapshot(ana.GameID, "")
	s.ErrorIs(err, model.ErrUnauthorized)

	_, err = s.registry.Snapshot("999999", ana.Credential)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *SessionSuite) TestCredentialOfAnotherGameIsRejected() {
	_, ana, _ := s.start()
	other, err := s.registry.Create("Carl")
	s.Require().NoError(err)

	_, err = s.registry.Snapshot(other.GameID, ana.Credential)
	s.ErrorIs(err, model.ErrUnauthorized)
}

func (s *SessionSuite) TestAuthenticate() {
	_, ana, bob := s.start()

	sess, playerID, err := s.registry.Authenticate(ana.GameID, bob.Credential)
	s.Require().NoError(err)
	s.Equal(bob.PlayerID, playerID)
	s.Equal(ana.GameID, sess.ID())
}

func (s *SessionSuite) TestCredentialsAreStoredAsDigests() {
	sess, ana, _ := s.start()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.Equal(2, sess.credentials.count())
	for d := range sess.credentials.players {
		s.NotContains(string(d[:]), string(ana.Credential))
	}
}

// Proposals

func (s *SessionSuite) TestBankerPaysThenPlayerPays() {
	sess, ana, bob := s.start()

	s.Equal(model.ReasonNone, s.propose(sess, ana, model.Transaction{From: model.EntityBank, To: model.EntityFor(bob.PlayerID), Amount: 1500}))
	s.Equal(int64(1500), s.balance(sess, bob.PlayerID))
	s.Equal(int64(0), s.balance(sess, ana.PlayerID))

	s.Equal(model.ReasonNone, s.propose(sess, bob, model.Transaction{From: model.EntityFor(bob.PlayerID), To: model.EntityFor(ana.PlayerID), Amount: 500}))
	s.Equal(int64(1000), s.balance(sess, bob.PlayerID))
	s.Equal(int64(500), s.balance(sess, ana.PlayerID))
}

func (s *SessionSuite) TestFreeParkingRoundTrip() {
	sess, ana, bob := s.start()
	bobEntity := model.EntityFor(bob.PlayerID)
	s.Require().Equal(model.ReasonNone, s.propose(sess, ana, model.Transaction{From: model.EntityBank, To: bobEntity, Amount: 200}))

	s.Equal(model.ReasonNone, s.propose(sess, ana, model.Transaction{From: bobEntity, To: model.EntityFreeParking, Amount: 50}))
	state := sess.State()
	s.Equal(int64(50), state.FreeParkingBalance)
	s.Equal(int64(150), s.balance(sess, bob.PlayerID))

	s.Equal(model.ReasonNone, s.propose(sess, ana, model.Transaction{From: model.EntityFreeParking, To: bobEntity, Amount: 50}))
	state = sess.State()
	s.Equal(int64(0), state.FreeParkingBalance)
	s.Equal(int64(200), s.balance(sess, bob.PlayerID))
}

func (s *SessionSuite) TestNonBankerCannotDrawFromBank() {
	sess, ana, bob := s.start()
	before := sess.State()
	eventsBefore := len(sess.Events())

	reason := s.propose(sess, bob, model.Transaction{From: model.EntityBank, To: model.EntityFor(bob.PlayerID), Amount: 100})

	s.Equal(model.ReasonBankerOnly, reason)
	s.Equal(before, sess.State())
	s.Len(sess.Events(), eventsBefore)

	// The same event from a banker goes through
	reason = s.propose(sess, ana, model.Transaction{From: model.EntityBank, To: model.EntityFor(ana.PlayerID), Amount: 100})
	s.Equal(model.ReasonNone, reason)
	s.Equal(int64(100), s.balance(sess, ana.PlayerID))
}

func (s *SessionSuite) TestRejectedEventIsNotBroadcast() {
	sess, _, bob := s.start()
	client, err := sess.Subscribe(bob.Credential)
	s.Require().NoError(err)
	_, _ = s.observed(client)

	s.Equal(model.ReasonNonPositiveAmount, s.propose(sess, bob, model.Transaction{From: model.EntityFor(bob.PlayerID), To: model.EntityBank, Amount: 0}))
	s.Equal(model.ReasonUnknownPlayer, s.propose(sess, bob, model.Transaction{From: model.EntityFor(bob.PlayerID), To: "ghost", Amount: 5}))
	s.Equal(model.ReasonNotProposable, s.propose(sess, bob, model.PlayerJoin{PlayerID: "sneaky", Name: "x"}))

	events, _ := s.observed(client)
	s.Empty(events)
}

func (s *SessionSuite) TestProposalIsStampedByServer() {
	sess, ana, bob := s.start()
	s.clock.Set(time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC))

	reason, err := sess.Propose(s.ctx, bob.Credential, model.Event{
		Time:       time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
		ActionedBy: ana.PlayerID,
		Payload:    model.PlayerNameChange{PlayerID: bob.PlayerID, Name: "Bobby"},
	})
	s.Require().NoError(err)
	s.Require().Equal(model.ReasonNone, reason)

	events := sess.Events()
	last := events[len(events)-1]
	s.Equal(bob.PlayerID, last.ActionedBy)
	s.Equal(time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC), last.Time)
}

func (s *SessionSuite) TestProposeWithBadCredential() {
	sess, _, _ := s.start()
	_, err := sess.Propose(s.ctx, "nope", model.Event{Payload: model.GameOpenStateChange{Open: false}})
	s.ErrorIs(err, model.ErrUnauthorized)
}

func (s *SessionSuite) TestAuctionThroughSession() {
	sess, ana, bob := s.start()

	s.Equal(model.ReasonAuctionsDisabled, s.propose(sess, ana, model.AuctionStart{PropertyName: "Boardwalk", StartingPrice: 200}))
	s.Equal(model.ReasonBankerOnly, s.propose(sess, bob, model.UseAuctionsChange{UseAuctions: true}))
	s.Equal(model.ReasonNone, s.propose(sess, ana, model.UseAuctionsChange{UseAuctions: true}))
	s.Equal(model.ReasonNone, s.propose(sess, ana, model.AuctionStart{PropertyName: "Boardwalk", StartingPrice: 200}))

	s.Equal(model.ReasonBidTooLow, s.propose(sess, bob, model.AuctionBid{BidderID: bob.PlayerID, Amount: 150}))
	s.Equal(model.ReasonNotSelfOrBanker, s.propose(sess, bob, model.AuctionBid{BidderID: ana.PlayerID, Amount: 250}))
	s.Equal(model.ReasonNone, s.propose(sess, bob, model.AuctionBid{BidderID: bob.PlayerID, Amount: 250}))
	s.Equal(model.ReasonBankerOnly, s.propose(sess, bob, model.AuctionEnd{}))
	s.Equal(model.ReasonNone, s.propose(sess, ana, model.AuctionEnd{}))

	state := sess.State()
	s.Nil(state.ActiveAuction)
	s.Equal(int64(-250), s.balance(sess, bob.PlayerID))
}

// Teardown

func (s *SessionSuite) TestLastBankerDemotingSelfEndsGame() {
	sess, ana, bob := s.start()
	client, err := sess.Subscribe(bob.Credential)
	s.Require().NoError(err)

	s.Equal(model.ReasonNone, s.propose(sess, ana, model.PlayerBankerStatusChange{PlayerID: ana.PlayerID, IsBanker: false}))

	s.True(sess.Ended())
	_, err = s.registry.Get(ana.GameID)
	s.ErrorIs(err, model.ErrGameNotFound)

	_, err = sess.Propose(s.ctx, ana.Credential, model.Event{Payload: model.GameOpenStateChange{Open: false}})
	s.ErrorIs(err, model.ErrGameEnded)
	_, err = sess.AddPlayer("Carl")
	s.ErrorIs(err, model.ErrGameEnded)

	s.True(client.Closed())
	events, ended := s.observed(client)
	s.True(ended)
	s.Equal(sess.Events(), events)

	summaries, err := s.archive.ListSummaries(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)
	s.Equal(model.EndReasonNoBankers, summaries[0].Reason)
	s.Equal(ana.GameID, summaries[0].GameID)
	s.Len(summaries[0].Players, 2)
	s.Equal(sess.Events(), summaries[0].Events)
}

func (s *SessionSuite) TestLastBankerLeavingEndsGame() {
	sess, ana, _ := s.start()

	s.Equal(model.ReasonNone, s.propose(sess, ana, model.PlayerDelete{PlayerID: ana.PlayerID}))

	s.True(sess.Ended())
	s.Equal(0, s.registry.Count())
}

func (s *SessionSuite) TestTwoBankers() {
	sess, ana, bob := s.start()
	s.Require().Equal(model.ReasonNone, s.propose(sess, ana, model.PlayerBankerStatusChange{PlayerID: bob.PlayerID, IsBanker: true}))

	s.Equal(model.ReasonNone, s.propose(sess, ana, model.PlayerDelete{PlayerID: ana.PlayerID}))
	s.False(sess.Ended())
	_, err := s.registry.Get(ana.GameID)
	s.NoError(err)

	s.Equal(model.ReasonNone, s.propose(sess, bob, model.PlayerBankerStatusChange{PlayerID: bob.PlayerID, IsBanker: false}))
	s.True(sess.Ended())
	_, err = s.registry.Get(ana.GameID)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *SessionSuite) TestEndGame() {
	sess, ana, bob := s.start()
	anaClient, err := sess.Subscribe(ana.Credential)
	s.Require().NoError(err)
	bobClient, err := sess.Subscribe(bob.Credential)
	s.Require().NoError(err)

	s.ErrorIs(sess.EndGame(s.ctx, bob.Credential), model.ErrNotBanker)
	s.False(sess.Ended())

	s.Require().NoError(sess.EndGame(s.ctx, ana.Credential))
	s.True(sess.Ended())
	s.Equal(0, s.registry.Count())

	for _, c := range []*realtime.Client{anaClient, bobClient} {
		s.True(c.Closed())
		_, ended := s.observed(c)
		s.True(ended)
	}

	s.ErrorIs(sess.EndGame(s.ctx, ana.Credential), model.ErrGameEnded)

	summaries, err := s.archive.ListSummariesForGame(s.ctx, ana.GameID)
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)
	s.Equal(model.EndReasonBankerEnded, summaries[0].Reason)
	s.Equal(model.SummaryID("summary-1"), summaries[0].ID)
}

func (s *SessionSuite) TestRegistryClose() {
	s.start()
	_, err := s.registry.Create("Carl")
	s.Require().NoError(err)

	s.registry.Close(s.ctx)

	s.Equal(0, s.registry.Count())
	summaries, err := s.archive.ListSummaries(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)
	for _, summary := range summaries {
		s.Equal(model.EndReasonShutdown, summary.Reason)
	}

	_, err = s.registry.Create("Dana")
	s.ErrorIs(err, model.ErrShuttingDown)
}

// Fan-out

func (s *SessionSuite) TestSubscribeDeliversLogThenConnection() {
	sess, _, bob := s.start()

	client, err := sess.Subscribe(bob.Credential)
	s.Require().NoError(err)

	frames := client.Drain()
	s.Require().Len(frames, 2)
	s.Equal(realtime.MessageInitialEventArray, frames[0].Type)
	s.Equal(realtime.MessageNewEvent, frames[1].Type)

	var initial realtime.Outgoing
	s.Require().NoError(json.Unmarshal(frames[0].Data, &initial))
	s.Len(initial.Events, 3)

	var online realtime.Outgoing
	s.Require().NoError(json.Unmarshal(frames[1].Data, &online))
	s.Require().NotNil(online.Event)
	s.Equal(model.PlayerConnectionChange{PlayerID: bob.PlayerID, Connected: true}, online.Event.Payload)

	state := sess.State()
	s.True(state.GetPlayer(bob.PlayerID).Connected)
}

func (s *SessionSuite) TestSubscriberSeesLogInOrder() {
	sess, ana, bob := s.start()
	anaClient, err := sess.Subscribe(ana.Credential)
	s.Require().NoError(err)

	s.propose(sess, ana, model.Transaction{From: model.EntityBank, To: model.EntityFor(bob.PlayerID), Amount: 100})
	bobClient, err := sess.Subscribe(bob.Credential)
	s.Require().NoError(err)
	s.propose(sess, bob, model.Transaction{From: model.EntityFor(bob.PlayerID), To: model.EntityFor(ana.PlayerID), Amount: 40})
	s.propose(sess, bob, model.PlayerNameChange{PlayerID: bob.PlayerID, Name: "Bobby"})

	log := sess.Events()
	anaSeen, _ := s.observed(anaClient)
	bobSeen, _ := s.observed(bobClient)
	s.Equal(log, anaSeen)
	s.Equal(log, bobSeen)
}

func (s *SessionSuite) TestConcurrentProposalsKeepOneOrder() {
	s.registry = s.newRegistry(Config{SendBufferSize: 4096})
	s.clock.AutoAdvance(time.Millisecond)
	sess, ana, bob := s.start()

	anaClient, err := sess.Subscribe(ana.Credential)
	s.Require().NoError(err)
	bobClient, err := sess.Subscribe(bob.Credential)
	s.Require().NoError(err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				payer := ana
				if (i+j)%2 == 0 {
					payer = bob
				}
				_, _ = sess.Propose(s.ctx, payer.Credential, model.Event{Payload: model.Transaction{
					From:   model.EntityFor(payer.PlayerID),
					To:     model.EntityBank,
					Amount: int64(j + 1),
				}})
			}
		}(i)
	}
	wg.Wait()

	log := sess.Events()
	s.Len(log, 3+2+8*50)

	anaSeen, _ := s.observed(anaClient)
	bobSeen, _ := s.observed(bobClient)
	s.Equal(log, anaSeen)
	s.Equal(log[3:], bobSeen[3:])

	var total int64
	for _, p := range sess.State().Players {
		total += p.Balance
	}
	s.Equal(int64(-8*(50*51/2)), total)
}

func (s *SessionSuite) TestSlowSubscriberDoesNotBlockOthers() {
	s.registry = s.newRegistry(Config{SendBufferSize: 2})
	sess, ana, bob := s.start()

	bobClient, err := sess.Subscribe(bob.Credential)
	s.Require().NoError(err)
	// initialEventArray and bob's own connection event fill the buffer

	s.Equal(model.ReasonNone, s.propose(sess, ana, model.Transaction{From: model.EntityBank, To: model.EntityFor(bob.PlayerID), Amount: 5}))

	s.True(bobClient.Closed())
	s.Equal(int64(5), s.balance(sess, bob.PlayerID))

	// The transport then unsubscribes the dropped connection
	sess.Unsubscribe(bobClient)
	state := sess.State()
	s.False(state.GetPlayer(bob.PlayerID).Connected)
}

func (s *SessionSuite) TestUnsubscribeMarksPlayerOffline() {
	sess, _, bob := s.start()
	client, err := sess.Subscribe(bob.Credential)
	s.Require().NoError(err)

	sess.Unsubscribe(client)

	state := sess.State()
	s.False(state.GetPlayer(bob.PlayerID).Connected)
	events := sess.Events()
	s.Equal(model.PlayerConnectionChange{PlayerID: bob.PlayerID, Connected: false}, events[len(events)-1].Payload)
	s.Equal(0, sess.ClientCount())

	// A second unsubscribe of the same connection does nothing
	sess.Unsubscribe(client)
	s.Len(sess.Events(), len(events))
}

func (s *SessionSuite) TestSupersededConnectionDoesNotMarkPlayerOffline() {
	sess, _, bob := s.start()
	first, err := sess.Subscribe(bob.Credential)
	s.Require().NoError(err)
	second, err := sess.Subscribe(bob.Credential)
	s.Require().NoError(err)

	s.False(first.Closed())
	s.Equal(1, sess.ClientCount())

	sess.Unsubscribe(first)
	state := sess.State()
	s.True(state.GetPlayer(bob.PlayerID).Connected)

	sess.Unsubscribe(second)
	state = sess.State()
	s.False(state.GetPlayer(bob.PlayerID).Connected)
}

func (s *SessionSuite) TestDeletingPlayerRevokesCredentialAndClosesConnection() {
	sess, ana, bob := s.start()
	client, err := sess.Subscribe(bob.Credential)
	s.Require().NoError(err)

	s.Equal(model.ReasonNone, s.propose(sess, ana, model.PlayerDelete{PlayerID: bob.PlayerID}))

	s.True(client.Closed())
	seen, _ := s.observed(client)
	s.Require().NotEmpty(seen)
	s.Equal(model.PlayerDelete{PlayerID: bob.PlayerID}, seen[len(seen)-1].Payload)

	_, err = sess.Snapshot(bob.Credential)
	s.ErrorIs(err, model.ErrUnauthorized)
	_, err = sess.Subscribe(bob.Credential)
	s.ErrorIs(err, model.ErrUnauthorized)
	_, err = sess.Propose(s.ctx, bob.Credential, model.Event{Payload: model.PlayerNameChange{PlayerID: bob.PlayerID, Name: "x"}})
	s.ErrorIs(err, model.ErrUnauthorized)

	// The closed connection going away does not log anything for a removed player
	count := len(sess.Events())
	sess.Unsubscribe(client)
	s.Len(sess.Events(), count)
}
