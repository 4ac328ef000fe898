package mocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockRandomQueueThenCounter(t *testing.T) {
	r := NewMockRandom()
	r.QueueString("123456", "123456")

	assert.Equal(t, "123456", r.String(6, "0123456789"))
	assert.Equal(t, "123456", r.String(6, "0123456789"))
	assert.Equal(t, "000001", r.String(6, "0123456789"))
	assert.Equal(t, "000002", r.String(6, "0123456789"))

	r.Reset()
	assert.Equal(t, "000001", r.String(6, "0123456789"))
}

func TestMockClockAutoAdvance(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(start)
	assert.Equal(t, start, c.Now())
	assert.Equal(t, start, c.Now())

	c.AutoAdvance(time.Second)
	assert.Equal(t, start, c.Now())
	assert.Equal(t, start.Add(time.Second), c.Now())
}

func TestMockIDsAreSequential(t *testing.T) {
	g := NewMockIDs()
	assert.Equal(t, "player-1", string(g.PlayerID()))
	assert.Equal(t, "player-2", string(g.PlayerID()))
	assert.Equal(t, "token-1", string(g.Credential()))
	assert.Equal(t, "summary-1", string(g.SummaryID()))
}
