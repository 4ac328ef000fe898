package mocks

import (
	"sync"

	"github.com/mcoot/playmoney/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	mu sync.Mutex

	// stringResults is a queue of results to return from String
	stringResults []string
	stringIndex   int

	// fallback counts strings generated once the queue is exhausted
	fallback int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// String returns the next queued result. Once the queue is exhausted it
// counts upwards through the alphabet so every call still yields a fresh value.
func (r *MockRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stringIndex < len(r.stringResults) {
		result := r.stringResults[r.stringIndex]
		r.stringIndex++
		return result
	}

	r.fallback++
	return counterString(r.fallback, length, alphabet)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stringResults = append(r.stringResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stringResults = nil
	r.stringIndex = 0
	r.fallback = 0
}

// counterString writes n in base len(alphabet), left padded to length
func counterString(n, length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	base := len(alphabet)
	result := make([]byte, length)
	for i := length - 1; i >= 0; i-- {
		result[i] = alphabet[n%base]
		n /= base
	}
	return string(result)
}
