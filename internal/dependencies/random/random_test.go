package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringUsesAlphabet(t *testing.T) {
	r := New()
	for i := 0; i < 100; i++ {
		s := r.String(6, "0123456789")
		assert.Len(t, s, 6)
		for _, c := range s {
			assert.True(t, strings.ContainsRune("0123456789", c), "unexpected rune %q", c)
		}
	}
}

func TestStringEmpty(t *testing.T) {
	r := New()
	assert.Empty(t, r.String(0, "abc"))
	assert.Empty(t, r.String(4, ""))
}
