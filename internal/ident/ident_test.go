package ident

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUID(t *testing.T) {
	a, b := UUID(), UUID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.True(t, Valid(a))
	assert.False(t, Valid("not-an-id"))
}

func TestWithPrefix(t *testing.T) {
	id := WithPrefix("src")()
	assert.True(t, strings.HasPrefix(id, "src_"))
	assert.True(t, Valid(strings.TrimPrefix(id, "src_")))

	assert.Len(t, WithPrefix("")(), 36)
}

func TestSequence(t *testing.T) {
	gen := Sequence("a", "a", "b")
	assert.Equal(t, "a", gen())
	assert.Equal(t, "a", gen())
	assert.Equal(t, "b", gen())
	assert.True(t, Valid(gen()))
}
