package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashDeterministic(t *testing.T) {
	h := DefaultHasher()
	assert.Equal(t, h.HashString("towel"), h.HashString("towel"))
	assert.NotEqual(t, h.HashString("towel"), h.HashString("sheet"))
	assert.Len(t, h.HashString("towel"), 64)
}

func TestHashFieldsIgnoresOrder(t *testing.T) {
	h := DefaultHasher()
	assert.Equal(t, h.HashFields("a", "b", "c"), h.HashFields("c", "a", "b"))
}

func TestETag(t *testing.T) {
	h := DefaultHasher()

	first, err := h.ETag([]string{"sheet", "towel"})
	require.NoError(t, err)
	second, err := h.ETag([]string{"sheet", "towel"})
	require.NoError(t, err)
	other, err := h.ETag([]string{"towel"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Regexp(t, `^W/"[0-9a-f]{16}"$`, first)

	_, err = h.ETag(make(chan int))
	assert.Error(t, err)
}

func TestMatchesETag(t *testing.T) {
	tag := `W/"0123456789abcdef"`

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{"empty", "", false},
		{"exact", tag, true},
		{"strong form", `"0123456789abcdef"`, true},
		{"list", `"zzz", ` + tag, true},
		{"wildcard", "*", true},
		{"other", `W/"ffffffffffffffff"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesETag(tt.header, tag))
		})
	}
}
