package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUse(t *testing.T) {
	t.Cleanup(func() { Use("default") })

	assert.True(t, Use("green"))
	assert.Equal(t, "green", Active())

	assert.False(t, Use("neon"))
	assert.Equal(t, "default", Active())
}

func TestEveryNameHasPalette(t *testing.T) {
	for _, name := range Names() {
		_, ok := Palettes[name]
		assert.True(t, ok, name)
	}
	assert.Len(t, Palettes, len(Names()))
}
