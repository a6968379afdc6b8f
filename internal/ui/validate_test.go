package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOptionalInt(t *testing.T) {
	volume := ValidateOptionalInt("volume", 1, 6)

	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{" 3 ", false},
		{"6", false},
		{"0", true},
		{"7", true},
		{"tiga", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := volume(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.NoError(t, ValidateOptionalInt("page", 1, 0)("250"))
}

func TestValidateOptionalDate(t *testing.T) {
	assert.NoError(t, ValidateOptionalDate(""))
	assert.NoError(t, ValidateOptionalDate("2015-08-17"))
	assert.Error(t, ValidateOptionalDate("17/08/2015"))
}

func TestOptionalConversions(t *testing.T) {
	assert.Nil(t, OptionalInt(""))
	n := OptionalInt(" 12")
	require.NotNil(t, n)
	assert.Equal(t, 12, *n)
	assert.Equal(t, "12", IntText(n))
	assert.Equal(t, "", IntText(nil))

	assert.Nil(t, OptionalString("  "))
	s := OptionalString(" Al-Fatihah ")
	require.NotNil(t, s)
	assert.Equal(t, "Al-Fatihah", *s)
	assert.Equal(t, "Al-Fatihah", StringText(s))
}
