package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"10MB", 10 << 20},
		{"512KB", 512 << 10},
		{"2GB", 2 << 30},
		{"1024", 1024},
		{"64B", 64},
		{"  10MB  ", 10 << 20},
		{"10mb", 10 << 20},
		{"1 MB", 1 << 20},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseSize(tc.input, 0))
		})
	}
}

func TestParseSize_Default(t *testing.T) {
	const def = int64(5 << 20)
	for _, input := range []string{"", "invalid", "10XB", "MB", "1.5MB"} {
		assert.Equal(t, def, ParseSize(input, def), input)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input  string
		prefix int
		want   string
	}{
		{"host=localhost user=admin password=secret", 10, "host=local***"},
		{"short", 10, "***"},
		{"exactly10!", 10, "***"},
		{"", 5, "***"},
		{"abcdef", 3, "abc***"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MaskSecret(tc.input, tc.prefix), tc.input)
	}
}
