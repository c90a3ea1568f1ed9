package timezone_test

import (
	"tablebook/shared/timezone"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNow(t *testing.T) {
	now := timezone.Now()

	assert.False(t, now.IsZero())
	assert.Equal(t, timezone.Location(), now.Location())
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty falls back to UTC", input: "", expected: "UTC"},
		{name: "unknown falls back to UTC", input: "Mars/Olympus_Mons", expected: "UTC"},
		{name: "known zone", input: "Asia/Jakarta", expected: "Asia/Jakarta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, timezone.Resolve(tt.input).String())
		})
	}
}

func TestResolve_Cached(t *testing.T) {
	assert.Same(t, timezone.Resolve("Europe/Lisbon"), timezone.Resolve("Europe/Lisbon"))
}
