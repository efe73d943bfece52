package envtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHostPort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected HostPort
		str      string
	}{
		{"localhost:9090", HostPort{Host: "localhost", Port: 9090}, "localhost:9090"},
		{":2112", HostPort{Port: 2112}, ":2112"},
		{"[::1]:8080", HostPort{Host: "::1", Port: 8080}, "[::1]:8080"},
		{"192.168.1.1:443", HostPort{Host: "192.168.1.1", Port: 443}, "192.168.1.1:443"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			hp, err := ParseHostPort(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, hp)
			assert.Equal(t, tt.str, hp.String())
			assert.False(t, hp.IsZero())
		})
	}
}

func TestParseHostPortRejects(t *testing.T) {
	t.Parallel()

	_, err := ParseHostPort("localhost")
	require.ErrorIs(t, err, ErrBadHostAndPort)

	_, err = ParseHostPort("localhost:http")
	require.ErrorIs(t, err, ErrBadPort)

	_, err = ParseHostPort("localhost:70000")
	require.ErrorIs(t, err, ErrBadPort)

	assert.True(t, HostPort{}.IsZero())
}
