package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Name Encoding:
// - Name lists round-trip through the TEXT column representation
// - nil and empty lists stay distinguishable after a round trip
// - Malformed stored text is reported, not silently dropped

func TestNamesEncoding_RoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		names []string
	}{
		{"multiple names", []string{"useState", "useEffect"}},
		{"single name", []string{"default"}},
		{"empty list", []string{}},
		{"nil list", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			encoded, err := encodeNames(tc.names)
			require.NoError(t, err)

			decoded, err := decodeNames(encoded)
			require.NoError(t, err)
			assert.Equal(t, tc.names, decoded)
		})
	}
}

func TestDecodeNames_MalformedInput(t *testing.T) {
	t.Parallel()

	_, err := decodeNames("[unterminated")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode names")
}
