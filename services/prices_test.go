package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanPrice(t *testing.T) {
	cases := []struct {
		name string
		text string
		want float64
	}{
		{"euro symbol", "€150.50", 150.50},
		{"comma decimal", "150,50", 150.50},
		{"thousand separator with comma decimal", "1.500,50", 1500.50},
		{"thousand separator with dot decimal", "1,500.50", 1500.50},
		{"plain integer", "ARS 2500", 2500},
		{"empty string", "", 0.0},
		{"invalid", "invalid", 0.0},
		{"only symbols", "€$", 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CleanPrice(tc.text))
		})
	}
}

func TestApplyIncrement(t *testing.T) {
	// 10.5% markup then truncate to integer
	require.Equal(t, 110.0, ApplyIncrement(100.0, 1.105))
	require.Equal(t, 109.0, ApplyIncrement(99.0, 1.105)) // 109.395 truncates, not rounds
	require.Equal(t, 0.0, ApplyIncrement(0.0, 1.105))
	require.Equal(t, 0.0, ApplyIncrement(-50.0, 1.105))
}

func TestExtractNumber(t *testing.T) {
	{
		n := ExtractNumber("Only 5 left")
		require.NotNil(t, n)
		require.Equal(t, 5, *n)
	}
	{
		// Only the first run of digits counts
		n := ExtractNumber("5 rooms and 10 beds")
		require.NotNil(t, n)
		require.Equal(t, 5, *n)
	}
	{
		n := ExtractNumber("Room 123 available")
		require.NotNil(t, n)
		require.Equal(t, 123, *n)
	}
	require.Nil(t, ExtractNumber(""))
	require.Nil(t, ExtractNumber("no numbers here"))
}
