package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeCompare(t *testing.T) {
	assert.Equal(t, 0, Infinite.Compare(Infinite))
	assert.Equal(t, 1, Infinite.Compare(Finite(5)))
	assert.Equal(t, -1, Finite(5).Compare(Infinite))
	assert.Equal(t, -1, Finite(4).Compare(Finite(5)))
	assert.Equal(t, 1, Finite(6).Compare(Finite(5)))
	assert.Equal(t, 0, Finite(5).Compare(Finite(5)))
	assert.True(t, Finite(4).Less(Finite(5)))
	assert.True(t, Finite(5).LessOrEqual(Finite(5)))
}

func TestTimeAddSaturates(t *testing.T) {
	assert.Equal(t, Finite(8), Finite(3).Add(Finite(5)))
	assert.Equal(t, Infinite, Infinite.Add(Finite(5)))
	assert.Equal(t, Infinite, Finite(5).Add(Infinite))
	assert.Equal(t, Infinite, Infinite.Add(Infinite))
}

func TestTimeString(t *testing.T) {
	// 69h04m20s, arbitrary hour magnitude past 24h is valid GTFS time.
	tm := Finite(69*3600 + 4*60 + 20)
	assert.Equal(t, "69:04:20", tm.String())
	assert.Equal(t, "infinite", Infinite.String())
}

func TestParseTimeAccepts(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"9:00:00", 9 * 3600},
		{"09:00:00", 9 * 3600},
		{"00:00:00", 0},
		{"25:10:05", 25*3600 + 10*60 + 5},
		{"123:00:00", 123 * 3600},
	}
	for _, c := range cases {
		got, err := ParseTime(c.in)
		require.NoError(t, err, c.in)
		seconds, ok := got.Seconds()
		require.True(t, ok)
		assert.Equal(t, c.want, seconds, c.in)
	}
}

func TestParseTimeRejects(t *testing.T) {
	cases := []string{
		"",
		"9:00",
		"9:00:00:00",
		"9:0:00",
		"9:00:0",
		"9:60:00",
		"9:00:60",
		"a:00:00",
		"9:aa:00",
		"9:00:aa",
	}
	for _, c := range cases {
		_, err := ParseTime(c)
		require.Error(t, err, c)
		assert.ErrorIs(t, err, ErrMalformedTime, c)
	}
}
