package netlib_test

import (
	"testing"

	"github.com/db47h/pulsenet"
	"github.com/db47h/pulsenet/netlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	decls, err := netlib.Counter("x", 5, "out")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"%x_0 -> x_1, x_r",
		"%x_1 -> x_2",
		"%x_2 -> x_r",
		"&x_r -> x_0, x_1, x_w",
		"&x_w -> out",
	}, netlib.Lines(decls))
}

func TestCounter_errors(t *testing.T) {
	for _, p := range []int{-1, 0, 1, 2, 4, 12} {
		_, err := netlib.Counter("x", p, "out")
		assert.Error(t, err, "period %d", p)
	}
}

func TestBank(t *testing.T) {
	decls, err := netlib.Bank([]int{3, 5}, "rx")
	require.NoError(t, err)
	lines := netlib.Lines(decls)
	assert.Equal(t, []string{
		"broadcaster -> k0_0, k1_0",
		"%k0_0 -> k0_1, k0_r",
		"%k0_1 -> k0_r",
		"&k0_r -> k0_0, k0_w",
		"&k0_w -> hub",
		"%k1_0 -> k1_1, k1_r",
		"%k1_1 -> k1_2",
		"%k1_2 -> k1_r",
		"&k1_r -> k1_0, k1_1, k1_w",
		"&k1_w -> hub",
		"&hub -> rx",
	}, lines)

	// the text form builds the same network
	n, err := pulsenet.Parse(lines)
	require.NoError(t, err)
	tl := n.Run(1000)
	assert.Equal(t, pulsenet.Tally{Low: 10863, High: 15065}, tl)

	sink, err := n.Sink()
	require.NoError(t, err)
	assert.Equal(t, "rx", sink)

	_, err = netlib.Bank(nil, "rx")
	assert.Error(t, err)
	_, err = netlib.Bank([]int{3, 6}, "rx")
	assert.Error(t, err)
}

func TestBank_periods(t *testing.T) {
	decls, err := netlib.Bank([]int{7, 11, 13}, "rx")
	require.NoError(t, err)
	n, err := pulsenet.New(decls)
	require.NoError(t, err)

	watch := make([]string, 3)
	for i := range watch {
		watch[i] = netlib.WatchName(netlib.CounterPrefix(i))
	}
	first, err := pulsenet.FirstHighs(n, watch, 100)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"k0_w": 7, "k1_w": 11, "k2_w": 13}, first)
}
