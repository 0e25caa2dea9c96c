package parser

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swoga/ddwrt-exporter/model"
)

const memInfoFixture = `MemTotal:         255184 kB
MemFree:           96548 kB
MemAvailable:     151232 kB
Buffers:            5412 kB
Cached:            61700 kB
SwapCached:            0 kB
Active:            53012 kB
Inactive:          38980 kB
`

const netDevFixture = `Inter-|   Receive                                                |  Transmit
 face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed
    lo:   12345     100    0    0    0     0          0         0    12345     100    0    0    0     0       0          0
  eth0: 9876543   54321    0    0    0     0          0        12  1234567   43210    0    0    0     0       0          0
   br0:1234567890 111 0 0 0 0 0 0 222 333 0 0 0 0 0 0
`

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{""}, splitLines("\n"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\r\nb"))
	assert.Equal(t, []string{"a", ""}, splitLines("a\n\n"))
}

func TestParseMemoryInfo(t *testing.T) {
	stats, err := ParseMemoryInfo("MemTotal: 1000 kB\nMemAvailable: 400 kB\nCached: 100 kB\n")
	require.NoError(t, err)
	assert.Equal(t, model.MemoryStats{TotalKB: 1000, AvailableKB: 400, CachedKB: 100}, stats)
	assert.Equal(t, int64(600), stats.UsedKB())
}

func TestParseMemoryInfoCachedMatchesLastRow(t *testing.T) {
	stats, err := ParseMemoryInfo(memInfoFixture)
	require.NoError(t, err)
	assert.Equal(t, uint64(255184), stats.TotalKB)
	assert.Equal(t, uint64(151232), stats.AvailableKB)
	// SwapCached follows Cached and shares the label substring
	assert.Equal(t, uint64(0), stats.CachedKB)
}

func TestParseMemoryInfoMissingRows(t *testing.T) {
	stats, err := ParseMemoryInfo("MemTotal: 2048 kB\nMemFree: 1024 kB\n")
	require.NoError(t, err)
	assert.Equal(t, model.MemoryStats{TotalKB: 2048}, stats)
	assert.Equal(t, int64(2048), stats.UsedKB())

	stats, err = ParseMemoryInfo("")
	require.NoError(t, err)
	assert.Equal(t, model.MemoryStats{}, stats)
}

func TestParseMemoryInfoMalformedRowDefaultsToZero(t *testing.T) {
	stats, err := ParseMemoryInfo("MemTotal: lots kB\nMemAvailable: 400 kB\nCached:\n")
	require.Error(t, err)
	assert.Equal(t, model.MemoryStats{AvailableKB: 400}, stats)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "meminfo", parseErr.Source)
	assert.Equal(t, 1, parseErr.Line)
	assert.Contains(t, err.Error(), "Cached:")
}

func TestParseMemoryInfoUsedIsTotalMinusAvailable(t *testing.T) {
	testCases := []struct {
		total     uint64
		available uint64
	}{
		{1000, 400},
		{255184, 151232},
		{1, 0},
		{524288, 524288},
	}
	for _, tc := range testCases {
		text := "MemTotal: " + itoa(tc.total) + " kB\nMemAvailable: " + itoa(tc.available) + " kB\n"
		stats, err := ParseMemoryInfo(text)
		require.NoError(t, err)
		assert.Equal(t, int64(tc.total)-int64(tc.available), stats.UsedKB())
	}
}

func TestParseUptime(t *testing.T) {
	seconds, err := ParseUptime("350735.47 234388.90\n")
	require.NoError(t, err)
	assert.InDelta(t, 350735.47, seconds, 1e-9)

	seconds, err = ParseUptime("12")
	require.NoError(t, err)
	assert.Equal(t, 12.0, seconds)
}

func TestParseUptimeMalformed(t *testing.T) {
	for _, text := range []string{"", "   \n", "abc 1.0", "-5 1", "NaN 1"} {
		seconds, err := ParseUptime(text)
		assert.Error(t, err, text)
		assert.Equal(t, 0.0, seconds, text)
	}
}

func TestParseLoadAverage(t *testing.T) {
	load, err := ParseLoadAverage("0.10 0.20 0.30 1/200 1234")
	require.NoError(t, err)
	assert.Equal(t, model.LoadAverage{Load1: 0.10, Load5: 0.20, Load15: 0.30}, load)

	load, err = ParseLoadAverage("1.5 0.75 2\n")
	require.NoError(t, err)
	assert.Equal(t, model.LoadAverage{Load1: 1.5, Load5: 0.75, Load15: 2}, load)
}

func TestParseLoadAverageMalformed(t *testing.T) {
	load, err := ParseLoadAverage("0.10 x 0.30 1/200 1234")
	require.Error(t, err)
	assert.Equal(t, model.LoadAverage{Load1: 0.10, Load15: 0.30}, load)

	load, err = ParseLoadAverage("0.50")
	require.Error(t, err)
	assert.Equal(t, model.LoadAverage{Load1: 0.50}, load)

	load, err = ParseLoadAverage("")
	require.Error(t, err)
	assert.Equal(t, model.LoadAverage{}, load)
}

func TestParseCPUSnapshot(t *testing.T) {
	text := "cpu  4579 0 3281 281334 182 0 47 0 0 0\ncpu0 4579 0 3281 281334 182 0 47 0 0 0\nintr 1234\n"
	snapshot, err := ParseCPUSnapshot(text)
	require.NoError(t, err)
	assert.Equal(t, model.CPUSnapshot{4579, 0, 3281, 281334, 182, 0, 47, 0, 0, 0}, snapshot)

	idle, ok := snapshot.Idle()
	require.True(t, ok)
	assert.Equal(t, uint64(281334), idle)

	usage, err := snapshot.UsagePercent()
	require.NoError(t, err)
	assert.InDelta(t, 100*(1-281334.0/289423.0), usage, 1e-9)
}

func TestParseCPUSnapshotMalformedCounterKeepsPosition(t *testing.T) {
	snapshot, err := ParseCPUSnapshot("cpu 10 x 10 80")
	require.Error(t, err)
	assert.Equal(t, model.CPUSnapshot{10, 0, 10, 80}, snapshot)

	usage, err := snapshot.UsagePercent()
	require.NoError(t, err)
	assert.InDelta(t, 20.0, usage, 1e-9)
}

func TestParseCPUSnapshotZeroTicks(t *testing.T) {
	snapshot, err := ParseCPUSnapshot("cpu 0 0 0 0 0 0 0\n")
	require.NoError(t, err)

	_, err = snapshot.UsagePercent()
	assert.ErrorIs(t, err, model.ErrNoTicks)
}

func TestParseCPUSnapshotEmpty(t *testing.T) {
	for _, text := range []string{"", "cpu\n"} {
		snapshot, err := ParseCPUSnapshot(text)
		assert.Error(t, err)
		_, err = snapshot.UsagePercent()
		assert.ErrorIs(t, err, model.ErrNoTicks)
	}
}

func TestParseInterfaceCounters(t *testing.T) {
	counters, err := ParseInterfaceCounters(netDevFixture)
	require.NoError(t, err)
	assert.Equal(t, model.InterfaceCounters{
		"eth0": {RxBytes: 9876543, TxBytes: 1234567},
		"br0":  {RxBytes: 1234567890, TxBytes: 222},
	}, counters)
}

func TestParseInterfaceCountersLoopbackOnly(t *testing.T) {
	text := "Inter-|   Receive\n face |bytes\n    lo:   12345     100    0    0    0     0          0         0    12345     100    0    0    0     0       0          0\n"
	counters, err := ParseInterfaceCounters(text)
	require.NoError(t, err)
	assert.Empty(t, counters)

	counters, err = ParseInterfaceCounters("header\nheader\n")
	require.NoError(t, err)
	assert.Empty(t, counters)
}

func TestParseInterfaceCountersShortLine(t *testing.T) {
	text := "header\nheader\n  eth0: 1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16\n  eth1: 1 2 3 4 5 6 7 8\n"
	counters, err := ParseInterfaceCounters(text)
	require.Error(t, err)
	assert.Nil(t, counters)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "net/dev", parseErr.Source)
	assert.Equal(t, 4, parseErr.Line)
	assert.Contains(t, err.Error(), "eth1")
}

func TestParseInterfaceCountersExactlyTenFields(t *testing.T) {
	counters, err := ParseInterfaceCounters("h\nh\nwlan0: 100 2 3 4 5 6 7 8 900\n")
	require.NoError(t, err)
	assert.Equal(t, model.InterfaceCounters{"wlan0": {RxBytes: 100, TxBytes: 900}}, counters)
}

func TestParseInterfaceCountersMalformed(t *testing.T) {
	for _, line := range []string{
		"eth0 1 2 3 4 5 6 7 8 9 10",
		"eth0: x 2 3 4 5 6 7 8 9 10",
		"eth0: 1 2 3 4 5 6 7 8 -9 10",
	} {
		_, err := ParseInterfaceCounters("h\nh\n" + line + "\n")
		assert.Error(t, err, line)
	}
}

func TestParseTCPConnectionCount(t *testing.T) {
	header := "  sl  local_address rem_address   st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode"
	entry := "   0: 0100007F:0035 00000000:0000 0A 00000000:00000000 00:00000000 00000000     0        0 1234 1 00000000 100 0 0 10 0"

	assert.Equal(t, 0, ParseTCPConnectionCount(header))
	assert.Equal(t, 0, ParseTCPConnectionCount(header+"\n"))
	assert.Equal(t, 2, ParseTCPConnectionCount(header+"\n"+entry+"\n"+entry+"\n"))
	assert.Equal(t, 0, ParseTCPConnectionCount(""))
}

func TestParseTCPConnectionCountIsLinesMinusHeader(t *testing.T) {
	for n := 1; n <= 50; n++ {
		text := ""
		for i := 0; i < n; i++ {
			text += "line\n"
		}
		assert.Equal(t, n-1, ParseTCPConnectionCount(text))
	}
}

func TestParseNeighborTable(t *testing.T) {
	text := "? (192.168.1.10) at aa:bb:cc:dd:ee:ff [ether]  on br0\n? (192.168.1.11) at 11:22:33:44:55:66 [ether]  on br0\n"
	table := ParseNeighborTable(text)
	assert.Equal(t, model.NeighborTable{
		"? (192.168.1.10) at aa:bb:cc:dd:ee:ff [ether]  on br0",
		"? (192.168.1.11) at 11:22:33:44:55:66 [ether]  on br0",
	}, table)
	assert.Equal(t, 2, table.ConnectedDevices())
}

func TestParseNeighborTableKeepsHeader(t *testing.T) {
	text := "IP address       HW type     Flags       HW address            Mask     Device\n192.168.1.10     0x1         0x2         aa:bb:cc:dd:ee:ff     *        br0\n"
	assert.Equal(t, 2, ParseNeighborTable(text).ConnectedDevices())
	assert.Equal(t, 0, ParseNeighborTable("").ConnectedDevices())
}

func itoa(v uint64) string {
	return strconv.FormatUint(v, 10)
}
