package mergesort

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func int32Comparator(a, b []byte, _ any) int {
	av := int32(binary.BigEndian.Uint32(a))
	bv := int32(binary.BigEndian.Uint32(b))
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}

func encodeInt32(v int32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(v))
	return buf
}

func decodeInt32(b []byte) int32 {
	return int32(binary.BigEndian.Uint32(b))
}

func newTestSorter(t *testing.T, recordsPerFile int) (*Sorter, string) {
	t.Helper()
	dir := t.TempDir()
	s := New(Options{
		RecordsPerPage: 2,
		RecordsPerFile: recordsPerFile,
		RecordSize:     4,
		Comparator:     int32Comparator,
	})
	return s, dir
}

func sortInts(t *testing.T, recordsPerFile int, input []int32) []int32 {
	t.Helper()
	s, dir := newTestSorter(t, recordsPerFile)
	s.opts.Dir = dir
	defer s.Close()

	for _, v := range input {
		require.NoError(t, s.Write(encodeInt32(v)))
	}
	require.NoError(t, s.EndWrite())
	require.NoError(t, s.BeginRead())

	out := make([]int32, 0, len(input))
	buf := make([]byte, 4)
	for range input {
		require.NoError(t, s.Read(buf))
		out = append(out, decodeInt32(buf))
	}
	return out
}

// S1 — single-run sort.
func TestScenarioSingleRun(t *testing.T) {
	out := sortInts(t, 4, []int32{3, 1, 4, 1})
	require.Equal(t, []int32{1, 1, 3, 4}, out)
}

// S2 — three-way merge.
func TestScenarioThreeWayMerge(t *testing.T) {
	out := sortInts(t, 2, []int32{5, 2, 9, 1, 7, 3})
	require.Equal(t, []int32{1, 2, 3, 5, 7, 9}, out)
}

// Property 1 — sort correctness across the boundary sizes called out by the
// spec, relative to a fixed records_per_file.
func TestSortCorrectnessAcrossSizes(t *testing.T) {
	const recordsPerFile = 8
	sizes := []int{0, 1, recordsPerFile - 1, recordsPerFile, recordsPerFile + 1, 10 * recordsPerFile}

	for _, n := range sizes {
		n := n
		t.Run("", func(t *testing.T) {
			input := make([]int32, n)
			seed := int32(1)
			for i := range input {
				seed = (seed*1103515245 + 12345) & 0x7fffffff
				input[i] = seed % 1000
			}

			out := sortInts(t, recordsPerFile, input)
			require.Len(t, out, n)

			for i := 1; i < len(out); i++ {
				require.LessOrEqual(t, out[i-1], out[i])
			}

			counts := map[int32]int{}
			for _, v := range input {
				counts[v]++
			}
			for _, v := range out {
				counts[v]--
			}
			for v, c := range counts {
				require.Zero(t, c, "value %d not a permutation match", v)
			}
		})
	}
}

// Property 6 — temp-file hygiene: nothing named auxiliary_sort_file*
// survives a full write -> read -> exhaust cycle.
func TestTempFileHygiene(t *testing.T) {
	s, dir := newTestSorter(t, 2)
	s.opts.Dir = dir

	input := []int32{5, 2, 9, 1, 7, 3}
	for _, v := range input {
		require.NoError(t, s.Write(encodeInt32(v)))
	}
	require.NoError(t, s.EndWrite())
	require.NoError(t, s.BeginRead())

	buf := make([]byte, 4)
	for range input {
		require.NoError(t, s.Read(buf))
	}

	matches, err := filepath.Glob(filepath.Join(dir, "auxiliary_sort_file*"))
	require.NoError(t, err)
	require.Empty(t, matches)
}

// Early destruction mid-read must unlink the remaining run files.
func TestCloseMidReadUnlinksRuns(t *testing.T) {
	s, dir := newTestSorter(t, 2)
	s.opts.Dir = dir

	input := []int32{5, 2, 9, 1, 7, 3}
	for _, v := range input {
		require.NoError(t, s.Write(encodeInt32(v)))
	}
	require.NoError(t, s.EndWrite())
	require.NoError(t, s.BeginRead())

	buf := make([]byte, 4)
	require.NoError(t, s.Read(buf))
	require.NoError(t, s.Close())

	matches, err := filepath.Glob(filepath.Join(dir, "auxiliary_sort_file*"))
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestWriteAfterEndWriteIsError(t *testing.T) {
	s, dir := newTestSorter(t, 4)
	s.opts.Dir = dir
	defer s.Close()

	require.NoError(t, s.Write(encodeInt32(1)))
	require.NoError(t, s.EndWrite())
	require.Error(t, s.Write(encodeInt32(2)))
}

func TestEmptySorterBeginReadIsValid(t *testing.T) {
	s, dir := newTestSorter(t, 4)
	s.opts.Dir = dir
	defer s.Close()

	require.NoError(t, s.EndWrite())
	require.NoError(t, s.BeginRead())
	require.Equal(t, int32(-1), s.tree.winner())
}
