package index

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkwordle/treeconv/crypto"
)

func wordHash(t *testing.T, word string) string {
	t.Helper()
	v, err := crypto.EncodeWord(word)
	require.NoError(t, err)
	return v.Hex()
}

func TestBuild(t *testing.T) {
	leaves := []string{"0x68656c6c6f", "0x776f726c64"}

	idx, err := Build(leaves, 2)
	require.NoError(t, err)

	require.Equal(t, 2, idx.Len())
	require.Equal(t, []string{"hello", "world"}, idx.Words())

	i, ok := idx.Get("hello")
	require.True(t, ok)
	require.Equal(t, 0, i)

	i, ok = idx.Get("world")
	require.True(t, ok)
	require.Equal(t, 1, i)
}

func TestBuild_OnlyFirstTotalLeaves(t *testing.T) {
	leaves := []string{wordHash(t, "crane"), wordHash(t, "slate"), "0x00"}

	idx, err := Build(leaves, 2)
	require.NoError(t, err)
	require.Equal(t, 2, idx.Len())

	_, ok := idx.Get("\x00\x00\x00\x00\x00")
	require.False(t, ok)
}

func TestBuild_LastWriteWins(t *testing.T) {
	leaves := []string{
		wordHash(t, "crane"),
		wordHash(t, "slate"),
		// Same low bytes as leaf 0, different high bytes.
		"0xff" + wordHash(t, "crane")[2:],
	}

	idx, stats, err := BuildWithStats(leaves, 3)
	require.NoError(t, err)

	require.Equal(t, 2, idx.Len())
	require.Equal(t, 1, stats.Collisions)
	require.Equal(t, 3, stats.Leaves)

	i, ok := idx.Get("crane")
	require.True(t, ok)
	require.Equal(t, 2, i)

	// The overwritten word keeps its original position in the key order.
	require.Equal(t, []string{"crane", "slate"}, idx.Words())
}

func TestBuild_SizeAndRange(t *testing.T) {
	words := []string{"about", "above", "abuse", "actor", "acute", "about", "admit"}
	leaves := make([]string, len(words))
	for i, w := range words {
		leaves[i] = wordHash(t, w)
	}

	idx, err := Build(leaves, len(leaves))
	require.NoError(t, err)
	require.LessOrEqual(t, idx.Len(), len(leaves))
	require.Equal(t, 6, idx.Len())

	for _, w := range idx.Words() {
		i, ok := idx.Get(w)
		require.True(t, ok)
		require.GreaterOrEqual(t, i, 0)
		require.Less(t, i, len(leaves))
	}
}

func TestBuild_TotalLeavesExceedsLeaves(t *testing.T) {
	_, err := Build([]string{"0x68656c6c6f"}, 2)
	require.ErrorIs(t, err, ErrLeafOutOfRange)

	_, err = Build(nil, -1)
	require.ErrorIs(t, err, ErrLeafOutOfRange)
}

func TestBuild_InvalidHex(t *testing.T) {
	_, err := Build([]string{"0x68656c6c6f", "0xnothex"}, 2)
	require.Error(t, err)
	require.ErrorIs(t, err, crypto.ErrInvalidHash)
	require.Contains(t, err.Error(), "leaf 1")
}

func TestBuild_Empty(t *testing.T) {
	idx, err := Build(nil, 0)
	require.NoError(t, err)
	require.Equal(t, 0, idx.Len())
}
