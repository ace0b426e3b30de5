package types

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWordIndex_KeepsInsertionOrder(t *testing.T) {
	idx := NewWordIndex(3)
	require.False(t, idx.Set("world", 1))
	require.False(t, idx.Set("hello", 0))
	require.True(t, idx.Set("world", 2))

	require.Equal(t, []string{"world", "hello"}, idx.Words())
	require.Equal(t, 2, idx.Len())

	data, err := json.Marshal(idx)
	require.NoError(t, err)
	require.Equal(t, `{"world":2,"hello":0}`, string(data))
}

func TestWordIndex_UnmarshalKeepsDocumentOrder(t *testing.T) {
	var idx WordIndex
	require.NoError(t, json.Unmarshal([]byte(`{"zebra":4,"apple":1,"mango":3}`), &idx))

	require.Equal(t, []string{"zebra", "apple", "mango"}, idx.Words())
	i, ok := idx.Get("mango")
	require.True(t, ok)
	require.Equal(t, 3, i)
}

func TestWordIndex_UnmarshalInvalid(t *testing.T) {
	var idx WordIndex
	require.Error(t, json.Unmarshal([]byte(`["hello"]`), &idx))
	require.Error(t, json.Unmarshal([]byte(`{"hello":"zero"}`), &idx))
}

func TestWordIndex_EscapedWords(t *testing.T) {
	idx := NewWordIndex(1)
	idx.Set("\x00\x00ab\"", 7)

	data, err := json.Marshal(idx)
	require.NoError(t, err)

	var decoded WordIndex
	require.NoError(t, json.Unmarshal(data, &decoded))
	i, ok := decoded.Get("\x00\x00ab\"")
	require.True(t, ok)
	require.Equal(t, 7, i)
}

func TestWordIndex_Nil(t *testing.T) {
	var idx *WordIndex
	_, ok := idx.Get("hello")
	require.False(t, ok)
	require.Equal(t, 0, idx.Len())
	require.Nil(t, idx.Words())

	var zero WordIndex
	zero.Set("hello", 0)
	require.Equal(t, 1, zero.Len())
}

func TestDenseLevels_Root(t *testing.T) {
	require.Equal(t, "", DenseLevels{}.Root())
	require.Equal(t, "", DenseLevels{{"0xa"}, {}}.Root())
	require.Equal(t, "0xr", DenseLevels{{"0xa", "0xb"}, {"0xr"}}.Root())
	require.Equal(t, 1, DenseLevels{{"0xa", "0xb"}, {"0xr"}}.Height())
}

func TestTreeMetadata_JSON(t *testing.T) {
	idx := NewWordIndex(2)
	idx.Set("hello", 0)
	idx.Set("world", 1)
	meta := TreeMetadata{
		Root:        "0xabc",
		TotalLeaves: 2,
		Height:      1,
		Zeros:       []string{"0x00", "0x00"},
		WordIndex:   idx,
	}

	data, err := json.Marshal(meta)
	require.NoError(t, err)
	require.Equal(t,
		`{"root":"0xabc","totalLeaves":2,"height":1,"zeros":["0x00","0x00"],"wordIndex":{"hello":0,"world":1}}`,
		string(data))
}

func TestError(t *testing.T) {
	err := NewError("tree.json", "failed to read input", os.ErrNotExist)
	require.Equal(t, "tree.json: failed to read input: file does not exist", err.Error())
	require.True(t, errors.Is(err, os.ErrNotExist))

	bare := NewError("tree.json", "empty", nil)
	require.Equal(t, "tree.json: empty", bare.Error())
}
