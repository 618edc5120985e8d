package container

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wcgbg/sortnetsearch/internal/network"
)

func buildLayered(n int, layers [][][2]int) *network.Network {
	net := network.New(n)
	for _, l := range layers {
		net.AddEmptyLayer()
		for _, c := range l {
			net.AddComparator(c[0], c[1])
		}
	}
	net.Recompute()
	return net
}

func TestBinaryRoundTripWithOutputs(t *testing.T) {
	nets := []*network.Network{
		buildLayered(4, [][][2]int{{{0, 2}, {1, 3}}, {{0, 1}, {2, 3}}, {{1, 2}}}),
		buildLayered(3, [][][2]int{{{0, 1}}, {{1, 2}}}),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, nets))

	got, err := ReadBinary(&buf, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range nets {
		require.Equal(t, nets[i].N, got[i].N)
		require.Equal(t, nets[i].Outputs(), got[i].Outputs())
		require.Equal(t, nets[i].String(), got[i].String())
	}
}

func TestBinaryRoundTripRecomputesMissingOutputs(t *testing.T) {
	net := buildLayered(4, [][][2]int{{{0, 2}, {1, 3}}})
	net.ClearOutputs()

	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, []*network.Network{net}))

	got, err := ReadBinary(&buf, 1)
	require.NoError(t, err)
	require.True(t, got[0].OutputsValid())

	want := buildLayered(4, [][][2]int{{{0, 2}, {1, 3}}})
	require.Equal(t, want.Outputs(), got[0].Outputs())
}

func TestBracketRoundTrip(t *testing.T) {
	n := 4
	nets := []*network.Network{
		buildLayered(n, [][][2]int{{{0, 2}, {1, 3}}, {{0, 1}, {2, 3}}, {{1, 2}}}),
		buildLayered(n, [][][2]int{{{0, 1}}}),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteBracket(&buf, nets))

	got, err := ReadBracket(&buf, n, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range nets {
		require.Equal(t, nets[i].Outputs(), got[i].Outputs())
	}
}

func TestBracketSkipsCommentsAndBlankLines(t *testing.T) {
	n := 3
	src := "# a comment\n\n[(0,1)]\n   \n[(1,2)]\n"
	got, err := ReadBracket(bytes.NewReader([]byte(src)), n, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestBracketRejectsCollision(t *testing.T) {
	n := 3
	src := "[(0,1),(1,2)]\n"
	_, err := ReadBracket(bytes.NewReader([]byte(src)), n, 1)
	require.Error(t, err)
}

func TestReadWriteFileDispatchesOnFormat(t *testing.T) {
	dir := t.TempDir()
	nets := []*network.Network{
		buildLayered(4, [][][2]int{{{0, 2}, {1, 3}}, {{0, 1}, {2, 3}}, {{1, 2}}}),
	}

	binPath := filepath.Join(dir, "nets.bin")
	require.NoError(t, WriteFile(binPath, FormatBinary, nets))
	got, err := ReadFile(binPath, FormatBinary, 4, 1)
	require.NoError(t, err)
	require.Equal(t, nets[0].Outputs(), got[0].Outputs())

	bracketPath := filepath.Join(dir, "nets.txt")
	require.NoError(t, WriteFile(bracketPath, FormatBracket, nets))
	got, err = ReadFile(bracketPath, FormatBracket, 4, 1)
	require.NoError(t, err)
	require.Equal(t, nets[0].Outputs(), got[0].Outputs())
}

func TestPermutationRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "perms.txt")
	perms := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}}

	require.NoError(t, WritePermutations(path, perms))
	got, err := ReadPermutations(path)
	require.NoError(t, err)
	require.Equal(t, perms, got)
}
