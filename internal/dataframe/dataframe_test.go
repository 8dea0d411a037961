package dataframe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	df, err := Load(t.TempDir(), "exp1_startup.csv")
	require.NoError(t, err)
	assert.True(t, df.Empty())
	assert.Equal(t, "exp1_startup.csv", df.Name)
}

func TestLoad_PreservesRowOrder(t *testing.T) {
	dir := t.TempDir()
	content := "runtime,image,startup_ms\nbare,none,100\ndocker,alpine,350\nbare,none,200\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "exp1_startup.csv"), []byte(content), 0o644))

	df, err := Load(dir, "exp1_startup.csv")
	require.NoError(t, err)
	require.Equal(t, 3, df.Len())
	assert.Equal(t, []string{"runtime", "image", "startup_ms"}, df.Columns)
	assert.Equal(t, Record{"runtime": "bare", "image": "none", "startup_ms": "100"}, df.Rows[0])
	assert.Equal(t, "docker", df.Rows[1]["runtime"])
	assert.Equal(t, "200", df.Rows[2]["startup_ms"])
}

func TestParse_ShortRowOmitsTrailingFields(t *testing.T) {
	df, err := Parse("x.csv", strings.NewReader("runtime,image,startup_ms\nbare,none\n"))
	require.NoError(t, err)
	require.Equal(t, 1, df.Len())

	_, ok := df.Rows[0].Get("startup_ms")
	assert.False(t, ok)
	v, ok := df.Rows[0].Get("image")
	assert.True(t, ok)
	assert.Equal(t, "none", v)
}

func TestParse_KeepsRowsBeforeSyntaxError(t *testing.T) {
	df, err := Parse("x.csv", strings.NewReader("a,b\n1,2\n\"broken,3\n"))
	require.Error(t, err)
	require.Equal(t, 1, df.Len())
	assert.Equal(t, "2", df.Rows[0]["b"])
}

func TestParse_EmptyInput(t *testing.T) {
	df, err := Parse("x.csv", strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, df.Empty())
	assert.Nil(t, df.Columns)
}

func TestChecksum_IndependentOfFrameOrder(t *testing.T) {
	a, err := Parse("a.csv", strings.NewReader("k,v\nx,1\n"))
	require.NoError(t, err)
	b, err := Parse("b.csv", strings.NewReader("k,v\ny,2\n"))
	require.NoError(t, err)

	s1, err := Checksum(a, b)
	require.NoError(t, err)
	s2, err := Checksum(b, a)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
	assert.Len(t, s1, 6)

	b.Rows[0]["v"] = "3"
	s3, err := Checksum(a, b)
	require.NoError(t, err)
	assert.NotEqual(t, s1, s3)
}

func TestChecksum_NoData(t *testing.T) {
	s, err := Checksum(&DataFrame{Name: "empty.csv"})
	require.NoError(t, err)
	assert.Empty(t, s)
}
