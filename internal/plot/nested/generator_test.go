package nested

import (
	"testing"

	"container-labs/internal/experiments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Empty(t *testing.T) {
	assert.Nil(t, Build(experiments.Groups{}))
}

func TestBuild_AllMethodsKeepTheirSlot(t *testing.T) {
	groups := experiments.Groups{
		{Runtime: "bare", Label: "startup_ms"}:   {10, 20},
		{Runtime: "docker", Label: "startup_ms"}: {300},
		{Runtime: "bare", Label: "cpu_s"}:        {1.0},
		{Runtime: "dind", Label: "cpu_s"}:        {1.25},
	}

	fig := Build(groups)
	require.NotNil(t, fig)
	assert.Equal(t, "exp4_nested", fig.Name)
	assert.Equal(t, "Exp 4: Nested Container Performance", fig.Title)
	require.Len(t, fig.Panels, 2)

	startup := fig.Panels[0]
	require.Len(t, startup.Bars, 5)
	require.Len(t, startup.Ticks, 5)
	assert.Equal(t, "Bare\nMetal", startup.Ticks[0].Label)
	assert.Equal(t, "Docker-in-Docker", startup.Ticks[2].Label)

	bare := startup.Bars[0].Bars[0]
	assert.Equal(t, 15.0, bare.Value)
	assert.Equal(t, 5.0, bare.ErrLow)
	assert.Equal(t, "15 ms", bare.Text)
	assert.InDelta(t, 15+300*0.03, bare.TextY, 1e-9)

	absent := startup.Bars[4].Bars[0]
	assert.Equal(t, 4.0, absent.X)
	assert.Equal(t, 0.0, absent.Value)
	assert.Empty(t, absent.Text)

	cpu := fig.Panels[1]
	assert.Equal(t, "1.000s", cpu.Bars[0].Bars[0].Text)
	assert.Equal(t, "1.250s\n(+25%)", cpu.Bars[2].Bars[0].Text)
	assert.Empty(t, cpu.Bars[1].Bars[0].Text)
}

func TestBuild_CPUWithoutBaseline(t *testing.T) {
	groups := experiments.Groups{
		{Runtime: "podman", Label: "cpu_s"}: {2.5},
	}
	fig := Build(groups)
	require.NotNil(t, fig)
	assert.Equal(t, "2.500s", fig.Panels[1].Bars[3].Bars[0].Text)
}
