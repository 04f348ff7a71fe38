package statsource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSource_CountryPopulations(t *testing.T) {
	src := NewStaticSource()
	assert.Equal(t, "static", src.Name())

	pops, err := src.CountryPopulations(context.Background())
	require.NoError(t, err)
	require.Len(t, pops, 28)

	byName := make(map[string]int64, len(pops))
	for _, p := range pops {
		byName[p.CountryName()] = p.Population()
	}
	assert.Equal(t, int64(1182105000), byName["India"])
	assert.Equal(t, int64(309349689), byName["United States of America"])
	assert.Equal(t, int64(101484), byName["Aruba (Netherlands)"])
	assert.Equal(t, int64(62026962), byName["United Kingdom"])
}

func TestStaticSource_ReturnsFreshCopy(t *testing.T) {
	src := NewStaticSource()
	ctx := context.Background()

	first, err := src.CountryPopulations(ctx)
	require.NoError(t, err)
	first[0] = first[1]

	second, err := src.CountryPopulations(ctx)
	require.NoError(t, err)
	assert.Equal(t, "India", second[0].CountryName())
}

func TestStaticSource_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pops, err := NewStaticSource().CountryPopulations(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, pops)
}
