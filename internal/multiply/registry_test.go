package multiply

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func TestFactoryList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"naive", "strassen"}, NewDefaultFactory().List())
}

func TestFactoryGetCachesInstances(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	first, err := f.Get("strassen")
	require.NoError(t, err)
	second, err := f.Get("strassen")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, "Strassen", first.Name())
}

func TestFactoryGetUnknown(t *testing.T) {
	t.Parallel()
	_, err := NewDefaultFactory().Get("winograd")
	assert.EqualError(t, err, "unknown algorithm: winograd")
}

func TestFactoryRegisterReplaces(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	before, err := f.Get("naive")
	require.NoError(t, err)

	f.Register("naive", func() coreMultiplier { return probe{} })
	after, err := f.Get("naive")
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Equal(t, "probe", after.Name())
}

func TestFactorySelect(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()

	all, err := f.Select("all")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Naive", all[0].Name())
	assert.Equal(t, "Strassen", all[1].Name())

	one, err := f.Select("naive")
	require.NoError(t, err)
	require.Len(t, one, 1)

	_, err = f.Select("bogus")
	assert.Error(t, err)
}
