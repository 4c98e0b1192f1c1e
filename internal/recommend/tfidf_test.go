package recommend

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corpus() []Document {
	return []Document{
		{ID: 1, Text: "sea view balcony king bed"},
		{ID: 2, Text: "city view twin beds"},
		{ID: 3, Text: "garden suite with jacuzzi"},
		{ID: 4, Text: "family room with bunk beds"},
		{ID: 5, Text: "penthouse sea view terrace"},
	}
}

func TestRebuildComputesIDF(t *testing.T) {
	ix := NewIndex()
	assert.Equal(t, uint64(0), ix.Version())

	v := ix.Rebuild(corpus())
	assert.Equal(t, uint64(1), v)
	assert.Equal(t, 5, ix.Len())

	// "jacuzzi" occurs in 1 of 5 documents: ln(5/2)
	vec := ix.Vectorize("jacuzzi")
	assert.InDelta(t, math.Log(5.0/2.0), vec["jacuzzi"], 1e-9)

	// "view" occurs in 3 of 5: ln(5/4), tf = 1/2
	vec = ix.Vectorize("view view jacuzzi jacuzzi")
	assert.InDelta(t, 0.5*math.Log(5.0/4.0), vec["view"], 1e-9)
}

func TestVectorizeUnknownTermsWeighZero(t *testing.T) {
	ix := NewIndex()
	ix.Rebuild(corpus())

	vec := ix.Vectorize("spaceship")
	assert.Equal(t, 0.0, vec["spaceship"])
	assert.Empty(t, ix.Vectorize("   "))
}

func TestCosine(t *testing.T) {
	a := Vector{"sea": 0.3, "view": 0.1}
	assert.InDelta(t, 1.0, Cosine(a, a), 1e-9)
	assert.Equal(t, 0.0, Cosine(a, Vector{}))
	assert.Equal(t, 0.0, Cosine(Vector{"sea": 0}, a))
	assert.Equal(t, 0.0, Cosine(a, Vector{"garden": 0.4}))
}

func TestRankFiltersAndOrders(t *testing.T) {
	ix := NewIndex()
	ix.Rebuild(corpus())

	matches := ix.RankCorpus("sea view", 10)
	require.Len(t, matches, 3)
	ids := []int64{matches[0].ID, matches[1].ID, matches[2].ID}
	assert.ElementsMatch(t, []int64{1, 2, 5}, ids)
	assert.NotEqual(t, int64(2), matches[0].ID, "city view shares only one term")
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
}

func TestRankPrefilterIsCaseInsensitive(t *testing.T) {
	ix := NewIndex()
	ix.Rebuild(corpus())

	matches := ix.RankCorpus("JACUZZI", 10)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(3), matches[0].ID)
	// vectorization is case-sensitive, so the upper-case query scores zero
	assert.Equal(t, 0.0, matches[0].Score)
}

func TestRankTruncatesAndKeepsTieOrder(t *testing.T) {
	ix := NewIndex()
	docs := []Document{
		{ID: 10, Text: "quiet room"},
		{ID: 11, Text: "quiet room"},
		{ID: 12, Text: "quiet room"},
		{ID: 13, Text: "noisy hall"},
	}
	ix.Rebuild(docs)

	matches := ix.Rank("quiet", docs, 2)
	require.Len(t, matches, 2)
	assert.Equal(t, int64(10), matches[0].ID)
	assert.Equal(t, int64(11), matches[1].ID)
}

func TestRankEmptyResults(t *testing.T) {
	ix := NewIndex()
	ix.Rebuild(corpus())

	assert.Empty(t, ix.RankCorpus("helicopter", 10))
	assert.Empty(t, ix.Rank("sea", nil, 10))
	assert.Empty(t, ix.RankCorpus("", 10))
	assert.NotNil(t, ix.RankCorpus("helicopter", 10))

	empty := NewIndex()
	assert.Empty(t, empty.RankCorpus("sea", 10))
}

func TestRebuildBumpsVersionAndReplacesCorpus(t *testing.T) {
	ix := NewIndex()
	ix.Rebuild(corpus())
	v := ix.Rebuild([]Document{{ID: 99, Text: "treehouse"}})

	assert.Equal(t, uint64(2), v)
	assert.Equal(t, 1, ix.Len())
	text, ok := ix.Text(99)
	assert.True(t, ok)
	assert.Equal(t, "treehouse", text)
	_, ok = ix.Text(1)
	assert.False(t, ok)
}

func TestDigestFollowsContentNotRebuildCount(t *testing.T) {
	ix := NewIndex()
	assert.Empty(t, ix.Digest())

	ix.Rebuild(corpus())
	first := ix.Digest()
	ix.Rebuild(corpus())
	assert.Equal(t, first, ix.Digest())

	other := NewIndex()
	other.Rebuild(corpus())
	assert.Equal(t, first, other.Digest())

	docs := corpus()
	docs[0].Text += " minibar"
	other.Rebuild(docs)
	assert.NotEqual(t, first, other.Digest())

	// id and text boundaries are part of the digest
	a, b := NewIndex(), NewIndex()
	a.Rebuild([]Document{{ID: 1, Text: "ab"}, {ID: 2, Text: "c"}})
	b.Rebuild([]Document{{ID: 1, Text: "a"}, {ID: 2, Text: "bc"}})
	assert.NotEqual(t, a.Digest(), b.Digest())
}

func TestConcurrentRankAndRebuild(t *testing.T) {
	ix := NewIndex()
	ix.Rebuild(corpus())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ix.RankCorpus("sea view", 5)
		}()
		go func() {
			defer wg.Done()
			ix.Rebuild(corpus())
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(9), ix.Version())
}

func TestRankOceanViewScenario(t *testing.T) {
	ix := NewIndex()

	// with two documents every term of the matching one has idf ln(2/2) = 0
	ix.Rebuild([]Document{
		{ID: 1, Text: "ocean view balcony"},
		{ID: 2, Text: "interior courtyard twin"},
	})
	matches := ix.RankCorpus("ocean view balcony", 10)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(1), matches[0].ID)
	assert.Equal(t, 0.0, matches[0].Score)

	ix.Rebuild([]Document{
		{ID: 1, Text: "ocean view balcony"},
		{ID: 2, Text: "interior courtyard twin"},
		{ID: 3, Text: "garden patio double"},
	})
	matches = ix.RankCorpus("ocean view balcony", 10)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(1), matches[0].ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
}
