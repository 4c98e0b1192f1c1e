// Package recommend ranks text documents against a query with TF-IDF
// weighting and cosine similarity.
//
// An Index holds an immutable snapshot of the corpus and its idf table.
// Rebuild swaps in a new snapshot and bumps the version; readers that
// already hold the old snapshot finish against it.
package recommend

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"
	"strings"
	"sync"
)

// Vector is a sparse term -> weight mapping.
type Vector map[string]float64

// Document is one text-bearing item of the corpus.
type Document struct {
	ID   int64
	Text string
}

// Match is a ranked document with its similarity to the query.
type Match struct {
	Document
	Score float64
}

type snapshot struct {
	version uint64
	digest  string
	docs    []Document
	idf     map[string]float64
	texts   map[int64]string
	vectors map[int64]Vector
}

type Index struct {
	mu   sync.RWMutex
	snap *snapshot
}

func NewIndex() *Index {
	return &Index{snap: &snapshot{
		idf:     map[string]float64{},
		texts:   map[int64]string{},
		vectors: map[int64]Vector{},
	}}
}

// Rebuild replaces the corpus and returns the new version.
func (ix *Index) Rebuild(docs []Document) uint64 {
	corpus := make([]Document, len(docs))
	copy(corpus, docs)

	df := make(map[string]int)
	for _, d := range corpus {
		seen := make(map[string]struct{})
		for _, term := range tokenize(d.Text) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	total := float64(len(corpus))
	idf := make(map[string]float64, len(df))
	for term, n := range df {
		idf[term] = math.Log(total / float64(1+n))
	}

	next := &snapshot{
		docs:    corpus,
		idf:     idf,
		texts:   make(map[int64]string, len(corpus)),
		vectors: make(map[int64]Vector, len(corpus)),
		digest:  digest(corpus),
	}
	for _, d := range corpus {
		next.texts[d.ID] = d.Text
		next.vectors[d.ID] = next.vectorize(d.Text)
	}

	ix.mu.Lock()
	next.version = ix.snap.version + 1
	ix.snap = next
	ix.mu.Unlock()

	return next.version
}

func (ix *Index) current() *snapshot {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.snap
}

// Version is incremented by every Rebuild; zero means never built.
func (ix *Index) Version() uint64 {
	return ix.current().version
}

// Digest identifies the corpus content. Rebuilds from the same documents in
// the same order yield the same digest in every process; empty means never
// built.
func (ix *Index) Digest() string {
	return ix.current().digest
}

func digest(docs []Document) string {
	h := sha1.New()
	var buf [8]byte
	for _, d := range docs {
		binary.BigEndian.PutUint64(buf[:], uint64(d.ID))
		h.Write(buf[:])
		binary.BigEndian.PutUint64(buf[:], uint64(len(d.Text)))
		h.Write(buf[:])
		h.Write([]byte(d.Text))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Len returns the number of documents in the current corpus.
func (ix *Index) Len() int {
	return len(ix.current().docs)
}

// Text returns the indexed text of a document.
func (ix *Index) Text(id int64) (string, bool) {
	text, ok := ix.current().texts[id]
	return text, ok
}

// Vectorize weights text against the current idf table. Terms absent from
// the corpus get weight zero.
func (ix *Index) Vectorize(text string) Vector {
	return ix.current().vectorize(text)
}

// Rank scores candidates against query. Candidates whose text does not
// contain any query token (case-insensitive) are dropped. The result is
// sorted by descending score, stable on input order, and truncated to
// limit when limit > 0.
func (ix *Index) Rank(query string, candidates []Document, limit int) []Match {
	return ix.current().rank(query, candidates, limit)
}

// RankCorpus ranks the whole current corpus.
func (ix *Index) RankCorpus(query string, limit int) []Match {
	snap := ix.current()
	return snap.rank(query, snap.docs, limit)
}

func (s *snapshot) vectorize(text string) Vector {
	terms := tokenize(text)
	vec := make(Vector)
	if len(terms) == 0 {
		return vec
	}

	counts := make(map[string]int)
	for _, term := range terms {
		counts[term]++
	}
	total := float64(len(terms))
	for term, n := range counts {
		vec[term] = float64(n) / total * s.idf[term]
	}
	return vec
}

func (s *snapshot) rank(query string, candidates []Document, limit int) []Match {
	tokens := tokenize(strings.ToLower(query))
	if len(tokens) == 0 || len(candidates) == 0 {
		return []Match{}
	}

	queryVec := s.vectorize(query)
	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		if !containsAny(strings.ToLower(c.Text), tokens) {
			continue
		}
		vec, ok := s.vectors[c.ID]
		if !ok || s.texts[c.ID] != c.Text {
			vec = s.vectorize(c.Text)
		}
		matches = append(matches, Match{Document: c, Score: Cosine(queryVec, vec)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Cosine returns the cosine similarity of a and b, or 0 when either has
// zero magnitude.
func Cosine(a, b Vector) float64 {
	var dot, magA, magB float64
	for term, wa := range a {
		magA += wa * wa
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range b {
		magB += wb * wb
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

func tokenize(text string) []string {
	return strings.Fields(text)
}

func containsAny(text string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
