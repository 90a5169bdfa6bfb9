// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

// Operation caches: fixed-capacity, direct-mapped memoization tables. A
// collision silently overwrites the existing entry; there is no chaining and
// no recency bookkeeping (this is why hashicorp/golang-lru, which tracks
// recency and evicts the coldest entry, is not a fit here — see the
// DOMAIN STACK discussion in SPEC_FULL.md). The design mirrors the teacher's
// applycache/itecache/quantcache/appexcache/replacecache family in cache.go,
// generalized to the five cache kinds this engine's config exposes.

type cacheStat struct {
	hits   int64
	misses int64
}

func (s *cacheStat) hit()  { s.hits++ }
func (s *cacheStat) miss() { s.misses++ }

func (s cacheStat) ratio() float64 {
	total := s.hits + s.misses
	if total == 0 {
		return 0
	}
	return float64(s.hits) / float64(total)
}

// unaryEntry backs the negation cache: keyed on a single node.
type unaryEntry struct {
	valid bool
	a     Node
	res   Node
}

type unaryCache struct {
	table []unaryEntry
	stat  cacheStat
}

func newUnaryCache(size int) *unaryCache {
	return &unaryCache{table: make([]unaryEntry, primeGte(size))}
}

func (c *unaryCache) get(a Node) (Node, bool) {
	e := &c.table[int(a)%len(c.table)]
	if e.valid && e.a == a {
		c.stat.hit()
		return e.res, true
	}
	c.stat.miss()
	return 0, false
}

func (c *unaryCache) put(a, res Node) {
	c.table[int(a)%len(c.table)] = unaryEntry{valid: true, a: a, res: res}
}

func (c *unaryCache) reset() {
	for k := range c.table {
		c.table[k].valid = false
	}
}

// binaryEntry backs the binary-apply cache: keyed on (a, b, op).
type binaryEntry struct {
	valid  bool
	a, b   Node
	op     Operator
	res    Node
}

type binaryCache struct {
	table []binaryEntry
	stat  cacheStat
}

func newBinaryCache(size int) *binaryCache {
	return &binaryCache{table: make([]binaryEntry, primeGte(size))}
}

func (c *binaryCache) get(a, b Node, op Operator) (Node, bool) {
	idx := triple(int64(a), int64(b), int64(op), len(c.table))
	e := &c.table[idx]
	if e.valid && e.a == a && e.b == b && e.op == op {
		c.stat.hit()
		return e.res, true
	}
	c.stat.miss()
	return 0, false
}

func (c *binaryCache) put(a, b Node, op Operator, res Node) {
	idx := triple(int64(a), int64(b), int64(op), len(c.table))
	c.table[idx] = binaryEntry{valid: true, a: a, b: b, op: op, res: res}
}

func (c *binaryCache) reset() {
	for k := range c.table {
		c.table[k].valid = false
	}
}

// ternaryEntry backs the ite cache: keyed on (f, g, h).
type ternaryEntry struct {
	valid   bool
	f, g, h Node
	res     Node
}

type ternaryCache struct {
	table []ternaryEntry
	stat  cacheStat
}

func newTernaryCache(size int) *ternaryCache {
	return &ternaryCache{table: make([]ternaryEntry, primeGte(size))}
}

func (c *ternaryCache) get(f, g, h Node) (Node, bool) {
	idx := triple(int64(f), int64(g), int64(h), len(c.table))
	e := &c.table[idx]
	if e.valid && e.f == f && e.g == g && e.h == h {
		c.stat.hit()
		return e.res, true
	}
	c.stat.miss()
	return 0, false
}

func (c *ternaryCache) put(f, g, h, res Node) {
	idx := triple(int64(f), int64(g), int64(h), len(c.table))
	c.table[idx] = ternaryEntry{valid: true, f: f, g: g, h: h, res: res}
}

func (c *ternaryCache) reset() {
	for k := range c.table {
		c.table[k].valid = false
	}
}

// generationTag distinguishes the families of operation sharing the
// generation-tagged cache below: compose, restrict, exists/forall
// quantification, and variable renaming all key their memoized results on a
// node together with a caller-supplied "generation id" (the identity of the
// substitution map, variable set, or permutation in play), exactly as the
// teacher's replacecache/quantcache key on n plus an id. Reusing one cache
// for all four keeps a single pool to size from cacheComposeDivider, as
// documented in SPEC_FULL.md.
type generationTag int32

const (
	tagCompose generationTag = iota
	tagRestrict
	tagExists
	tagForall
	tagRename
)

type generationEntry struct {
	valid bool
	n     Node
	gen   int64
	tag   generationTag
	res   Node
}

type generationCache struct {
	table []generationEntry
	stat  cacheStat
}

func newGenerationCache(size int) *generationCache {
	return &generationCache{table: make([]generationEntry, primeGte(size))}
}

func (c *generationCache) get(n Node, gen int64, tag generationTag) (Node, bool) {
	idx := triple(int64(n), gen, int64(tag), len(c.table))
	e := &c.table[idx]
	if e.valid && e.n == n && e.gen == gen && e.tag == tag {
		c.stat.hit()
		return e.res, true
	}
	c.stat.miss()
	return 0, false
}

func (c *generationCache) put(n Node, gen int64, tag generationTag, res Node) {
	idx := triple(int64(n), gen, int64(tag), len(c.table))
	c.table[idx] = generationEntry{valid: true, n: n, gen: gen, tag: tag, res: res}
}

func (c *generationCache) reset() {
	for k := range c.table {
		c.table[k].valid = false
	}
}

// satEntry backs the satisfaction-counting memoization cache: keyed on a
// single node, valued with an arbitrary-precision count (see enumerate.go).
type satEntry struct {
	valid bool
	n     Node
	value *bigIntRef
}

type satCache struct {
	table []satEntry
	stat  cacheStat
}

func newSatCache(size int) *satCache {
	return &satCache{table: make([]satEntry, primeGte(size))}
}

func (c *satCache) get(n Node) (*bigIntRef, bool) {
	e := &c.table[int(n)%len(c.table)]
	if e.valid && e.n == n {
		c.stat.hit()
		return e.value, true
	}
	c.stat.miss()
	return nil, false
}

func (c *satCache) put(n Node, value *bigIntRef) {
	c.table[int(n)%len(c.table)] = satEntry{valid: true, n: n, value: value}
}

func (c *satCache) reset() {
	for k := range c.table {
		c.table[k].valid = false
	}
}

// impliesEntry backs the dedicated implies cache: keyed on (f, g), valued
// with a boolean rather than a Node, since implies is a test, not a
// construction.
type impliesEntry struct {
	valid bool
	f, g  Node
	res   bool
}

type impliesCache struct {
	table []impliesEntry
	stat  cacheStat
}

func newImpliesCache(size int) *impliesCache {
	return &impliesCache{table: make([]impliesEntry, primeGte(size))}
}

func (c *impliesCache) get(f, g Node) (bool, bool) {
	idx := pair(int64(f), int64(g), len(c.table))
	e := &c.table[idx]
	if e.valid && e.f == f && e.g == g {
		c.stat.hit()
		return e.res, true
	}
	c.stat.miss()
	return false, false
}

func (c *impliesCache) put(f, g Node, res bool) {
	idx := pair(int64(f), int64(g), len(c.table))
	c.table[idx] = impliesEntry{valid: true, f: f, g: g, res: res}
}

func (c *impliesCache) reset() {
	for k := range c.table {
		c.table[k].valid = false
	}
}

// allCaches groups every operation cache owned by an Engine.
type allCaches struct {
	negation     *unaryCache
	binary       *binaryCache
	ite          *ternaryCache
	generation   *generationCache
	satisfaction *satCache
	implies      *impliesCache

	nextGeneration int64
}

func (e *Engine) initCaches() {
	n := int(e.tableSize)
	e.caches = allCaches{
		negation:     newUnaryCache(n / e.cfg.cacheNegationDivider),
		binary:       newBinaryCache(n / e.cfg.cacheBinaryDivider),
		ite:          newTernaryCache(n / e.cfg.cacheTernaryDivider),
		generation:   newGenerationCache(n / e.cfg.cacheComposeDivider),
		satisfaction: newSatCache(n / e.cfg.cacheSatisfactionDivider),
		implies:      newImpliesCache(n / e.cfg.cacheBinaryDivider),
	}
}

func (e *Engine) resetCaches() {
	e.caches.negation.reset()
	e.caches.binary.reset()
	e.caches.ite.reset()
	e.caches.generation.reset()
	e.caches.satisfaction.reset()
	e.caches.implies.reset()
}

func (e *Engine) resizeCaches() {
	n := int(e.tableSize)
	e.caches.negation = newUnaryCache(n / e.cfg.cacheNegationDivider)
	e.caches.binary = newBinaryCache(n / e.cfg.cacheBinaryDivider)
	e.caches.ite = newTernaryCache(n / e.cfg.cacheTernaryDivider)
	e.caches.generation = newGenerationCache(n / e.cfg.cacheComposeDivider)
	e.caches.satisfaction = newSatCache(n / e.cfg.cacheSatisfactionDivider)
	e.caches.implies = newImpliesCache(n / e.cfg.cacheBinaryDivider)
}

// newGeneration allocates a fresh generation id for a new substitution map,
// variable set, or permutation, wrapping around (and wiping the generation
// cache, since stale ids could otherwise alias) in the rare case of overflow.
func (e *Engine) newGeneration() int64 {
	e.caches.nextGeneration++
	if e.caches.nextGeneration == 1<<62 {
		e.caches.generation.reset()
		e.caches.nextGeneration = 1
	}
	return e.caches.nextGeneration
}
