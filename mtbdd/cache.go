// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtbdd

// cacheData is a unit of information stored in the operation caches.
type cacheData struct {
	res int
	a   int
	b   int
	c   int
}

// cache is the base of all operation caches.
type cache struct {
	table []cacheData
}

func (bc *cache) cacheinit(size int) {
	size = primeGte(size)
	bc.table = make([]cacheData, size)
	bc.cachereset()
}

func (bc *cache) cachereset() {
	for k := range bc.table {
		bc.table[k].a = -1
	}
}

// applycache is the cache for Apply and Not results, owned by the
// dictionary.
type applycache struct {
	cache
	op Operator // Current operation during an apply
}

// quantcache is the cache for Exist results, owned by the
// dictionary. The id distinguishes quantifications over different
// variable sets.
type quantcache struct {
	cache
	id int
}

// ************************************************************

// ExtCache is an operation cache for the multi-terminal operations.
// Unlike the apply cache, it is owned by one operation (a product, a
// minimization, one translation) and discarded afterwards. Entries
// are distinguished by a caller-chosen key: semantics changes
// between passes over the same nodes are handled by bumping the key.
type ExtCache struct {
	cache
}

// NewExtCache returns a cache with at least size entries. The size
// is rounded up to a prime, like in the kernel caches; a size of
// zero picks the default.
func NewExtCache(size int) *ExtCache {
	if size <= 0 {
		size = _DEFAULTCACHESIZE
	}
	c := &ExtCache{}
	c.cacheinit(size)
	return c
}

// Reset invalidates all the entries.
func (c *ExtCache) Reset() {
	c.cachereset()
}

// Reserve grows the cache to at least size entries, invalidating it
// in passing. Shrinking is never done.
func (c *ExtCache) Reserve(size int) {
	if size <= len(c.table) {
		c.cachereset()
		return
	}
	c.cacheinit(size)
}

// Binary entries are stored as (left, right, key); unary entries as
// (n, -1-key, extra) so that the two layouts can never be confused:
// the b field of a binary entry is a node id, hence non-negative.

func (c *ExtCache) match2(left, right, key int) int {
	entry := c.table[_TRIPLE(left, right, key, len(c.table))]
	if entry.a == left && entry.b == right && entry.c == key {
		return entry.res
	}
	return -1
}

func (c *ExtCache) set2(left, right, key, res int) int {
	c.table[_TRIPLE(left, right, key, len(c.table))] = cacheData{
		a:   left,
		b:   right,
		c:   key,
		res: res,
	}
	return res
}

func (c *ExtCache) match1(n, key int) (int, int, bool) {
	entry := c.table[int(_PAIR(n, key, len(c.table)))]
	if entry.a == n && entry.b == -1-key {
		return entry.res, entry.c, true
	}
	return -1, 0, false
}

func (c *ExtCache) set1(n, key, res, extra int) int {
	c.table[int(_PAIR(n, key, len(c.table)))] = cacheData{
		a:   n,
		b:   -1 - key,
		c:   extra,
		res: res,
	}
	return res
}
