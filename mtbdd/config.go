// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtbdd

// configs is used to store the values of different parameters of the
// dictionary.
type configs struct {
	cachesize int // initial number of entries in the operator caches
}

func makeconfigs() *configs {
	return &configs{cachesize: _DEFAULTCACHESIZE}
}

// Cachesize is a configuration option (function). Used as a
// parameter in NewDict it sets the initial number of entries in the
// operation caches owned by the dictionary. The default value is
// about 10 000, which works well even for large examples.
func Cachesize(size int) func(*configs) {
	return func(c *configs) {
		if size > 0 {
			c.cachesize = size
		}
	}
}
