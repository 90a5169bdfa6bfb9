// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

// Hash functions used throughout the engine: the unique table hashes a
// triplet (level, low, high); the operation caches hash two or three node
// ids together with an operator tag.

// pair is a bijective mapping from a pair of non-negative integers to a
// single integer, using Cantor's pairing function, then folded into
// [0..size) with a modulo.
func pair(a, b int64, size int) int {
	ua := uint64(a)
	ub := uint64(b)
	return int((((ua + ub) * (ua + ub + 1)) / 2 + ua) % uint64(size))
}

// triple folds three values into one index in [0..size).
func triple(a, b, c int64, size int) int {
	return pair(c, int64(pair(a, b, size)), size)
}

// nodeHash is the hash used to look up and insert entries in the unique
// table: the triplet (level, low, high).
func nodeHash(level int32, low, high Node, size int) int {
	return triple(int64(level), int64(low), int64(high), size)
}
