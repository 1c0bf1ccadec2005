// Package cache keeps recently synthesized audio in memory so repeated
// conversions of the same text skip the speech provider. Entries are evicted
// least-recently-used first and compressed with zstd when that saves space.
package cache
