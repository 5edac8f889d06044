// Package cmap provides a sharded map that is safe for concurrent use.
//
// Keys are spread over a power-of-two number of shards, each guarded by
// its own RWMutex, so unrelated keys rarely contend:
//
//	m := cmap.New[string, *bucket]()
//	b, _ := m.GetOrCreate(ip, newBucket)
//	m.DeleteFunc(func(_ string, b *bucket) bool { return b.idle() })
package cmap
