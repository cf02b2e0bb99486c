// Package cache provides the read-through cache used by the listing pipeline
// and the key serializer that turns a validated request into a cache key.
//
// # Overview
//
//   - CacheService: GetOrFetch, Delete, DeleteByPrefix, CountByPrefix, Size and Close
//   - GetOrFetch[T]: typed wrapper around CacheService.GetOrFetch
//   - KeySerializer: builds canonical keys from a method name and arguments
//
// NewCacheService returns the sturdyc backed implementation. Entries live for
// Config.TTL (30 seconds by default). Concurrent misses for the same key run
// the fetch function once and share its result, and a fetch that returns an
// error leaves nothing behind, so the next caller retries.
//
// # Usage
//
//	svc, err := cache.NewCacheService(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer svc.Close()
//
//	key := cache.NewDefaultKeySerializer().SerializeKey("forms::List", req)
//	page, err := cache.GetOrFetch(ctx, svc, key, func(ctx context.Context) (Result, error) {
//		return build(ctx, req)
//	})
//
// # Keys
//
// The default serializer writes strings quoted, integers in base 10, and
// struct fields and map entries in sorted order, joined with KeySeparator.
// Two requests that differ in any exported field never share a key, and a
// filter text containing "::" or quotes cannot collide with another request.
//
// Function values serialize to their code pointer, which is only stable for
// the lifetime of the process.
package cache
