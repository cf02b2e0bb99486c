// Package repositorycache serves cached, validated list pages for a record
// type.
//
// # Overview
//
// CachedLister ties the pipeline together:
//
//  1. validate the raw query against the record schema (listing.Validate)
//  2. derive the cache key from the normalized request
//  3. on a miss, build the page against the record source (query.Builder)
//  4. wrap the records in an envelope.Page with a self link
//
// A request that fails validation returns a *listing.ValidationError before
// the cache or the source is touched.
//
// # Basic Usage
//
//	svc, _ := cache.NewCacheService(cache.DefaultConfig())
//	defer svc.Close()
//
//	lister := repositorycache.New(forms.Schema, query.NewBunSource[forms.Form](db),
//		svc, cache.NewDefaultKeySerializer(), repositorycache.WithLogger(logger))
//
//	page, err := lister.List(ctx, listing.QueryFromValues(r.URL.Query()), envelope.URLLink(r.URL))
//
// # Caching Behavior
//
// Keys have the form "<kind>::List::<request>", so equal requests share an
// entry and any difference in paging, sort or filter produces a new one.
// Entries expire after the cache TTL and are never invalidated by writes, so
// a page can be up to one TTL out of date. Concurrent misses for the same key
// are served by a single source query, and a failed or cancelled query
// leaves no entry behind.
//
// Purge drops every page of the lister's kind, for callers that need fresh
// data sooner than the TTL.
package repositorycache
