// Package query turns a normalized list request into an ordered, filtered,
// paginated read against a record source.
//
// The Builder resolves the request's sort column to an accessor from the
// schema's closed field table, so no client supplied text is ever used as an
// ordering expression. Sources receive a Plan holding those accessors and the
// storage columns they map to.
//
// Evaluation order is fixed:
//
//  1. restrict to records whose searchable field contains the filter text
//     (case-sensitive, byte-wise substring match)
//  2. count the restricted set; this is the total reported to clients
//  3. order by the sort field, then by the schema's tie breaker ascending
//  4. skip pageIndex*pageSize records and take pageSize
//
// Three sources are provided: MemorySource over an in-process slice, BunSource
// over a bun database handle, and RepositorySource over a go-repository-bun
// repository.
package query
