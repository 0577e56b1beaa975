// Package catalog holds the movie record model together with the query and
// mutation engines that operate on it.
//
// Every function here is pure: it takes the current record slice and returns a
// new slice or a derived value without touching persistence. The store package
// wraps the mutation functions in a single-writer transaction so a change is
// durable before it is acknowledged.
//
// Matching rules:
//   - Titles compare case-insensitively after Unicode case folding.
//   - Numeric threshold predicates exclude records that lack the field.
//   - Substring predicates (genre, director, actors, titleContains) fold both
//     sides before comparing.
//   - Sorting is stable and treats a missing numeric field as zero.
package catalog
