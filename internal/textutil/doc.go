// Package textutil provides fuzzy text comparison for short strings such as
// movie titles.
//
// Text is case folded and reduced to letters and digits separated by single
// spaces, then split into overlapping character trigrams with word-boundary
// padding. Two fingerprints are compared with cosine similarity, which
// tolerates transposed or dropped letters ("the dark knigth").
package textutil
