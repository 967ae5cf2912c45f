// Package model defines the data model shared by the decoder and the layout
// engine: positioned text spans, lines, and blocks in page coordinates.
//
// Coordinates use a top-left origin with Y increasing downward, so a block's
// Top edge is numerically smaller than its Bottom edge. The decoder converts
// from PDF user space (bottom-left origin) when it builds these values.
package model
