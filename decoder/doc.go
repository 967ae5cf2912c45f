// Package decoder turns PDF pages into the positioned span/line/block model
// consumed by the layout engine.
//
// [PDFDecoder] reads a document through pdfcpu, interprets each page's
// content stream into positioned text spans (tracking the text matrix, font
// size, and the current font's weight), groups spans into lines and lines
// into blocks by spatial proximity, and sorts the blocks into reading order:
// top to bottom, then left to right within a vertical band.
//
// The interpreter is deliberately approximate: it ignores the CTM and glyph
// metrics and estimates advance widths from character counts. The layout
// heuristics downstream only need relative positions and sizes, not exact
// glyph geometry.
package decoder
