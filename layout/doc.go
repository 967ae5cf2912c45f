// Package layout implements the layout-to-structure inference engine that
// turns a page of positioned text blocks into Markdown fragments.
//
// Two components cooperate:
//
//   - [Profiler] examines one page's spans and estimates the dominant body
//     font size, assigning heading levels (1-3) to sizes judged larger.
//   - [Assembler] walks the page's blocks in reading order, classifies each
//     as heading, list item, or paragraph text, and emits ordered Markdown
//     fragments while threading cross-block [State].
//
// Typical use:
//
//	profiler := layout.NewProfiler()
//	assembler := layout.NewAssembler()
//	var state layout.State
//	for _, page := range pages {
//	    profile := profiler.Profile(page.Blocks)
//	    if profile == nil {
//	        continue // page has no usable text
//	    }
//	    fragments = append(fragments, markdown.PageMarker(page.Number))
//	    fragments = append(fragments, assembler.Page(page.Blocks, profile, &state)...)
//	}
//
// Pages must be processed strictly sequentially: State carries the previous
// block's bottom edge across pages for paragraph-break detection, and
// fragment order follows block order.
package layout
