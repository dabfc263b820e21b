// Package fence locates fenced blocks in line-oriented text.
//
// ParseNestedBlocks is a pure scanner that returns every block span in a
// text, nested blocks included. Context resolves the innermost block around a
// cursor in a host document and can rewrite that block's inner lines.
//
// A fence is a run of three or more identical fence characters (backtick or
// tilde) at the start of a line, optionally indented. A block closes on a bare
// fence of the same character that is at least as long as the opening run.
// Blocks that never close extend to the last line of the text.
package fence
