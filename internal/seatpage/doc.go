// Package seatpage derives the per-seat dashboard pages from the seat 1
// template.
//
// Every page is a copy of the template with its seat-specific tokens
// rewritten by an ordered list of literal replacements (see Rules). The
// replacements run sequentially, so a later rule sees the output of the
// earlier ones; this matches how the pages have always been produced and
// keeps regenerated pages byte-identical.
//
// After rendering, each page is parsed with golang.org/x/net/html and any
// element id still naming seat 1 is reported as a warning. Watch re-renders
// the pages whenever the template is saved.
package seatpage
