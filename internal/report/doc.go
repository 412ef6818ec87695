// Package report renders audit results for people and for tools.
//
// This package contains writers for different output formats:
//   - ConsoleWriter: verbosity-gated colour output, streamed page by page
//   - MarkdownWriter: whole-run markdown document for sharing
//   - JSONWriter: versioned JSON envelope for tool integration
//
// Design decision: report rendering is separate from the report data
// structures (which live in the model package) so new output formats can
// be added without touching the core types. Writers implement the Writer
// interface and can be composed with MultiWriter for multi-format output.
package report
