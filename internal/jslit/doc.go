// Package jslit parses and prints the object literals embedded in generated
// JavaScript components.
//
// The grammar is JSON extended with the forms hand-written component code
// uses: bare identifier keys, single-quoted strings, line and block
// comments, trailing commas and the undefined keyword. Parsing never
// evaluates the text. Values print back in the layout JSON.stringify uses
// with a two-space indent, quoting keys only where a bare identifier is not
// allowed.
//
// Locate finds a literal by the marker text preceding it and returns the
// exact byte range to splice when the literal is rewritten.
package jslit
