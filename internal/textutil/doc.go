// Package textutil provides small string helpers shared across packages:
// filesystem-safe path segments, Unicode normalization of filenames and
// container tags, and a generic conditional.
//
// Exporters on macOS write decomposed (NFD) filenames while container tags
// are usually composed (NFC). Everything that compares a filename against a
// tag goes through NFC first.
package textutil
