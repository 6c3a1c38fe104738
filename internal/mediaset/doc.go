// Package mediaset holds the data model shared by every stage of a batch
// run: validated assets, the parsed set name, grouping results and the
// purpose-organized media set.
//
// Values are rebuilt on every run. Asset paths are mutable so a stage that
// moves a file can relocate the asset in place and later stages see the new
// location.
package mediaset
