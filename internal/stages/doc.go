// Package stages defines the fixed workflow stages and the table that maps a
// stage plus selector to the ordered scripts it runs.
//
// The built-in table covers the supported acquisition, DataShare, parsing and
// analysis scripts. A YAML table file can add or replace rows without code
// changes; it is validated against an embedded JSON schema before merging.
// Resolution is pure: it never touches the filesystem or logs.
package stages
