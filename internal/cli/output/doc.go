// Package output renders CLI results as an aligned table, JSON or YAML.
//
// Table rendering reflects over structs: json tags name the columns and a
// `table:"wide"` tag hides a column unless wide mode is on.
package output
