// Package validation implements the ordered, fail-fast field validation
// pipeline that gates every record mutation.
//
// A Pipeline is assembled by a Builder from named steps with explicit
// parameters and is immutable once built. Two built-in profiles, "default"
// and "custom", are provided by DefaultLimits and CustomLimits; each
// pipeline carries its own profile name so several can coexist.
package validation
