// Package internal contains infrastructure shared by the backstack packages.
// Types and functions in this package are not part of the public API.
package internal
