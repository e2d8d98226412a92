// Package internal holds small helpers shared by the goSRP root package that
// must not leak into the public API.
package internal
