// Package rc provides the foundational reference-counted handle pair for
// refcellx: an owning Ref with an atomic strong count and a non-owning
// WeakRef whose Upgrade is safe to race against the final Release.
//
// This package uses ONLY the Go standard library. Release hooks stand in
// for destructors: they run exactly once, on the goroutine that drops the
// last strong handle, and the stored value is cleared afterwards so weak
// handles do not retain the referent.
package rc
