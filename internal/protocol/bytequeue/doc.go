// Package bytequeue owns the value codec shared by both ends of a call.
//
// Ownership boundary:
// - semantic type enumeration and parsing
// - typed push/pop against an ordered byte buffer
// - size prefix and raw byte access
//
// The encoding is not self-describing. A reader must already know the
// semantic type of every value it pops.
package bytequeue
