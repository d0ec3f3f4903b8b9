// Package codec defines the fixed-layout wire records exchanged through guest
// memory.
//
// Every record is little-endian with no padding; field order and widths are
// part of the wire contract and must round-trip byte-for-byte. Records are
// pure values: the package performs no I/O and operates only on buffers
// already materialized by the memaccess layer.
//
// Length-prefixed records double as fallible syscall results: a zero length
// field means success and the payload fields are valid, a nonzero length
// field carries the packed error code and the payload fields are zeroed.
package codec
