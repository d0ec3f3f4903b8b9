package syscallbridge

// Memory is the linear-memory capability an execution engine must provide.
// Offsets and sizes are raw guest values with no validity guarantee; callers
// are expected to go through the memaccess package, which bounds-checks every
// access before a byte is touched.
type Memory interface {
	// Size returns the current size of the linear memory in bytes.
	Size() uint32

	// Grow extends the linear memory by the given number of 64KiB pages.
	Grow(pages uint32) error

	// Read copies len(buf) bytes starting at offset into buf.
	Read(offset uint32, buf []byte) error

	// Write copies data into the linear memory starting at offset.
	Write(offset uint32, data []byte) error
}

// PageSize is the WASM linear memory page size in bytes.
const PageSize = 65536
