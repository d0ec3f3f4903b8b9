// Package memaccess provides bounds-checked access to guest linear memory.
//
// Access happens in two phases. First the caller registers every region it
// intends to touch, receiving a ticket per region; registration never fails
// and never touches memory. Then Prepare validates all registered intervals
// at once (bounds and 32-bit overflow) and charges the per-byte cost through
// the metering hook, before a single byte moves. Only the returned Io can
// consume tickets.
//
// The split exists so a syscall can declare all of its memory traffic up
// front and fail cleanly before any host state changes, instead of hitting a
// bounds failure halfway through a mutation. Tickets are consumed exactly
// once; discarding an unconsumed ticket is always safe.
package memaccess
