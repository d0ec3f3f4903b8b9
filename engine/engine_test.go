package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/syscall-bridge/bridge"
	"github.com/wippyai/syscall-bridge/gas"
	"github.com/wippyai/syscall-bridge/host"
)

// The guest binaries below are assembled by hand: every section payload is
// under 128 bytes, so all LEB128 lengths are single bytes.

func wasmModule(sections ...[]byte) []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	for _, s := range sections {
		out = append(out, s...)
	}
	return out
}

func section(id byte, payload []byte) []byte {
	return append([]byte{id, byte(len(payload))}, payload...)
}

func importFunc(mod, name string, typeIdx byte) []byte {
	out := []byte{byte(len(mod))}
	out = append(out, mod...)
	out = append(out, byte(len(name)))
	out = append(out, name...)
	return append(out, 0x00, typeIdx)
}

func exportEntry(name string, kind, idx byte) []byte {
	out := []byte{byte(len(name))}
	out = append(out, name...)
	return append(out, kind, idx)
}

func vec(items ...[]byte) []byte {
	out := []byte{byte(len(items))}
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

// handle: () -> (), returns immediately.
func successModule() []byte {
	return wasmModule(
		section(1, []byte{0x01, 0x60, 0x00, 0x00}),
		section(3, []byte{0x01, 0x00}),
		section(5, []byte{0x01, 0x00, 0x01}),
		section(7, vec(
			exportEntry("memory", 0x02, 0),
			exportEntry("handle", 0x00, 0),
		)),
		section(10, []byte{0x01, 0x02, 0x00, 0x0B}),
	)
}

// handle: executes the unreachable instruction.
func trapModule() []byte {
	return wasmModule(
		section(1, []byte{0x01, 0x60, 0x00, 0x00}),
		section(3, []byte{0x01, 0x00}),
		section(5, []byte{0x01, 0x00, 0x01}),
		section(7, vec(
			exportEntry("memory", 0x02, 0),
			exportEntry("handle", 0x00, 0),
		)),
		section(10, []byte{0x01, 0x03, 0x00, 0x00, 0x0B}),
	)
}

// handle: calls env.leave.
func leaveModule() []byte {
	return wasmModule(
		section(1, []byte{0x01, 0x60, 0x00, 0x00}),
		section(2, vec(importFunc("env", "leave", 0))),
		section(3, []byte{0x01, 0x00}),
		section(5, []byte{0x01, 0x00, 0x01}),
		section(7, vec(
			exportEntry("memory", 0x02, 0),
			exportEntry("handle", 0x00, 1),
		)),
		section(10, []byte{0x01, 0x04, 0x00, 0x10, 0x00, 0x0B}),
	)
}

// handle: calls env.block_height(0), writing the height to address 0.
func blockHeightModule() []byte {
	return wasmModule(
		section(1, []byte{0x02,
			0x60, 0x00, 0x00, // () -> ()
			0x60, 0x01, 0x7F, 0x00, // (i32) -> ()
		}),
		section(2, vec(importFunc("env", "block_height", 1))),
		section(3, []byte{0x01, 0x00}),
		section(5, []byte{0x01, 0x00, 0x01}),
		section(7, vec(
			exportEntry("memory", 0x02, 0),
			exportEntry("handle", 0x00, 1),
		)),
		section(10, []byte{0x01, 0x06, 0x00, 0x41, 0x00, 0x10, 0x00, 0x0B}),
	)
}

// handle: calls env.alloc(2) and drops the result.
func allocModule() []byte {
	return wasmModule(
		section(1, []byte{0x02,
			0x60, 0x00, 0x00, // () -> ()
			0x60, 0x01, 0x7F, 0x01, 0x7F, // (i32) -> (i32)
		}),
		section(2, vec(importFunc("env", "alloc", 1))),
		section(3, []byte{0x01, 0x00}),
		section(5, []byte{0x01, 0x00, 0x01}),
		section(7, vec(
			exportEntry("memory", 0x02, 0),
			exportEntry("handle", 0x00, 1),
		)),
		section(10, []byte{0x01, 0x07, 0x00, 0x41, 0x02, 0x10, 0x00, 0x1A, 0x0B}),
	)
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	ctx := context.Background()
	e, err := NewEngine(ctx, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close(ctx) })
	return e
}

func execute(t *testing.T, e *Engine, wasm []byte, ext host.Externalities, settings *ExecSettings) *Result {
	t.Helper()
	ctx := context.Background()
	mod, err := e.LoadModule(ctx, wasm)
	require.NoError(t, err)
	res, err := mod.Execute(ctx, "handle", ext, settings)
	require.NoError(t, err)
	return res
}

func TestExecuteSuccess(t *testing.T) {
	e := newTestEngine(t)
	ext := host.NewMockExt(gas.NewMeter(1_000_000, 1_000_000), nil)

	res := execute(t, e, successModule(), ext, nil)
	require.Equal(t, bridge.TerminationSuccess, res.Termination.Kind())
	require.Equal(t, uint64(1_000_000), res.GasLeft)
}

func TestExecuteGuestTrap(t *testing.T) {
	e := newTestEngine(t)
	ext := host.NewMockExt(gas.NewMeter(1_000_000, 1_000_000), nil)

	res := execute(t, e, trapModule(), ext, nil)
	require.Equal(t, bridge.TerminationTrap, res.Termination.Kind())
	require.Error(t, res.Termination.Trap())
}

func TestExecuteLeave(t *testing.T) {
	e := newTestEngine(t)
	ext := host.NewMockExt(gas.NewMeter(1_000_000, 1_000_000), nil)

	res := execute(t, e, leaveModule(), ext, nil)
	require.Equal(t, bridge.TerminationLeave, res.Termination.Kind())
}

func TestExecuteChargesGas(t *testing.T) {
	e := newTestEngine(t)
	ext := host.NewMockExt(gas.NewMeter(1_000_000, 1_000_000), nil)
	ext.BlockHeightValue = 7

	res := execute(t, e, blockHeightModule(), ext, nil)
	require.Equal(t, bridge.TerminationSuccess, res.Termination.Kind())
	require.Less(t, res.GasLeft, uint64(1_000_000))
	require.Equal(t, ext.Meter.GasLeft(), res.GasLeft)
}

func TestExecuteOutOfGas(t *testing.T) {
	e := newTestEngine(t)
	ext := host.NewMockExt(gas.NewMeter(10, 1_000_000), nil)

	res := execute(t, e, blockHeightModule(), ext, nil)
	require.Equal(t, bridge.TerminationOutOfGas, res.Termination.Kind())
}

func TestExecuteForbiddenEntry(t *testing.T) {
	e := newTestEngine(t)
	ext := host.NewMockExt(gas.NewMeter(1_000_000, 1_000_000), nil)

	res := execute(t, e, leaveModule(), ext, &ExecSettings{Forbidden: []string{"leave"}})
	require.Equal(t, bridge.TerminationTrap, res.Termination.Kind())
}

func TestExecuteAllocGrowsGuestMemory(t *testing.T) {
	e := newTestEngine(t)
	ext := host.NewMockExt(gas.NewMeter(1_000_000, 1_000_000), nil)

	res := execute(t, e, allocModule(), ext, nil)
	require.Equal(t, bridge.TerminationSuccess, res.Termination.Kind())
	require.Equal(t, uint32(2), ext.AllocatedPages)
}

func TestExecuteMissingExport(t *testing.T) {
	e := newTestEngine(t)
	ext := host.NewMockExt(gas.NewMeter(1_000_000, 1_000_000), nil)

	ctx := context.Background()
	mod, err := e.LoadModule(ctx, successModule())
	require.NoError(t, err)
	_, err = mod.Execute(ctx, "no_such_export", ext, nil)
	require.Error(t, err)
}

func TestLoadModuleRejectsGarbage(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.LoadModule(context.Background(), []byte("not wasm"))
	require.Error(t, err)
}
