// Command run executes a guest wasm program against an in-memory host,
// printing the termination reason and everything the guest produced. It is
// a debugging harness, not a scheduler: message effects go to stdout instead
// of a queue.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/syscall-bridge/bridge"
	"github.com/wippyai/syscall-bridge/engine"
	"github.com/wippyai/syscall-bridge/gas"
	"github.com/wippyai/syscall-bridge/host"
)

func main() {
	var (
		wasmFile  = flag.String("wasm", "", "Path to guest wasm file")
		entry     = flag.String("entry", "handle", "Export to execute")
		payload   = flag.String("payload", "", "Incoming message payload")
		gasLimit  = flag.Uint64("gas", 10_000_000, "Gas limit")
		allowance = flag.Uint64("allowance", 10_000_000, "Execution allowance")
		value     = flag.Uint64("value", 0, "Value attached to the incoming message")
		balance   = flag.Uint64("balance", 0, "Program balance available for transfers")
		forbid    = flag.String("forbid", "", "Syscalls to forbid (comma-separated)")
		maxPages  = flag.Uint("max-pages", 512, "Page limit for alloc")
		verbose   = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -wasm <file.wasm> [-entry name] [-payload data] [-gas n]")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		bridge.SetLogger(logger)
		engine.SetLogger(logger)
	}

	if err := run(*wasmFile, *entry, *payload, *forbid, *gasLimit, *allowance, *value, *balance, uint32(*maxPages)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(wasmFile, entry, payload, forbid string, gasLimit, allowance, value, balance uint64, maxPages uint32) error {
	ctx := context.Background()

	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	eng, err := engine.NewEngine(ctx, nil)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	defer eng.Close(ctx)

	mod, err := eng.LoadModule(ctx, data)
	if err != nil {
		return fmt.Errorf("load module: %w", err)
	}

	ext := host.NewMockExt(gas.NewMeter(gasLimit, allowance), []byte(payload))
	ext.MsgValue.SetUint64(value)
	ext.Balance.SetUint64(balance)
	ext.MaxPages = maxPages

	settings := &engine.ExecSettings{}
	if forbid != "" {
		settings.Forbidden = strings.Split(forbid, ",")
	}

	res, err := mod.Execute(ctx, entry, ext, settings)
	if err != nil {
		return fmt.Errorf("execute: %w", err)
	}

	fmt.Printf("Program:     %s\n", wasmFile)
	fmt.Printf("Entry:       %s\n", entry)
	fmt.Printf("Termination: %s\n", res.Termination)
	fmt.Printf("Gas left:    %d\n", res.GasLeft)

	if len(ext.SentMessages) > 0 {
		fmt.Printf("\nSent messages:\n")
		for _, m := range ext.SentMessages {
			fmt.Printf("  %s -> %s value=%s delay=%d payload=%q\n",
				m.ID.Hash(), m.Destination.Hash(), m.Value.Dec(), m.Delay, m.Payload)
		}
	}
	if len(ext.SentReplies) > 0 {
		fmt.Printf("\nReplies:\n")
		for _, r := range ext.SentReplies {
			fmt.Printf("  %s value=%s payload=%q\n", r.ID.Hash(), r.Value.Dec(), r.Payload)
		}
	}
	if len(ext.CreatedPrograms) > 0 {
		fmt.Printf("\nCreated programs:\n")
		for _, p := range ext.CreatedPrograms {
			fmt.Printf("  %s code=%s salt=%x\n", p.ProgramID.Hash(), p.CodeID.Hash(), p.Salt)
		}
	}
	if len(ext.DebugMessages) > 0 {
		fmt.Printf("\nDebug output:\n")
		for _, msg := range ext.DebugMessages {
			fmt.Printf("  %s\n", msg)
		}
	}
	return nil
}
