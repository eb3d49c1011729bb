// handlectl is an interactive console for the handle protocol.
//
// It decodes and encodes raw handles and drives a hal dispatcher that owns a simulated set of
// resource tables, so allocations from the console go through the same single worker a real
// HAL would use.
//
// Usage:
//
//	handlectl [flags]
//	handlectl -e "decode 0x09000501"
//
// Flags:
//
//	-config string   YAML dispatcher configuration file
//	-e string        execute one command and exit
//	-size int        indices per resource table (default 256)
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/arloliu/go-fpgahal/config"
	"github.com/arloliu/go-fpgahal/hal"
	"github.com/arloliu/go-fpgahal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfgPath := flag.String("config", "", "YAML dispatcher configuration file")
	exec := flag.String("e", "", "execute one command and exit")
	size := flag.Int("size", 256, "indices per resource table")
	flag.Parse()

	if *size <= 0 || *size > 0xFFFF {
		fmt.Fprintln(os.Stderr, "size must be in range [1, 65535]")
		return 2
	}

	cfg := config.Default()
	cfg.Log.Level = logger.WarnLevel.String()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		cfg = *loaded
	}

	opts, closer, err := cfg.HALOptions()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sender, err := hal.Spawn(ctx, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start dispatcher:", err)
		return 1
	}
	defer func() {
		_ = sender.Close()
		<-sender.Done()
	}()

	if *exec != "" {
		c := newConsole(os.Stdout, sender, uint16(*size))
		if !c.execute(*exec) {
			return 1
		}
		return 0
	}

	return interactive(ctx, sender, uint16(*size))
}

func interactive(ctx context.Context, sender *hal.CommandSender, size uint16) int {
	rl, err := newReadline()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer rl.Close()

	c := newConsole(rl.Stdout(), sender, size)
	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return 0
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if isInterrupt(err) {
				continue
			}
			if err != io.EOF {
				fmt.Fprintln(rl.Stderr(), err)
			}

			return 0
		}

		if c.quit(line) {
			return 0
		}
		c.execute(line)
	}
}
