package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/arloliu/go-fpgahal/hal"
	"github.com/arloliu/go-fpgahal/handle"
)

type command struct {
	name  string
	usage string
	help  string
	run   func(c *console, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{"decode", "decode <raw>", "decode a raw handle (decimal, 0x hex or 0b binary)", (*console).cmdDecode},
		{"encode", "encode <type> <index> [error]", "build a raw handle, optionally with the error bit", (*console).cmdEncode},
		{"port", "port <module> <channel> | port <raw>", "build or decode a port handle", (*console).cmdPort},
		{"types", "types", "list handle types and their codes", (*console).cmdTypes},
		{"alloc", "alloc <type> <index> [label]", "allocate a resource through the dispatcher", (*console).cmdAlloc},
		{"free", "free <raw>", "free the resource addressed by a raw handle", (*console).cmdFree},
		{"list", "list [type]", "list allocated resources", (*console).cmdList},
		{"stats", "stats", "show dispatcher metrics", (*console).cmdStats},
		{"help", "help", "show this help", (*console).cmdHelp},
		{"quit", "quit", "exit", nil},
	}
}

var errUsage = errors.New("usage")

// resources is the simulated hardware state. It is only touched by hal commands.
type resources struct {
	size   uint16
	tables map[handle.HandleType]*handle.ResourceTable[string]
}

func (r *resources) table(t handle.HandleType) *handle.ResourceTable[string] {
	rt, ok := r.tables[t]
	if !ok {
		rt = handle.NewResourceTable[string](t, r.size)
		r.tables[t] = rt
	}

	return rt
}

type console struct {
	out    io.Writer
	sender *hal.CommandSender
	res    *resources
}

func newConsole(out io.Writer, sender *hal.CommandSender, size uint16) *console {
	return &console{
		out:    out,
		sender: sender,
		res:    &resources{size: size, tables: make(map[handle.HandleType]*handle.ResourceTable[string])},
	}
}

func (c *console) quit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "quit", "exit", "q":
		return true
	default:
		return false
	}
}

// execute runs one console line and reports whether it succeeded.
func (c *console) execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}

	name := strings.ToLower(parts[0])
	for _, cmd := range commands {
		if cmd.name != name || cmd.run == nil {
			continue
		}

		err := cmd.run(c, parts[1:])
		if errors.Is(err, errUsage) {
			fmt.Fprintf(c.out, "usage: %s\n", cmd.usage)
			return false
		}
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
			return false
		}

		return true
	}

	fmt.Fprintf(c.out, "unknown command: %s (type 'help' for commands)\n", name)

	return false
}

func (c *console) printHelp() {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %s\t%s\n", cmd.usage, cmd.help)
	}
	_ = w.Flush()
}

func (c *console) cmdHelp([]string) error {
	c.printHelp()
	return nil
}

func (c *console) cmdDecode(args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	raw, err := parseRaw(args[0])
	if err != nil {
		return err
	}

	h, err := handle.DecodeHandle(raw)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "raw:      %d (0x%08X)\n", raw, uint32(raw))
	fmt.Fprintf(c.out, "type:     %s (%d)\n", h.Type(), uint8(h.Type()))
	fmt.Fprintf(c.out, "error:    %t\n", h.ErrorBit())
	fmt.Fprintf(c.out, "index:    %d\n", h.Index())
	if h.IsType(handle.Port) {
		ph, _ := handle.DecodePortHandle(raw)
		fmt.Fprintf(c.out, "module:   %d\nchannel:  %d\n", ph.Module(), ph.Channel())
	}

	return nil
}

func (c *console) cmdEncode(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errUsage
	}

	t, err := parseType(args[0])
	if err != nil {
		return err
	}
	index, err := parseIndex(args[1])
	if err != nil {
		return err
	}

	h := handle.NewHandle(t, index)
	if len(args) == 3 {
		if !strings.EqualFold(args[2], "error") {
			return errUsage
		}
		h = h.WithErrorBit(true)
	}

	raw := h.Encode()
	fmt.Fprintf(c.out, "%s = %d (0x%08X)\n", h, raw, uint32(raw))

	return nil
}

func (c *console) cmdPort(args []string) error {
	switch len(args) {
	case 1:
		raw, err := parseRaw(args[0])
		if err != nil {
			return err
		}
		ph, err := handle.DecodePortHandle(raw)
		if err != nil {
			return err
		}
		if err := ph.CheckPort(); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s module=%d channel=%d error=%t\n", ph, ph.Module(), ph.Channel(), ph.ErrorBit())

		return nil

	case 2:
		module, err := parseByte(args[0])
		if err != nil {
			return err
		}
		channel, err := parseByte(args[1])
		if err != nil {
			return err
		}
		ph := handle.NewPortHandle(module, channel)
		raw := ph.Encode()
		fmt.Fprintf(c.out, "%s = %d (0x%08X)\n", ph, raw, uint32(raw))

		return nil

	default:
		return errUsage
	}
}

func (c *console) cmdTypes([]string) error {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tTYPE")
	for _, t := range handle.HandleTypes() {
		fmt.Fprintf(w, "%d\t%s\n", uint8(t), t)
	}

	return w.Flush()
}

func (c *console) cmdAlloc(args []string) error {
	if len(args) < 2 {
		return errUsage
	}

	t, err := parseType(args[0])
	if err != nil {
		return err
	}
	if t == handle.Undefined {
		return fmt.Errorf("%w: %s", handle.ErrInvalidHandleType, t)
	}
	index, err := parseIndex(args[1])
	if err != nil {
		return err
	}
	label := strings.Join(args[2:], " ")

	h, err := hal.Do(c.sender, hal.NamedFunc("Allocate", func(*hal.HardwareContext) (handle.Handle, error) {
		return c.res.table(t).Allocate(index, label)
	}))
	if err != nil {
		return err
	}

	raw := h.Encode()
	fmt.Fprintf(c.out, "allocated %s = %d (0x%08X)\n", h, raw, uint32(raw))

	return nil
}

func (c *console) cmdFree(args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	raw, err := parseRaw(args[0])
	if err != nil {
		return err
	}
	h, err := handle.DecodeHandle(raw)
	if err != nil {
		return err
	}

	label, err := hal.Do(c.sender, hal.NamedFunc("Free", func(*hal.HardwareContext) (string, error) {
		return c.res.table(h.Type()).Free(h)
	}))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "freed %s %q\n", h, label)

	return nil
}

type listEntry struct {
	h     handle.Handle
	label string
}

func (c *console) cmdList(args []string) error {
	if len(args) > 1 {
		return errUsage
	}

	filter := handle.Undefined
	if len(args) == 1 {
		t, err := parseType(args[0])
		if err != nil {
			return err
		}
		filter = t
	}

	entries, err := hal.Do(c.sender, hal.NamedFunc("List", func(*hal.HardwareContext) ([]listEntry, error) {
		var out []listEntry
		for _, t := range handle.HandleTypes() {
			rt, ok := c.res.tables[t]
			if !ok || (filter != handle.Undefined && t != filter) {
				continue
			}
			var typed []listEntry
			rt.Range(func(h handle.Handle, label string) bool {
				typed = append(typed, listEntry{h: h, label: label})
				return true
			})
			slices.SortFunc(typed, func(a, b listEntry) int { return cmp.Compare(a.h.Index(), b.h.Index()) })
			out = append(out, typed...)
		}

		return out, nil
	}))
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(c.out, "no resources allocated")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HANDLE\tRAW\tLABEL")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t0x%08X\t%s\n", e.h, uint32(e.h.Encode()), e.label)
	}

	return w.Flush()
}

func (c *console) cmdStats([]string) error {
	m := c.sender.Metrics()

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "dispatcher\t%s (%s)\n", c.sender.Name(), c.sender.DispatcherID())
	fmt.Fprintf(w, "alive\t%t\n", c.sender.Alive())
	fmt.Fprintf(w, "submitted\t%d\n", m.SubmittedCount.Load())
	fmt.Fprintf(w, "completed\t%d\n", m.CompletedCount.Load())
	fmt.Fprintf(w, "failed\t%d\n", m.FailedCount.Load())
	fmt.Fprintf(w, "abandoned\t%d\n", m.AbandonedCount.Load())
	fmt.Fprintf(w, "rejected\t%d\n", m.RejectedCount.Load())
	fmt.Fprintf(w, "queue depth\t%d\n", m.QueueDepth.Load())

	return w.Flush()
}

// parseType accepts a handle type name in any case, or its numeric code.
func parseType(s string) (handle.HandleType, error) {
	for _, t := range handle.HandleTypes() {
		if strings.EqualFold(t.String(), s) {
			return t, nil
		}
	}

	if code, err := strconv.ParseUint(s, 0, 8); err == nil {
		if t, ok := handle.HandleTypeFromCode(uint8(code)); ok {
			return t, nil
		}
	}

	return handle.Undefined, fmt.Errorf("%w: %q", handle.ErrInvalidHandleType, s)
}

// parseRaw accepts a signed or unsigned 32-bit value with an optional 0x, 0b or 0o prefix.
// Underscores between digits are allowed.
func parseRaw(s string) (int32, error) {
	if strings.HasPrefix(s, "-") {
		v, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid raw handle %q", s)
		}
		return int32(v), nil
	}

	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid raw handle %q", s)
	}

	return int32(uint32(v)), nil //nolint:gosec
}

func parseIndex(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q, should be in range of [0, %d]", s, math.MaxUint16)
	}

	return uint16(v), nil
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q, should be in range of [0, 255]", s)
	}

	return uint8(v), nil
}
