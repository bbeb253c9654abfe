package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/cstr"
	"github.com/wippyai/cstr/guestmem"
)

func main() {
	var (
		format      = flag.String("format", "", "fmt-style template to render")
		argsStr     = flag.String("args", "", "Arguments (comma-separated; numbers and bools are typed)")
		capacity    = flag.Int("cap", cstr.DefaultCapacity, "Stack capacity in bytes")
		repeat      = flag.Int("n", 1, "Render the template this many times")
		guest       = flag.Bool("guest", false, "Also place the result into a simulated guest memory")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		guestmem.SetLogger(l)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *format == "" {
		fmt.Fprintln(os.Stderr, "Usage: cstrfmt -format <template> [-args a,b,c] [-cap bytes] [-n count]")
		fmt.Fprintln(os.Stderr, "       cstrfmt -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*format, *argsStr, *capacity, *repeat, *guest); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(format, argsStr string, capacity, repeat int, guest bool) error {
	args := parseArgs(argsStr)

	var s cstr.CString
	var err error
	for i := 0; i < repeat; i++ {
		s, err = cstr.FormatCapacity(capacity, format, args...)
		if err != nil {
			return err
		}
	}

	storage := "stack"
	if s.Heap() {
		storage = "heap"
	}
	fmt.Printf("Rendered: %s\n", s.String())
	fmt.Printf("Storage:  %s\n", storage)
	fmt.Printf("Bytes:    %d (%d content + NUL)\n", len(s.Bytes()), s.Len())

	if guest {
		arena := newArena(1 << 16)
		w := guestmem.NewWriter(arena, arena)
		addr, err := w.Place(&s)
		if err != nil {
			return err
		}
		fmt.Printf("Guest:    addr=%d, %d bytes\n", addr, s.Len()+1)
	}
	return nil
}

// arena is a bump allocator over a byte slice, standing in for a WASM
// guest's linear memory.
type arena struct {
	data   []byte
	offset uint32
}

func newArena(size int) *arena {
	return &arena{data: make([]byte, size), offset: 8}
}

func (a *arena) Read(offset uint32, length uint32) ([]byte, error) {
	if int(offset)+int(length) > len(a.data) {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	return a.data[offset : offset+length], nil
}

func (a *arena) Write(offset uint32, data []byte) error {
	if int(offset)+len(data) > len(a.data) {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	copy(a.data[offset:], data)
	return nil
}

func (a *arena) Alloc(size, align uint32) (uint32, error) {
	a.offset = (a.offset + align - 1) &^ (align - 1)
	if int(a.offset)+int(size) > len(a.data) {
		return 0, fmt.Errorf("arena exhausted: need %d bytes", size)
	}
	addr := a.offset
	a.offset += size
	return addr, nil
}

func (a *arena) Free(ptr, size, align uint32) {
}

// parseArgs converts comma-separated tokens into typed values so numeric
// verbs like %d and %f work as expected.
func parseArgs(argsStr string) []any {
	if argsStr == "" {
		return nil
	}
	tokens := strings.Split(argsStr, ",")
	args := make([]any, len(tokens))
	for i, tok := range tokens {
		args[i] = convertArg(tok)
	}
	return args
}

func convertArg(value string) any {
	if v, err := strconv.ParseInt(value, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(value, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseBool(value); err == nil {
		return v
	}
	return value
}
