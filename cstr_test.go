package cstr

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"unsafe"

	"github.com/wippyai/cstr/errors"
)

// goString reads a C string back through its raw pointer, the way an FFI
// consumer would.
func goString(p *byte) string {
	var out []byte
	for ptr := unsafe.Pointer(p); ; ptr = unsafe.Add(ptr, 1) {
		b := *(*byte)(ptr)
		if b == 0 {
			break
		}
		out = append(out, b)
	}
	return string(out)
}

func TestFormatStackPath(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		args     []any
		expected string
	}{
		{"plain", "hello", nil, "hello"},
		{"string_arg", "hi %s!", []any{"you"}, "hi you!"},
		{"int", "id=%d", []any{42}, "id=42"},
		{"float_precision", "Pi = %.2f", []any{3.14159}, "Pi = 3.14"},
		{"multi", "%s-%d-%t", []any{"x", 7, true}, "x-7-true"},
		{"empty", "", nil, ""},
		{"unicode", "héllo %s", []any{"wörld"}, "héllo wörld"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Format(tt.format, tt.args...)
			if err != nil {
				t.Fatalf("format: %v", err)
			}
			if s.Heap() {
				t.Error("expected stack-backed handle")
			}
			if got := s.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			if s.Len() != len(tt.expected) {
				t.Errorf("Len() = %d, want %d", s.Len(), len(tt.expected))
			}
			b := s.Bytes()
			if len(b) != len(tt.expected)+1 || b[len(b)-1] != 0 {
				t.Errorf("Bytes() = % x, want content plus trailing NUL", b)
			}
			if got := goString(s.Ptr()); got != tt.expected {
				t.Errorf("pointer read = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatHeapFallback(t *testing.T) {
	long := strings.Repeat("x", 200)

	s, err := Format("%s", long)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !s.Heap() {
		t.Fatal("expected heap-backed handle")
	}
	if s.Len() != 200 {
		t.Errorf("Len() = %d, want 200", s.Len())
	}
	b := s.Bytes()
	if len(b) != 201 || cap(b) != 201 {
		t.Errorf("buffer len=%d cap=%d, want exactly 201", len(b), cap(b))
	}
	if b[200] != 0 {
		t.Error("missing trailing NUL")
	}
	if got := goString(s.Ptr()); got != long {
		t.Errorf("pointer read mismatch, got %d bytes", len(got))
	}
}

func TestFormatCapacityBoundary(t *testing.T) {
	const capacity = 16

	// capacity-1 content bytes leave room for the terminator: stack path.
	s, err := FormatCapacity(capacity, "%s", strings.Repeat("a", capacity-1))
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if s.Heap() {
		t.Error("content of capacity-1 bytes must stay on the stack path")
	}
	if s.Len() != capacity-1 {
		t.Errorf("Len() = %d, want %d", s.Len(), capacity-1)
	}

	// Exactly capacity content bytes: no room for the terminator.
	s, err = FormatCapacity(capacity, "%s", strings.Repeat("a", capacity))
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !s.Heap() {
		t.Error("content of capacity bytes must fall back to the heap")
	}
	if len(s.Bytes()) != capacity+1 {
		t.Errorf("buffer = %d bytes, want %d", len(s.Bytes()), capacity+1)
	}
}

func TestFormatCapacityClamp(t *testing.T) {
	// Budgets above the inline storage size are clamped to it.
	s, err := FormatCapacity(4*DefaultCapacity, "%s", strings.Repeat("a", DefaultCapacity+2))
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !s.Heap() {
		t.Error("content beyond DefaultCapacity-1 must report heap despite a larger budget")
	}

	s, err = FormatCapacity(4*DefaultCapacity, "%s", strings.Repeat("a", DefaultCapacity-1))
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if s.Heap() {
		t.Error("content of DefaultCapacity-1 bytes must stay inline")
	}
}

func TestFormatPathsAgree(t *testing.T) {
	// The same input forced down both paths must produce identical bytes.
	inputs := []struct {
		format string
		args   []any
	}{
		{"Pi = %.2f", []any{3.14159}},
		{"%s/%d", []any{"path", 99}},
		{"%q", []any{"quoted"}},
	}

	for _, in := range inputs {
		stack, err := FormatCapacity(DefaultCapacity, in.format, in.args...)
		if err != nil {
			t.Fatalf("stack render: %v", err)
		}
		heap, err := FormatCapacity(1, in.format, in.args...)
		if err != nil {
			t.Fatalf("heap render: %v", err)
		}
		if stack.Heap() || !heap.Heap() {
			t.Fatalf("capacity did not select the expected paths")
		}
		if string(stack.Bytes()) != string(heap.Bytes()) {
			t.Errorf("paths disagree for %q: stack=% x heap=% x",
				in.format, stack.Bytes(), heap.Bytes())
		}
	}
}

func TestFormatInteriorNul(t *testing.T) {
	tests := []struct {
		name   string
		format string
		args   []any
	}{
		{"in_arg", "%s", []any{"a\x00b"}},
		{"in_template", "a\x00b", nil},
		{"long_arg", "%s", []any{strings.Repeat("x", 150) + "\x00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Format(tt.format, tt.args...)
			if !stderrors.Is(err, errors.InteriorNul(errors.PhaseRender, 0)) {
				t.Errorf("got %v, want interior_nul error", err)
			}
		})
	}
}

func TestFormatInvalidUTF8(t *testing.T) {
	_, err := Format("%s", []byte{0xff, 0xfe})
	if !stderrors.Is(err, errors.InvalidUTF8(errors.PhaseRender, nil)) {
		t.Errorf("got %v, want invalid_utf8 error", err)
	}
}

type marshalArg struct {
	text  string
	err   error
	calls int
}

func (m *marshalArg) MarshalText() ([]byte, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return []byte(m.text), nil
}

func TestFormatTextMarshaler(t *testing.T) {
	arg := &marshalArg{text: "10.0.0.1"}
	s, err := Format("addr=%s", arg)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if got := s.String(); got != "addr=10.0.0.1" {
		t.Errorf("got %q", got)
	}
	if arg.calls != 1 {
		t.Errorf("MarshalText called %d times, want exactly 1", arg.calls)
	}
}

func TestFormatTextMarshalerFailure(t *testing.T) {
	cause := stderrors.New("no text form")
	_, err := Format("%s", &marshalArg{err: cause})
	if !stderrors.Is(err, errors.FormatFailed(0, nil)) {
		t.Fatalf("got %v, want format error", err)
	}
	if !stderrors.Is(err, cause) {
		t.Errorf("cause not preserved in %v", err)
	}
}

func TestFormatStackPathDoesNotAllocate(t *testing.T) {
	args := []any{int64(42)}
	var sink CString
	allocs := testing.AllocsPerRun(200, func() {
		s, err := Format("id=%d", args...)
		if err != nil {
			t.Fatal(err)
		}
		sink = s
	})
	if allocs != 0 {
		t.Errorf("stack path allocated %.1f times per render, want 0", allocs)
	}
	_ = sink
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		in   string
		heap bool
	}{
		{"short", "hello", false},
		{"empty", "", false},
		{"fits_with_nul", strings.Repeat("a", DefaultCapacity-1), false},
		{"exactly_capacity", strings.Repeat("a", DefaultCapacity), true},
		{"long", strings.Repeat("a", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.in)
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			if s.Heap() != tt.heap {
				t.Errorf("Heap() = %v, want %v", s.Heap(), tt.heap)
			}
			if got := s.String(); got != tt.in {
				t.Errorf("content mismatch, got %d bytes", len(got))
			}
			if b := s.Bytes(); b[len(b)-1] != 0 {
				t.Error("missing trailing NUL")
			}
		})
	}

	if _, err := New("a\x00b"); !stderrors.Is(err, errors.InteriorNul(errors.PhaseValidate, 0)) {
		t.Error("New must reject interior NUL")
	}
	if _, err := New(string([]byte{0xff})); !stderrors.Is(err, errors.InvalidUTF8(errors.PhaseValidate, nil)) {
		t.Error("New must reject invalid UTF-8")
	}
}

func TestFromBytes(t *testing.T) {
	s, err := FromBytes([]byte("hello\x00"))
	if err != nil {
		t.Fatalf("from bytes: %v", err)
	}
	if s.String() != "hello" || s.Len() != 5 || s.Heap() {
		t.Errorf("got %q len=%d heap=%v", s.String(), s.Len(), s.Heap())
	}

	long := append([]byte(strings.Repeat("b", 200)), 0)
	s, err = FromBytes(long)
	if err != nil {
		t.Fatalf("from bytes: %v", err)
	}
	if !s.Heap() || s.Len() != 200 {
		t.Errorf("got len=%d heap=%v", s.Len(), s.Heap())
	}
	// The input must be copied, not retained.
	long[0] = 'z'
	if s.Bytes()[0] != 'b' {
		t.Error("FromBytes retained the caller's buffer")
	}

	if _, err := FromBytes([]byte("missing")); !stderrors.Is(err,
		errors.New(errors.PhaseValidate, errors.KindInvalidInput).Build()) {
		t.Error("FromBytes must reject sequences without a terminator")
	}
	if _, err := FromBytes(nil); err == nil {
		t.Error("FromBytes must reject empty input")
	}
	if _, err := FromBytes([]byte("a\x00b\x00")); !stderrors.Is(err,
		errors.InteriorNul(errors.PhaseValidate, 0)) {
		t.Error("FromBytes must reject interior NUL")
	}
}

func TestAppendFormat(t *testing.T) {
	buf := make([]byte, 0, 64)
	out, err := AppendFormat(buf, "n=%d", 5)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if string(out) != "n=5\x00" {
		t.Errorf("got % x", out)
	}
	if &out[0] != &buf[:1][0] {
		t.Error("expected append into the provided buffer")
	}

	// Errors leave dst unchanged.
	out2, err := AppendFormat(out, "%s", "bad\x00")
	if err == nil {
		t.Fatal("expected interior NUL error")
	}
	if len(out2) != len(out) {
		t.Error("dst modified on error")
	}
}

func TestZeroValue(t *testing.T) {
	var s CString
	if s.Len() != 0 || s.Heap() {
		t.Errorf("zero value: len=%d heap=%v", s.Len(), s.Heap())
	}
	if b := s.Bytes(); len(b) != 1 || b[0] != 0 {
		t.Errorf("zero value bytes = % x, want a lone NUL", b)
	}
	if got := goString(s.Ptr()); got != "" {
		t.Errorf("zero value reads as %q", got)
	}
}

func TestEndToEndExamples(t *testing.T) {
	s, err := Format("Pi = %.2f", 3.14159)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if s.Heap() {
		t.Error("expected stack-backed handle")
	}
	if string(s.Bytes()) != "Pi = 3.14\x00" {
		t.Errorf("bytes = % x", s.Bytes())
	}
	if goString(s.Ptr()) != "Pi = 3.14" {
		t.Error("pointer read mismatch")
	}

	s, err = Format("%s", strings.Repeat("x", 200))
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !s.Heap() || len(s.Bytes()) != 201 {
		t.Errorf("heap=%v buffer=%d, want heap-backed 201-byte buffer",
			s.Heap(), len(s.Bytes()))
	}
}

func BenchmarkFormatStack(b *testing.B) {
	args := []any{int64(12345)}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s, err := Format("request id=%d", args...)
		if err != nil {
			b.Fatal(err)
		}
		_ = s.Ptr()
	}
}

func BenchmarkFormatHeap(b *testing.B) {
	long := strings.Repeat("x", 500)
	args := []any{long}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s, err := Format("%s", args...)
		if err != nil {
			b.Fatal(err)
		}
		_ = s.Ptr()
	}
}

func BenchmarkNew(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s, err := New("short-lived")
		if err != nil {
			b.Fatal(err)
		}
		_ = s.Ptr()
	}
}

func ExampleFormat() {
	s, _ := Format("Pi = %.2f", 3.14159)
	fmt.Println(s.String())
	fmt.Println(s.Heap())
	// Output:
	// Pi = 3.14
	// false
}
