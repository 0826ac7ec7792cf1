package compiler

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/wippyai/bitfield"
	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/schema"
)

// flagsDef is the running example: a u8 split into a 4-bit kind, a
// system flag, a 2-bit level and a present flag.
func flagsDef(order schema.Order) schema.Bitfield {
	return schema.New("Flags", schema.MustStorage("u8").WithOrder(order),
		schema.Field{Name: "kind", Type: "u8", Bits: 4},
		schema.Field{Name: "system", Type: "bool"},
		schema.Field{Name: "level", Type: "u8", Bits: 2},
		schema.Field{Name: "present", Type: "bool"},
	)
}

func mustCompile(t *testing.T, def schema.Bitfield, opts ...Option) *Compiled {
	t.Helper()
	ct, err := NewCompiler(opts...).Compile(def)
	if err != nil {
		t.Fatalf("Compile(%s): %v", def.Name, err)
	}
	return ct
}

func mustSet(t *testing.T, p *Packed, name string, v any) {
	t.Helper()
	if err := p.Set(name, v); err != nil {
		t.Fatalf("Set(%s, %v): %v", name, v, err)
	}
}

func TestCompileLsbFirst(t *testing.T) {
	ct := mustCompile(t, flagsDef(schema.OrderLsb))

	wantOffsets := map[string]uint32{"kind": 0, "system": 4, "level": 5, "present": 7}
	for name, want := range wantOffsets {
		a, ok := ct.Field(name)
		if !ok {
			t.Fatalf("Field(%q) missing", name)
		}
		if a.Offset() != want {
			t.Errorf("Field(%q).Offset() = %d, want %d", name, a.Offset(), want)
		}
	}

	p := ct.New()
	mustSet(t, &p, "kind", 15)
	mustSet(t, &p, "system", false)
	mustSet(t, &p, "level", 3)
	mustSet(t, &p, "present", true)

	if got := p.Uint64(); got != 0xEF {
		t.Errorf("raw = %#x, want 0xef", got)
	}
	if got := p.MustGet("kind"); got != uint64(15) {
		t.Errorf("kind = %v, want 15", got)
	}
	if got := p.MustGet("present"); got != true {
		t.Errorf("present = %v, want true", got)
	}
}

func TestCompileMsbFirst(t *testing.T) {
	ct := mustCompile(t, flagsDef(schema.OrderMsb))

	wantOffsets := map[string]uint32{"kind": 4, "system": 3, "level": 1, "present": 0}
	for name, want := range wantOffsets {
		a, _ := ct.Field(name)
		if a == nil {
			t.Fatalf("Field(%q) missing", name)
		}
		if a.Offset() != want {
			t.Errorf("Field(%q).Offset() = %d, want %d", name, a.Offset(), want)
		}
	}

	p := ct.New()
	mustSet(t, &p, "kind", 10)
	mustSet(t, &p, "system", false)
	mustSet(t, &p, "level", 2)
	mustSet(t, &p, "present", true)

	if got := p.Uint64(); got != 0xA5 {
		t.Errorf("raw = %#x, want 0xa5", got)
	}
}

// Mirroring the bit order must never change which fields are adjacent:
// for every field, msbOffset = total - lsbOffset - width.
func TestOrderSymmetry(t *testing.T) {
	fields := []schema.Field{
		{Name: "a", Type: "u8", Bits: 3},
		{Name: "b", Type: "u16", Bits: 9},
		{Name: "c", Type: "u8", Bits: 4},
		{Name: "d", Type: "u16", Bits: 16},
	}
	lsb := mustCompile(t, schema.New("Sym", schema.MustStorage("u32"), fields...))
	msb := mustCompile(t, schema.New("Sym", schema.MustStorage("u32").WithOrder(schema.OrderMsb), fields...))

	for _, la := range lsb.Accessors() {
		ma, _ := msb.Field(la.Name())
		if ma == nil {
			t.Fatalf("msb layout lost field %q", la.Name())
		}
		want := 32 - la.Offset() - la.Bits()
		if ma.Offset() != want {
			t.Errorf("field %q: msb offset = %d, want %d (lsb offset %d, width %d)",
				la.Name(), ma.Offset(), want, la.Offset(), la.Bits())
		}
	}
}

func TestSignedRoundTrip(t *testing.T) {
	ct := mustCompile(t, schema.New("Narrow", schema.MustStorage("u8"),
		schema.Field{Name: "v", Type: "s8", Bits: 5},
		schema.Field{Name: "_pad", Type: "u8", Bits: 3},
	))

	p := ct.New()
	mustSet(t, &p, "v", -3)

	// -3 in 5 bits is 0b11101.
	if got := p.Uint64(); got != 0x1D {
		t.Errorf("raw = %#x, want 0x1d", got)
	}
	if got := p.MustGet("v"); got != int64(-3) {
		t.Errorf("v = %v, want -3", got)
	}

	for _, v := range []int64{15, -16} {
		mustSet(t, &p, "v", v)
		if got := p.MustGet("v"); got != v {
			t.Errorf("v = %v, want %v", got, v)
		}
	}

	// 16 fits the 5-bit pattern space but not the signed value range.
	before := p.Raw()
	err := p.Set("v", 16)
	if !stderrors.Is(err, errors.BoundsViolation("", nil, 0)) {
		t.Fatalf("Set(v, 16) = %v, want bounds violation", err)
	}
	if p.Raw() != before {
		t.Errorf("failed write modified raw: %v -> %v", before, p.Raw())
	}
}

func TestUnsignedBounds(t *testing.T) {
	ct := mustCompile(t, schema.New("Nibbles", schema.MustStorage("u8"),
		schema.Field{Name: "lo", Type: "u8", Bits: 4},
		schema.Field{Name: "hi", Type: "u8", Bits: 4},
	))

	p := ct.New()
	mustSet(t, &p, "lo", 15)

	err := p.Set("lo", 16)
	if !stderrors.Is(err, errors.BoundsViolation("", nil, 0)) {
		t.Fatalf("Set(lo, 16) = %v, want bounds violation", err)
	}
	if got := p.MustGet("lo"); got != uint64(15) {
		t.Errorf("failed write modified field: lo = %v, want 15", got)
	}
}

func TestWithoutBoundsChecks(t *testing.T) {
	def := schema.New("Nibbles", schema.MustStorage("u8"),
		schema.Field{Name: "lo", Type: "u8", Bits: 4},
		schema.Field{Name: "hi", Type: "u8", Bits: 4},
	)
	ct := mustCompile(t, def, WithoutBoundsChecks())

	p := ct.New()
	mustSet(t, &p, "hi", 0x5)
	// Out-of-range values truncate silently instead of failing.
	mustSet(t, &p, "lo", 0xAB)

	if got := p.MustGet("lo"); got != uint64(0xB) {
		t.Errorf("lo = %v, want 0xb", got)
	}
	if got := p.MustGet("hi"); got != uint64(0x5) {
		t.Errorf("hi = %v, want 0x5 (neighbor clobbered)", got)
	}

	// Type mismatches are hard errors regardless of the bounds policy.
	if err := p.Set("lo", "nope"); !stderrors.Is(err, errors.TypeMismatch("", "", nil)) {
		t.Errorf("Set(lo, string) = %v, want type mismatch", err)
	}
}

func TestBoolIsStrict(t *testing.T) {
	ct := mustCompile(t, flagsDef(schema.OrderLsb))
	p := ct.New()
	if err := p.Set("system", 1); !stderrors.Is(err, errors.TypeMismatch("", "", nil)) {
		t.Errorf("Set(system, 1) = %v, want type mismatch", err)
	}
}

func TestOpaqueConversion(t *testing.T) {
	// 2-bit enum with a reserved pattern mapped through hooks.
	names := []string{"none", "read", "write", "admin"}
	def := schema.New("Perm", schema.MustStorage("u8"),
		schema.Field{
			Name: "mode",
			Type: "AccessMode",
			Bits: 2,
			Into: func(v any) bitfield.Bits {
				for i, n := range names {
					if n == v {
						return bitfield.BitsFromUint64(uint64(i))
					}
				}
				return bitfield.BitsFromUint64(uint64(len(names)))
			},
			From: func(raw bitfield.Bits) any {
				return names[raw.Uint64()]
			},
		},
		schema.Field{Name: "_pad", Type: "u8", Bits: 6},
	)
	ct := mustCompile(t, def)

	p := ct.New()
	if got := p.MustGet("mode"); got != "none" {
		t.Errorf("default mode = %v, want %q", got, "none")
	}

	mustSet(t, &p, "mode", "admin")
	if got := p.MustGet("mode"); got != "admin" {
		t.Errorf("mode = %v, want %q", got, "admin")
	}
	if got := p.Uint64(); got != 3 {
		t.Errorf("raw = %#x, want 0x3", got)
	}

	// The hook result is bounds-checked like any other write.
	if err := p.Set("mode", "bogus"); !stderrors.Is(err, errors.BoundsViolation("", nil, 0)) {
		t.Errorf("Set(mode, bogus) = %v, want bounds violation", err)
	}
}

func TestDefaults(t *testing.T) {
	def := schema.New("Mixed", schema.MustStorage("u16"),
		schema.Field{Name: "count", Type: "u8", Bits: 6, Default: uint64(42)},
		schema.Field{Name: "delta", Type: "s8", Bits: 4, Default: int64(-1)},
		schema.Field{Name: "on", Type: "bool"},
		schema.Field{Name: "_rsvd", Type: "u8", Bits: 5, Default: 0x15},
	)
	ct := mustCompile(t, def)

	p := ct.New()
	if got := p.MustGet("count"); got != uint64(42) {
		t.Errorf("count = %v, want 42", got)
	}
	if got := p.MustGet("delta"); got != int64(-1) {
		t.Errorf("delta = %v, want -1", got)
	}
	if got := p.MustGet("on"); got != false {
		t.Errorf("on = %v, want false", got)
	}

	// count=42 at 0, delta=0b1111 at 6, on=0 at 10, padding 0x15 at 11.
	want := uint64(42) | 0xF<<6 | 0x15<<11
	if got := p.Uint64(); got != want {
		t.Errorf("default raw = %#x, want %#x", got, want)
	}

	// Padding bits survive visible-field writes.
	mustSet(t, &p, "count", 0)
	if got := p.Uint64() >> 11; got != 0x15 {
		t.Errorf("padding after write = %#x, want 0x15", got)
	}
}

func TestWideStorage(t *testing.T) {
	ct := mustCompile(t, schema.New("Wide", schema.MustStorage("u128"),
		schema.Field{Name: "body", Type: "u128", Bits: 96},
		schema.Field{Name: "tag", Type: "u32"},
	))

	p := ct.New()
	v := bitfield.BitsFromParts(0xDEAD_BEEF, 0x0123_4567_89AB_CDEF)
	mustSet(t, &p, "body", v)
	mustSet(t, &p, "tag", 0xCAFE_F00D)

	if got := p.MustGet("body"); got != v {
		t.Errorf("body = %v, want %v", got, v)
	}
	if got := p.MustGet("tag"); got != uint64(0xCAFE_F00D) {
		t.Errorf("tag = %#x, want 0xcafef00d", got)
	}

	hi, lo := p.Raw().Parts()
	if lo != 0x0123_4567_89AB_CDEF {
		t.Errorf("raw lo = %#x", lo)
	}
	if hi != 0xDEAD_BEEF|0xCAFE_F00D<<32 {
		t.Errorf("raw hi = %#x", hi)
	}

	// A pattern wider than 96 bits must be rejected.
	err := p.Set("body", bitfield.BitsFromParts(1<<32, 0))
	if !stderrors.Is(err, errors.BoundsViolation("", nil, 0)) {
		t.Errorf("Set(body, wide) = %v, want bounds violation", err)
	}
}

func TestCompileErrors(t *testing.T) {
	u8 := schema.MustStorage("u8")

	tests := []struct {
		name  string
		def   schema.Bitfield
		phase errors.Phase
		kind  errors.Kind
	}{
		{
			name:  "unsupported storage",
			def:   schema.New("T", schema.Storage{Type: "u12", Bits: 12}),
			phase: errors.PhaseParse,
			kind:  errors.KindUnsupportedStorage,
		},
		{
			name: "zero width custom type",
			def: schema.New("T", u8,
				schema.Field{Name: "x", Type: "Mystery"},
			),
			phase: errors.PhaseClassify,
			kind:  errors.KindZeroWidth,
		},
		{
			name: "zero width platform type",
			def: schema.New("T", u8,
				schema.Field{Name: "x", Type: "uint"},
			),
			phase: errors.PhaseClassify,
			kind:  errors.KindZeroWidth,
		},
		{
			name: "width overflows field type",
			def: schema.New("T", u8,
				schema.Field{Name: "x", Type: "u8", Bits: 9},
			),
			phase: errors.PhaseClassify,
			kind:  errors.KindWidthOverflow,
		},
		{
			name: "signed wider than 64 bits",
			def: schema.New("T", schema.MustStorage("u128"),
				schema.Field{Name: "x", Type: "s128"},
			),
			phase: errors.PhaseClassify,
			kind:  errors.KindWidthOverflow,
		},
		{
			name: "missing conversion hooks",
			def: schema.New("T", u8,
				schema.Field{Name: "x", Type: "Mystery", Bits: 8},
			),
			phase: errors.PhaseClassify,
			kind:  errors.KindMissingConversion,
		},
		{
			name: "hooks on padding",
			def: schema.New("T", u8,
				schema.Field{Name: "_x", Type: "u8", Into: func(any) bitfield.Bits { return bitfield.Bits{} }},
			),
			phase: errors.PhaseClassify,
			kind:  errors.KindHooksOnPadding,
		},
		{
			name: "visible field overflows layout",
			def: schema.New("T", u8,
				schema.Field{Name: "a", Type: "u8", Bits: 6},
				schema.Field{Name: "b", Type: "u8", Bits: 6},
			),
			phase: errors.PhaseResolve,
			kind:  errors.KindWidthOverflow,
		},
		{
			name: "incomplete layout",
			def: schema.New("T", u8,
				schema.Field{Name: "a", Type: "u8", Bits: 4},
			),
			phase: errors.PhaseAssemble,
			kind:  errors.KindIncompleteLayout,
		},
		{
			name: "padding overruns storage",
			def: schema.New("T", u8,
				schema.Field{Name: "a", Type: "u8", Bits: 6},
				schema.Field{Name: "_pad", Type: "u8", Bits: 6},
			),
			phase: errors.PhaseAssemble,
			kind:  errors.KindExceedsStorage,
		},
		{
			name: "duplicate field name",
			def: schema.New("T", u8,
				schema.Field{Name: "a", Type: "u8", Bits: 4},
				schema.Field{Name: "a", Type: "u8", Bits: 4},
			),
			phase: errors.PhaseAssemble,
			kind:  errors.KindInvalidData,
		},
		{
			name: "default out of range",
			def: schema.New("T", u8,
				schema.Field{Name: "a", Type: "u8", Bits: 4, Default: uint64(300)},
				schema.Field{Name: "_pad", Type: "u8", Bits: 4},
			),
			phase: errors.PhaseAssemble,
			kind:  errors.KindBoundsViolation,
		},
	}

	c := NewCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Compile(tt.def)
			if err == nil {
				t.Fatal("Compile succeeded, want error")
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error type %T: %v", err, err)
			}
			if e.Phase != tt.phase || e.Kind != tt.kind {
				t.Errorf("error = [%s] %s, want [%s] %s: %v", e.Phase, e.Kind, tt.phase, tt.kind, err)
			}
		})
	}
}

// A default of the wrong dynamic type is a hard error in either bounds
// mode; only range violations follow the bounds policy.
func TestDefaultMistypedWithoutBounds(t *testing.T) {
	def := schema.New("T", schema.MustStorage("u8"),
		schema.Field{Name: "a", Type: "u8", Bits: 4, Default: "oops"},
		schema.Field{Name: "_pad", Type: "u8", Bits: 4},
	)
	_, err := NewCompiler(WithoutBoundsChecks()).Compile(def)
	if err == nil {
		t.Fatal("Compile accepted a mistyped default")
	}
}

// With bounds checks off, a numeric out-of-range default truncates to
// the field width, same as any other unchecked write.
func TestDefaultTruncatesWithoutBounds(t *testing.T) {
	def := schema.New("T", schema.MustStorage("u8"),
		schema.Field{Name: "a", Type: "u8", Bits: 4, Default: uint64(300)},
		schema.Field{Name: "_pad", Type: "u8", Bits: 4},
	)
	ct, err := NewCompiler(WithoutBoundsChecks()).Compile(def)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	// 300 = 0x12c; the low 4 bits survive.
	if got := ct.New().MustGet("a"); got != uint64(0xC) {
		t.Errorf("a = %v, want 12", got)
	}
}

// Padding never enters the name table, so repeated padding names stay
// legal.
func TestRepeatedPaddingNames(t *testing.T) {
	ct := mustCompile(t, schema.New("T", schema.MustStorage("u8"),
		schema.Field{Name: "_", Type: "u8", Bits: 2},
		schema.Field{Name: "a", Type: "u8", Bits: 4},
		schema.Field{Name: "_", Type: "u8", Bits: 2},
	))
	if got := len(ct.Accessors()); got != 1 {
		t.Errorf("len(Accessors()) = %d, want 1", got)
	}
}

func TestIncompleteLayoutSuggestsPadding(t *testing.T) {
	def := schema.New("T", schema.MustStorage("u16"),
		schema.Field{Name: "a", Type: "u8", Bits: 5},
	)
	_, err := NewCompiler().Compile(def)
	if err == nil {
		t.Fatal("Compile succeeded, want error")
	}
	if want := "11-bit padding"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not suggest %q", err, want)
	}
}
