package compiler

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/wippyai/bitfield"
	"github.com/wippyai/bitfield/compiler/internal/types"
	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/schema"
)

// Compiled is the assembled whole-type contract: the resolved layout plus
// one Accessor per visible field. It is immutable after assembly and safe
// for concurrent use.
type Compiled struct {
	name       string
	storage    schema.Storage
	opts       schema.Options
	fields     []*types.Resolved
	accessors  []*Accessor
	byName     map[string]*Accessor
	defaultRaw bitfield.Bits
	bounds     bool
}

// Name returns the bitfield type's name.
func (c *Compiled) Name() string { return c.name }

// Storage returns the storage specification.
func (c *Compiled) Storage() schema.Storage { return c.storage }

// Options returns the contract toggles the type was compiled with.
func (c *Compiled) Options() schema.Options { return c.opts }

// TotalBits returns the storage width.
func (c *Compiled) TotalBits() uint32 { return c.storage.Bits }

// Fields returns every resolved field, padding included, in declaration
// order. Callers must not mutate the returned fields.
func (c *Compiled) Fields() []*ResolvedField { return c.fields }

// Accessors returns the accessor contracts of the visible (non-padding)
// fields, in declaration order.
func (c *Compiled) Accessors() []*Accessor { return c.accessors }

// Field looks up a visible field's accessor by name.
func (c *Compiled) Field(name string) (*Accessor, bool) {
	a, ok := c.byName[name]
	return a, ok
}

// New returns a packed value with every field at its default. Defaults
// were validated at assembly, so construction cannot fail.
func (c *Compiled) New() Packed {
	return Packed{ct: c, raw: c.defaultRaw}
}

// Default is the default-value contract; it equals New. HasDefault
// reports whether the contract was compiled in (the "default" option).
func (c *Compiled) Default() Packed  { return c.New() }
func (c *Compiled) HasDefault() bool { return c.opts.Default }

// FromRaw wraps a raw storage word. The conversion is a bit identity and
// never fails; no validation is applied.
func (c *Compiled) FromRaw(raw bitfield.Bits) Packed {
	return Packed{ct: c, raw: raw}
}

// Accessor is one visible field's contract: layout constants plus the
// read and update operations.
type Accessor struct {
	f  *types.Resolved
	ct *Compiled
}

// Name returns the field name.
func (a *Accessor) Name() string { return a.f.Name }

// Doc returns the field's documentation string, if any.
func (a *Accessor) Doc() string { return a.f.Doc }

// DeclType returns the declared type reference.
func (a *Accessor) DeclType() string { return a.f.DeclType }

// Class returns the field's type class.
func (a *Accessor) Class() Class { return a.f.Class }

// Bits returns the field's width constant.
func (a *Accessor) Bits() uint32 { return a.f.Width }

// Offset returns the field's offset constant.
func (a *Accessor) Offset() uint32 { return a.f.Offset }

// Public reports whether the field was declared with public visibility.
func (a *Accessor) Public() bool { return a.f.Public }

// Get applies the field's read contract to the masked, offset-shifted
// bits of raw. Reads never fail.
func (a *Accessor) Get(raw bitfield.Bits) any {
	return a.f.Read(raw.Shr(a.f.Offset).And(a.f.Mask))
}

// With returns raw with this field set to v, leaving every other field's
// bits unchanged. With bounds checks enabled, an out-of-range value
// returns raw unmodified along with the violation.
func (a *Accessor) With(raw bitfield.Bits, v any) (bitfield.Bits, error) {
	bits, err := a.f.Write(v)
	if err != nil {
		if a.ct.bounds || !isBoundsViolation(err) {
			return raw, err
		}
	}
	shifted := a.f.Mask.Shl(a.f.Offset)
	return raw.AndNot(shifted).Or(bits.Shl(a.f.Offset)), nil
}

var boundsSentinel = &errors.Error{Phase: errors.PhaseAccess, Kind: errors.KindBoundsViolation}

// isBoundsViolation distinguishes the suppressible bounds check from
// hard errors like type mismatches, which always surface.
func isBoundsViolation(err error) bool {
	return stderrors.Is(err, boundsSentinel)
}

// Packed is a storage word paired with its compiled type.
type Packed struct {
	ct  *Compiled
	raw bitfield.Bits
}

// Type returns the compiled type this value belongs to.
func (p Packed) Type() *Compiled { return p.ct }

// Raw returns the underlying storage word. Bit identity, never fails.
func (p Packed) Raw() bitfield.Bits { return p.raw }

// Uint64 returns the low 64 bits of the storage word, which is the whole
// word for storages up to 64 bits.
func (p Packed) Uint64() uint64 { return p.raw.Uint64() }

// Get reads the named field.
func (p Packed) Get(name string) (any, error) {
	a, ok := p.ct.byName[name]
	if !ok {
		return nil, errors.UnknownField(p.ct.name, name)
	}
	return a.Get(p.raw), nil
}

// MustGet is Get for fields known to exist; it panics on unknown names.
func (p Packed) MustGet(name string) any {
	v, err := p.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// With returns a copy of p with the named field set to v.
func (p Packed) With(name string, v any) (Packed, error) {
	a, ok := p.ct.byName[name]
	if !ok {
		return p, errors.UnknownField(p.ct.name, name)
	}
	raw, err := a.With(p.raw, v)
	if err != nil {
		return p, err
	}
	return Packed{ct: p.ct, raw: raw}, nil
}

// Set updates the named field in place, equivalent to p = p.With(...).
func (p *Packed) Set(name string, v any) error {
	next, err := p.With(name, v)
	if err != nil {
		return err
	}
	*p = next
	return nil
}

// String renders the value. With the debug contract compiled in it lists
// every visible field's name and current value; otherwise only the raw
// word is shown.
func (p Packed) String() string {
	if p.ct == nil {
		return p.raw.String()
	}
	if !p.ct.opts.Debug {
		return fmt.Sprintf("%s(%s)", p.ct.name, p.raw)
	}

	var b strings.Builder
	b.WriteString(p.ct.name)
	b.WriteByte('{')
	for i, a := range p.ct.accessors {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Name())
		b.WriteString(": ")
		fmt.Fprintf(&b, "%v", a.Get(p.raw))
	}
	b.WriteByte('}')
	return b.String()
}
