package types

import (
	"github.com/wippyai/bitfield"
)

// ReadFunc translates a field's masked, offset-shifted raw bits into its
// value.
type ReadFunc func(raw bitfield.Bits) any

// WriteFunc translates a field value into its raw bit pattern. The
// returned bits are always masked to the field width; err is non-nil when
// the value did not fit the field's declared width and signedness (the
// caller decides whether that surfaces or the truncated bits are used).
type WriteFunc func(value any) (bitfield.Bits, error)

// Resolved is one field after classification, conversion synthesis, and
// layout resolution. It is owned exclusively by the layout it belongs to
// and never mutated after resolution.
type Resolved struct {
	Read       ReadFunc
	Write      WriteFunc
	Default    any
	Name       string
	Doc        string
	DeclType   string
	IntoName   string
	FromName   string
	Mask       bitfield.Bits // low Width bits, unshifted
	RawDefault bitfield.Bits // padding only: OR'd directly into storage
	Offset     uint32
	Width      uint32
	Class      Class
	Public     bool
	Padding    bool
}

// Covers reports whether the bit position is inside this field's range.
func (r *Resolved) Covers(bit uint32) bool {
	return bit >= r.Offset && bit < r.Offset+r.Width
}
