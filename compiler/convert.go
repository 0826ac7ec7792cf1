package compiler

import (
	"github.com/wippyai/bitfield"
	"github.com/wippyai/bitfield/compiler/internal/types"
	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/schema"
)

// synthesize derives one field's effective width, conversion contract,
// and default. The rules run in order: width resolution first, then the
// per-class read/write semantics, with an explicit default always
// overriding the class default.
func synthesize(f schema.Field) (*types.Resolved, error) {
	class, natural := types.Classify(f.Type)

	width := f.Bits
	if width == 0 {
		width = natural
	}
	if width == 0 {
		return nil, errors.ZeroWidth(f.Name, f.Type)
	}
	if natural != 0 && f.Bits > natural {
		return nil, errors.WidthOverflow(f.Name, f.Type, f.Bits, natural)
	}

	r := &types.Resolved{
		Name:     f.Name,
		Doc:      f.Doc,
		DeclType: f.Type,
		IntoName: f.IntoName,
		FromName: f.FromName,
		Width:    width,
		Mask:     bitfield.Mask(width),
		Class:    class,
		Public:   f.Public,
		Padding:  f.Padding,
	}

	if f.Padding {
		// Padding reserves bits but has no accessors, so there is no
		// write path to route a default through: it is OR'd in raw.
		if f.Into != nil || f.From != nil || f.IntoName != "" || f.FromName != "" {
			return nil, errors.HooksOnPadding(f.Name)
		}
		raw, err := paddingDefault(f)
		if err != nil {
			return nil, err
		}
		r.RawDefault = raw.And(r.Mask)
		return r, nil
	}

	var err error
	switch class {
	case types.ClassBool:
		synthBool(r)
	case types.ClassUInt:
		synthUInt(r)
	case types.ClassSInt:
		err = synthSInt(r)
	case types.ClassOpaque:
		err = synthOpaque(r, f)
	}
	if err != nil {
		return nil, err
	}

	r.Default = fieldDefault(f, r)
	return r, nil
}

func synthBool(r *types.Resolved) {
	name := r.Name
	r.Read = func(raw bitfield.Bits) any {
		return !raw.IsZero()
	}
	r.Write = func(v any) (bitfield.Bits, error) {
		b, ok := v.(bool)
		if !ok {
			return bitfield.Bits{}, errors.TypeMismatch(name, "bool", v)
		}
		if b {
			return bitfield.BitsFromUint64(1), nil
		}
		return bitfield.Bits{}, nil
	}
}

func synthUInt(r *types.Resolved) {
	name, width, mask := r.Name, r.Width, r.Mask

	if width > 64 {
		// Values wider than a native integer stay in the raw word type.
		r.Read = func(raw bitfield.Bits) any {
			return raw
		}
		r.Write = func(v any) (bitfield.Bits, error) {
			b, ok := toBits(v)
			if !ok {
				return bitfield.Bits{}, errors.TypeMismatch(name, "unsigned integer", v)
			}
			masked := b.And(mask)
			if !b.AndNot(mask).IsZero() {
				return masked, errors.BoundsViolation(name, v, width)
			}
			return masked, nil
		}
		return
	}

	mask64 := mask.Uint64()
	r.Read = func(raw bitfield.Bits) any {
		return raw.Uint64()
	}
	r.Write = func(v any) (bitfield.Bits, error) {
		u, ok := toUint64(v)
		if !ok {
			return bitfield.Bits{}, errors.TypeMismatch(name, "unsigned integer", v)
		}
		masked := bitfield.BitsFromUint64(u & mask64)
		if u&^mask64 != 0 {
			return masked, errors.BoundsViolation(name, v, width)
		}
		return masked, nil
	}
}

func synthSInt(r *types.Resolved) error {
	if r.Width > 64 {
		return errors.New(errors.PhaseClassify, errors.KindWidthOverflow).
			Field(r.Name).
			DeclType(r.DeclType).
			Detail("signed fields wider than 64 bits are not representable natively; use a custom type with conversion hooks").
			Build()
	}

	name, width := r.Name, r.Width
	mask64 := r.Mask.Uint64()
	shift := 64 - width

	r.Read = func(raw bitfield.Bits) any {
		// Shift the sign bit up to the native top bit, then arithmetic
		// shift back down to reproduce the original value.
		return int64(raw.Uint64()<<shift) >> shift
	}
	r.Write = func(v any) (bitfield.Bits, error) {
		i, ok := toInt64(v)
		if !ok {
			return bitfield.Bits{}, errors.TypeMismatch(name, "signed integer", v)
		}
		masked := bitfield.BitsFromUint64(uint64(i) & mask64)
		// Two's-complement fit: everything from the sign bit up must be
		// all zeros (non-negative) or all ones (negative).
		if top := i >> (width - 1); top != 0 && top != -1 {
			return masked, errors.BoundsViolation(name, v, width)
		}
		return masked, nil
	}
	return nil
}

func synthOpaque(r *types.Resolved, f schema.Field) error {
	if f.Into == nil || f.From == nil {
		return errors.MissingConversion(f.Name, f.Type)
	}

	name, width, mask := r.Name, r.Width, r.Mask
	from, into := f.From, f.Into

	r.Read = func(raw bitfield.Bits) any {
		return from(raw)
	}
	r.Write = func(v any) (bitfield.Bits, error) {
		b := into(v)
		masked := b.And(mask)
		if !b.AndNot(mask).IsZero() {
			return masked, errors.BoundsViolation(name, v, width)
		}
		return masked, nil
	}
	return nil
}

// fieldDefault picks the value a visible field starts at: the explicit
// default when given, otherwise the type class default. Opaque fields
// default to from(0).
func fieldDefault(f schema.Field, r *types.Resolved) any {
	if f.Default != nil {
		return f.Default
	}
	switch r.Class {
	case types.ClassBool:
		return false
	case types.ClassSInt:
		return int64(0)
	case types.ClassOpaque:
		return f.From(bitfield.Bits{})
	default:
		if r.Width > 64 {
			return bitfield.Bits{}
		}
		return uint64(0)
	}
}

func paddingDefault(f schema.Field) (bitfield.Bits, error) {
	if f.Default == nil {
		return bitfield.Bits{}, nil
	}
	b, ok := toBits(f.Default)
	if !ok {
		return bitfield.Bits{}, errors.InvalidData(errors.PhaseClassify, f.Name,
			"padding default must be a raw bit pattern")
	}
	return b, nil
}

func toUint64(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint64:
		return x, true
	case uint32:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint8:
		return uint64(x), true
	case uint:
		return uint64(x), true
	case uintptr:
		return uint64(x), true
	case int64:
		return uint64(x), true
	case int32:
		return uint64(x), true
	case int16:
		return uint64(x), true
	case int8:
		return uint64(x), true
	case int:
		return uint64(x), true
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int32:
		return int64(x), true
	case int16:
		return int64(x), true
	case int8:
		return int64(x), true
	case int:
		return int64(x), true
	case uint64:
		if x > 1<<63-1 {
			return 0, false
		}
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint:
		if uint64(x) > 1<<63-1 {
			return 0, false
		}
		return int64(x), true
	default:
		return 0, false
	}
}

func toBits(v any) (bitfield.Bits, bool) {
	if b, ok := v.(bitfield.Bits); ok {
		return b, true
	}
	u, ok := toUint64(v)
	if !ok {
		return bitfield.Bits{}, false
	}
	return bitfield.BitsFromUint64(u), true
}
