package compiler

import (
	"github.com/wippyai/bitfield"
	"github.com/wippyai/bitfield/compiler/internal/types"
	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/schema"
)

// assemble validates that the resolved widths exactly cover the storage
// and builds the whole-type contract. covered is the total width claimed
// in declaration order.
func assemble(def schema.Bitfield, fields []*types.Resolved, covered uint32, bounds bool) (*Compiled, error) {
	total := def.Storage.Bits
	if covered < total {
		return nil, errors.IncompleteLayout(covered, total)
	}
	if covered > total {
		return nil, errors.ExceedsStorage(covered, total)
	}

	ct := &Compiled{
		name:    def.Name,
		storage: def.Storage,
		opts:    def.Options,
		fields:  fields,
		byName:  make(map[string]*Accessor),
		bounds:  bounds,
	}

	var raw bitfield.Bits
	for _, f := range fields {
		if f.Padding {
			raw = raw.Or(f.RawDefault.Shl(f.Offset))
			continue
		}

		// A duplicate name would leave one of two live bit ranges
		// unreachable through the name-based accessors.
		if _, exists := ct.byName[f.Name]; exists {
			return nil, errors.InvalidData(errors.PhaseAssemble, f.Name, "duplicate field name")
		}
		acc := &Accessor{f: f, ct: ct}
		ct.accessors = append(ct.accessors, acc)
		ct.byName[f.Name] = acc

		// Defaults route through the field's own write path, so the
		// signed/unsigned bounds checks apply to them too.
		bits, err := f.Write(f.Default)
		if err != nil && (bounds || !isBoundsViolation(err)) {
			return nil, errors.New(errors.PhaseAssemble, errors.KindBoundsViolation).
				Field(f.Name).
				DeclType(f.DeclType).
				Value(f.Default).
				Detail("default value out of range").
				Cause(err).
				Build()
		}
		raw = raw.Or(bits.Shl(f.Offset))
	}
	ct.defaultRaw = raw

	return ct, nil
}
