// Package layout assigns bit offsets to fields in declaration order.
//
// The resolver keeps a running cursor from bit 0. Under Lsb order the
// cursor is the offset; under Msb order the whole placement is mirrored
// (offset = total - cursor - width) without reordering fields relative to
// each other. Declaration order is the single source of truth for
// placement.
package layout

// Resolver walks a field list and hands out non-overlapping offsets.
type Resolver struct {
	total  uint32
	cursor uint32
	msb    bool
}

// NewResolver returns a resolver for a storage of totalBits, mirroring
// placements when msbFirst is set.
func NewResolver(totalBits uint32, msbFirst bool) *Resolver {
	return &Resolver{total: totalBits, msb: msbFirst}
}

// Next reserves width bits and returns their final offset. ok is false
// when the range runs past the storage; the cursor still advances so the
// total claimed width stays accountable for the assembler's coverage
// check, and the returned offset is meaningless.
func (r *Resolver) Next(width uint32) (offset uint32, ok bool) {
	start := r.cursor
	r.cursor += width

	if start+width > r.total {
		return 0, false
	}
	if r.msb {
		return r.total - start - width, true
	}
	return start, true
}

// Cursor returns the total width claimed so far, in declaration order
// (pre-mirror positions).
func (r *Resolver) Cursor() uint32 {
	return r.cursor
}

// Total returns the storage width.
func (r *Resolver) Total() uint32 {
	return r.total
}
