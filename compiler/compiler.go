package compiler

import (
	"go.uber.org/zap"

	"github.com/wippyai/bitfield/compiler/internal/layout"
	"github.com/wippyai/bitfield/compiler/internal/types"
	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/schema"
)

// Compiler runs the compile pipeline. The zero Compiler is not usable;
// construct one with NewCompiler.
type Compiler struct {
	boundsChecks bool
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithoutBoundsChecks makes write paths silently mask and truncate
// out-of-range values instead of reporting a bounds violation. This is
// the release-mode policy; the default is to check.
func WithoutBoundsChecks() Option {
	return func(c *Compiler) {
		c.boundsChecks = false
	}
}

// NewCompiler returns a compiler with bounds checks enabled.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{boundsChecks: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var validStorage = map[uint32]bool{8: true, 16: true, 32: true, 64: true, 128: true}

// Compile resolves def into a usable bitfield type. It fails fast: the
// first offending field aborts compilation, and a definition whose
// fields do not exactly cover the storage never becomes a type.
func (c *Compiler) Compile(def schema.Bitfield) (*Compiled, error) {
	if !validStorage[def.Storage.Bits] {
		return nil, errors.UnsupportedStorage(def.Storage.Type)
	}

	resolver := layout.NewResolver(def.Storage.Bits, def.Storage.Order == schema.OrderMsb)
	fields := make([]*types.Resolved, 0, len(def.Fields))

	for _, f := range def.Fields {
		r, err := synthesize(f)
		if err != nil {
			return nil, err
		}

		start := resolver.Cursor()
		off, ok := resolver.Next(r.Width)
		if !ok {
			if !r.Padding {
				// Reported against the declaration-order position,
				// before the Msb mirror.
				return nil, errors.LayoutOverflow(r.Name, start, r.Width, def.Storage.Bits)
			}
			// Overrunning padding is accounted by the assembler's
			// coverage check, which names the total excess.
			off = 0
		}
		r.Offset = off

		logger().Debug("resolved field",
			zap.String("type", def.Name),
			zap.String("field", r.Name),
			zap.Stringer("class", r.Class),
			zap.Uint32("offset", r.Offset),
			zap.Uint32("width", r.Width),
		)

		fields = append(fields, r)
	}

	ct, err := assemble(def, fields, resolver.Cursor(), c.boundsChecks)
	if err != nil {
		return nil, err
	}

	logger().Debug("compiled bitfield",
		zap.String("type", def.Name),
		zap.String("storage", def.Storage.Type),
		zap.Stringer("order", def.Storage.Order),
		zap.Int("fields", len(fields)),
	)
	return ct, nil
}
