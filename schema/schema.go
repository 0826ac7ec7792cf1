package schema

import (
	"strings"

	"github.com/wippyai/bitfield"
	"github.com/wippyai/bitfield/errors"
)

// Order is the bit-order policy: whether declaration order fills the
// storage from bit 0 upward (Lsb) or from the top bit downward (Msb).
// Either way, declaration order alone decides relative placement; the
// policy only mirrors the whole layout.
type Order uint8

const (
	OrderLsb Order = iota
	OrderMsb
)

var orderNames = [...]string{
	OrderLsb: "lsb",
	OrderMsb: "msb",
}

func (o Order) String() string {
	if int(o) < len(orderNames) {
		return orderNames[o]
	}
	return "unknown"
}

// ParseOrder parses a bit-order name, case-insensitively.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "lsb":
		return OrderLsb, nil
	case "msb":
		return OrderMsb, nil
	default:
		return OrderLsb, errors.UnknownOption("order", s)
	}
}

// Storage describes the unsigned integer backing a bitfield type.
// Immutable once constructed; only fixed-width unsigned integers of
// 8, 16, 32, 64 or 128 bits are accepted.
type Storage struct {
	Type  string
	Bits  uint32
	Order Order
}

var storageBits = map[string]uint32{
	"u8":   8,
	"u16":  16,
	"u32":  32,
	"u64":  64,
	"u128": 128,

	// Go spellings
	"uint8":  8,
	"uint16": 16,
	"uint32": 32,
	"uint64": 64,
	"byte":   8,
}

// ParseStorage resolves a storage type name. Signed, platform-sized, and
// non-integer types are rejected: the storage width must be statically
// known.
func ParseStorage(typeName string) (Storage, error) {
	bits, ok := storageBits[typeName]
	if !ok {
		return Storage{}, errors.UnsupportedStorage(typeName)
	}
	return Storage{Type: typeName, Bits: bits, Order: OrderLsb}, nil
}

// MustStorage is ParseStorage that panics on error, for statically known
// storage names.
func MustStorage(typeName string) Storage {
	s, err := ParseStorage(typeName)
	if err != nil {
		panic(err)
	}
	return s
}

// WithOrder returns a copy of s using the given bit order.
func (s Storage) WithOrder(o Order) Storage {
	s.Order = o
	return s
}

// IntoFunc converts a field value into its raw bit pattern. The result is
// bounds-checked against the field's width by the write path.
type IntoFunc func(value any) bitfield.Bits

// FromFunc converts a field's masked raw bits back into its value.
type FromFunc func(raw bitfield.Bits) any

// Field describes one declared field before layout resolution.
//
// Type is the declared type reference ("bool", "u8", "s16", or any custom
// type name). Bits is the explicit width override; 0 means "use the
// type's natural width". Into/From are the conversion hooks for custom
// types; IntoName/FromName carry the hook symbol names for source
// generation. Default overrides the type class default. Fields whose name
// starts with "_" are padding: they reserve bits but get no accessors.
type Field struct {
	Name     string
	Doc      string
	Type     string
	Bits     uint32
	Into     IntoFunc
	From     FromFunc
	IntoName string
	FromName string
	Default  any
	Public   bool
	Padding  bool
}

// Options toggles the optional parts of the assembled contract.
type Options struct {
	// Debug enables the structural formatting contract listing every
	// visible field.
	Debug bool
	// Default enables the default-value contract (equal to the zero-state
	// constructor).
	Default bool
}

// DefaultOptions returns the options as they default: everything on.
func DefaultOptions() Options {
	return Options{Debug: true, Default: true}
}

// Bitfield is one whole-type definition: a storage spec plus the ordered
// field list.
type Bitfield struct {
	Name    string
	Storage Storage
	Options Options
	Fields  []Field
}

// New builds a normalized definition with default options. Field names
// starting with "_" are marked as padding here, once; the engine only
// ever consults the flag.
func New(name string, storage Storage, fields ...Field) Bitfield {
	b := Bitfield{
		Name:    name,
		Storage: storage,
		Options: DefaultOptions(),
		Fields:  fields,
	}
	normalize(b.Fields)
	return b
}

func normalize(fields []Field) {
	for i := range fields {
		if strings.HasPrefix(fields[i].Name, "_") {
			fields[i].Padding = true
		}
	}
}
