package types

// Class buckets a declared field type for conversion synthesis.
type Class uint8

const (
	ClassBool Class = iota
	ClassUInt
	ClassSInt
	ClassOpaque
)

var classNames = [...]string{
	ClassBool:   "bool",
	ClassUInt:   "uint",
	ClassSInt:   "sint",
	ClassOpaque: "opaque",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

var fixedWidths = map[string]struct {
	class Class
	bits  uint32
}{
	"bool": {ClassBool, 1},

	"u8":   {ClassUInt, 8},
	"u16":  {ClassUInt, 16},
	"u32":  {ClassUInt, 32},
	"u64":  {ClassUInt, 64},
	"u128": {ClassUInt, 128},

	"s8":   {ClassSInt, 8},
	"s16":  {ClassSInt, 16},
	"s32":  {ClassSInt, 32},
	"s64":  {ClassSInt, 64},
	"s128": {ClassSInt, 128},

	// Go spellings
	"byte":   {ClassUInt, 8},
	"uint8":  {ClassUInt, 8},
	"uint16": {ClassUInt, 16},
	"uint32": {ClassUInt, 32},
	"uint64": {ClassUInt, 64},
	"int8":   {ClassSInt, 8},
	"int16":  {ClassSInt, 16},
	"int32":  {ClassSInt, 32},
	"int64":  {ClassSInt, 64},

	// Rust spellings, common in register definitions ported from C/Rust
	"i8":   {ClassSInt, 8},
	"i16":  {ClassSInt, 16},
	"i32":  {ClassSInt, 32},
	"i64":  {ClassSInt, 64},
	"i128": {ClassSInt, 128},
}

var platformSized = map[string]bool{
	"int":     true,
	"uint":    true,
	"uintptr": true,
	"usize":   true,
	"isize":   true,
}

// Classify buckets a declared type reference and returns its natural bit
// width. Pure; there is no error path. Platform-sized integers classify
// as unsigned with width 0: the width is unknown and must be supplied
// explicitly (0 is a sentinel, never a legal field width). Every
// unrecognized name is an opaque custom type, also width 0.
func Classify(typeName string) (Class, uint32) {
	if fw, ok := fixedWidths[typeName]; ok {
		return fw.class, fw.bits
	}
	if platformSized[typeName] {
		return ClassUInt, 0
	}
	return ClassOpaque, 0
}
