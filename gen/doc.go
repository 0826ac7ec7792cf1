// Package gen renders a compiled bitfield type as Go source.
//
// The generated type is a defined type over the storage's native unsigned
// integer, with constant-folded accessors mirroring the compiled
// contracts: a getter, a wither and a setter per visible field, layout
// constants, raw conversions and a constructor seeded with the compiled
// default word. Generated write paths mask silently; callers that need
// checked writes use the runtime compiler instead.
//
// Custom-typed fields are generated against their hook names: the emitted
// code calls the named functions with uint64 raw values, and the package
// the source lands in must provide them.
package gen
