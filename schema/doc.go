// Package schema holds the surface model the compiler consumes: the
// storage specification, the per-field descriptors, and the whole-type
// options.
//
// Descriptors are plain values. They are validated and normalized once at
// ingestion (in particular, the "_" name prefix marking padding fields is
// translated to the Padding flag here, so no string sentinel checks leak
// into the engine) and never mutated afterwards.
//
// Schemas can be built in code:
//
//	bf := schema.New("Flags", schema.MustStorage("u8"),
//	    schema.Field{Name: "kind", Type: "u8", Bits: 4},
//	    schema.Field{Name: "_reserved", Type: "u8", Bits: 4},
//	)
//
// or loaded from TOML files:
//
//	[types.Flags]
//	storage = "u8"
//	order = "lsb"
//
//	[[types.Flags.fields]]
//	name = "kind"
//	type = "u8"
//	bits = 4
//
// Custom field types reference their conversion hooks by name; the names
// are resolved against a caller-supplied Hooks registry at load time.
package schema
