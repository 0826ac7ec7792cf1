// Package bitfield provides a layout compiler for bit-packed types.
//
// Given a declarative list of named fields with bit widths, the compiler
// assigns every field a non-overlapping bit range inside a fixed-width
// unsigned storage word (8 to 128 bits) and synthesizes the accessor
// contracts for each field: a pure read, a pure functional update, and an
// in-place update, plus the field's width and offset constants.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	bitfield/        Root package with the raw 128-bit storage word (Bits)
//	├── schema/      Surface model: storage spec, field descriptors, options
//	├── compiler/    Layout resolution and accessor contract synthesis
//	├── gen/         Go source generation from compiled layouts
//	├── errors/      Structured error types for diagnostics
//	└── cmd/         Command line layout inspector and generator
//
// # Quick Start
//
// Describe a type and compile it:
//
//	bf := schema.New("MyByte", schema.MustStorage("u8"),
//	    schema.Field{Name: "kind", Type: "u8", Bits: 4},
//	    schema.Field{Name: "system", Type: "bool"},
//	    schema.Field{Name: "level", Type: "u8", Bits: 2},
//	    schema.Field{Name: "present", Type: "bool"},
//	)
//
//	ct, err := compiler.NewCompiler().Compile(bf)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	v := ct.New()
//	v.Set("kind", uint64(15))
//	v.Set("present", true)
//	fmt.Println(v) // MyByte{kind: 15, system: false, level: 0, present: true}
//
// # Data Flow
//
// Compilation is a one-way pipeline; no stage mutates its input:
//
//	descriptors → classified fields → resolved layout → compiled contract
//
// All validation happens at compile time. A type that fails validation is
// never produced in partial form; the first offending field aborts the
// whole compilation.
package bitfield
