// Package compiler turns a schema definition into a compiled bitfield
// type: a resolved layout plus the accessor contract for every visible
// field.
//
// # Pipeline
//
// Compilation is a one-way pipeline over the declared field list:
//
//  1. Classify    - bucket each declared type (bool, uint, sint, opaque)
//     and find its natural width
//  2. Synthesize  - derive the read/write conversion contract, effective
//     width, and default for each field
//  3. Resolve     - assign non-overlapping offsets in declaration order
//     under the storage's bit-order policy
//  4. Assemble    - check that widths exactly cover the storage, compose
//     the default word, and emit the accessor set
//
// Every error is detected here, at construction time; accessors never
// fail except for the write-path bounds check. The first offending field
// aborts compilation and no partial type is ever returned.
//
// # Key Types
//
//	Compiler  - runs the pipeline
//	Compiled  - the assembled whole-type contract
//	Accessor  - one field's read/update contract and layout constants
//	Packed    - a storage word paired with its compiled type
//
// # Usage
//
//	ct, err := compiler.NewCompiler().Compile(def)
//	if err != nil {
//	    return err
//	}
//	v := ct.New()                  // defaults applied
//	v.Set("kind", uint64(15))      // in-place update
//	w, _ := v.With("present", true) // functional update
//	_ = w.Raw()                    // raw storage word
//
// # Bounds checking
//
// Writes always mask the value to the field width. With bounds checks
// enabled (the default) a value that does not fit the field's width and
// signedness makes With/Set return a bounds_violation error and leaves
// the packed value untouched. Compiling with WithoutBoundsChecks
// reproduces release-mode behavior: out-of-range values are silently
// truncated.
package compiler
