package gen

import (
	"fmt"
	"go/format"
	"strings"

	"github.com/wippyai/bitfield/compiler"
	"github.com/wippyai/bitfield/errors"
)

// Generate renders ct as a Go source file in package pkg. Storage wider
// than 64 bits has no native integer type and is not generatable; such
// types stay on the runtime API.
func Generate(pkg string, ct *compiler.Compiled) ([]byte, error) {
	total := ct.TotalBits()
	if total > 64 {
		return nil, errors.Unsupported(errors.PhaseGenerate,
			fmt.Sprintf("cannot generate %s: %d-bit storage has no native Go integer type", ct.Name(), total))
	}

	g := &generator{ct: ct, typ: ct.Name(), storage: nativeUint(total)}

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by bitfield-gen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	if ct.Options().Debug {
		b.WriteString("import \"fmt\"\n\n")
	}

	fmt.Fprintf(&b, "// %s is a bitfield over %s.\n", g.typ, g.storage)
	fmt.Fprintf(&b, "type %s %s\n\n", g.typ, g.storage)

	fmt.Fprintf(&b, "// New%s returns a %s with every field at its default.\n", g.typ, g.typ)
	fmt.Fprintf(&b, "func New%s() %s { return %s(%#x) }\n\n", g.typ, g.typ, g.typ, ct.New().Uint64())

	for _, f := range ct.Fields() {
		if f.Padding {
			continue
		}
		if err := g.field(&b, f); err != nil {
			return nil, err
		}
	}

	g.rawConversions(&b)
	if ct.Options().Debug {
		g.stringer(&b)
	}

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, errors.New(errors.PhaseGenerate, errors.KindInvalidData).
			Detail("generated source does not parse").
			Cause(err).
			Build()
	}
	return src, nil
}

type generator struct {
	ct      *compiler.Compiled
	typ     string
	storage string
}

func (g *generator) field(b *strings.Builder, f *compiler.ResolvedField) error {
	valType, err := valueType(f)
	if err != nil {
		return err
	}

	name := goName(f.Name, f.Public)
	mask := maskLiteral(f.Width)
	off := f.Offset

	fmt.Fprintf(b, "const (\n")
	fmt.Fprintf(b, "\t%s%sBits = %d\n", g.typ, goName(f.Name, true), f.Width)
	fmt.Fprintf(b, "\t%s%sOffset = %d\n", g.typ, goName(f.Name, true), off)
	fmt.Fprintf(b, ")\n\n")

	if f.Doc != "" {
		fmt.Fprintf(b, "// %s\n", f.Doc)
	}
	switch f.Class {
	case compiler.ClassBool:
		fmt.Fprintf(b, "func (v %s) %s() bool { return uint64(v)>>%d&1 != 0 }\n\n", g.typ, name, off)
	case compiler.ClassSInt:
		up := 64 - off - f.Width
		down := 64 - f.Width
		fmt.Fprintf(b, "func (v %s) %s() %s { return %s(int64(uint64(v)<<%d) >> %d) }\n\n",
			g.typ, name, valType, valType, up, down)
	case compiler.ClassOpaque:
		fmt.Fprintf(b, "func (v %s) %s() %s { return %s(uint64(v) >> %d & %s) }\n\n",
			g.typ, name, valType, f.FromName, off, mask)
	default:
		fmt.Fprintf(b, "func (v %s) %s() %s { return %s(uint64(v) >> %d & %s) }\n\n",
			g.typ, name, valType, valType, off, mask)
	}

	wither := "With" + goName(f.Name, true)
	setter := "Set" + goName(f.Name, true)
	if !f.Public {
		wither = "with" + goName(f.Name, true)
		setter = "set" + goName(f.Name, true)
	}

	fmt.Fprintf(b, "// %s returns v with the %s field set to x. Out-of-range\n", wither, f.Name)
	fmt.Fprintf(b, "// values are truncated to %d bits.\n", f.Width)
	switch f.Class {
	case compiler.ClassBool:
		fmt.Fprintf(b, "func (v %s) %s(x bool) %s {\n", g.typ, wither, g.typ)
		fmt.Fprintf(b, "\tvar b uint64\n\tif x {\n\t\tb = 1\n\t}\n")
		fmt.Fprintf(b, "\treturn v&^(1<<%d) | %s(b<<%d)\n}\n\n", off, g.typ, off)
	case compiler.ClassOpaque:
		fmt.Fprintf(b, "func (v %s) %s(x %s) %s {\n", g.typ, wither, valType, g.typ)
		fmt.Fprintf(b, "\treturn v&^(%s<<%d) | %s((%s(x)&%s)<<%d)\n}\n\n",
			mask, off, g.typ, f.IntoName, mask, off)
	default:
		fmt.Fprintf(b, "func (v %s) %s(x %s) %s {\n", g.typ, wither, valType, g.typ)
		fmt.Fprintf(b, "\treturn v&^(%s<<%d) | %s((uint64(x)&%s)<<%d)\n}\n\n",
			mask, off, g.typ, mask, off)
	}

	fmt.Fprintf(b, "func (v *%s) %s(x %s) { *v = v.%s(x) }\n\n", g.typ, setter, valType, wither)
	return nil
}

func (g *generator) rawConversions(b *strings.Builder) {
	fmt.Fprintf(b, "// Raw returns the underlying storage word.\n")
	fmt.Fprintf(b, "func (v %s) Raw() %s { return %s(v) }\n\n", g.typ, g.storage, g.storage)
	fmt.Fprintf(b, "// %sFromRaw reinterprets a storage word. No validation is applied.\n", g.typ)
	fmt.Fprintf(b, "func %sFromRaw(raw %s) %s { return %s(raw) }\n\n", g.typ, g.storage, g.typ, g.typ)
}

func (g *generator) stringer(b *strings.Builder) {
	var verbs, args []string
	for _, a := range g.ct.Accessors() {
		verbs = append(verbs, fmt.Sprintf("%s: %%v", a.Name()))
		args = append(args, fmt.Sprintf("v.%s()", goName(a.Name(), a.Public())))
	}
	fmt.Fprintf(b, "func (v %s) String() string {\n", g.typ)
	fmt.Fprintf(b, "\treturn fmt.Sprintf(%q, %s)\n}\n",
		g.typ+"{"+strings.Join(verbs, ", ")+"}", strings.Join(args, ", "))
}

func nativeUint(bits uint32) string {
	switch bits {
	case 8:
		return "uint8"
	case 16:
		return "uint16"
	case 32:
		return "uint32"
	default:
		return "uint64"
	}
}

// valueType maps a field to the Go type its accessors traffic in. Signed
// and unsigned fields use the smallest native integer holding the
// declared type's natural width; custom types use the declared name.
func valueType(f *compiler.ResolvedField) (string, error) {
	switch f.Class {
	case compiler.ClassBool:
		return "bool", nil
	case compiler.ClassOpaque:
		if f.IntoName == "" || f.FromName == "" {
			return "", errors.New(errors.PhaseGenerate, errors.KindMissingConversion).
				Field(f.Name).
				DeclType(f.DeclType).
				Detail("custom types need named conversion hooks for source generation").
				Build()
		}
		return f.DeclType, nil
	case compiler.ClassSInt:
		return "int" + fmt.Sprint(naturalBits(f)), nil
	default:
		switch f.DeclType {
		case "int", "uint", "usize", "isize":
			return "uint", nil
		case "uintptr":
			return "uintptr", nil
		}
		return "uint" + fmt.Sprint(naturalBits(f)), nil
	}
}

// naturalBits rounds the field width up to a native integer width so the
// accessor type always holds the field's full range.
func naturalBits(f *compiler.ResolvedField) uint32 {
	for _, n := range []uint32{8, 16, 32, 64} {
		if f.Width <= n {
			return n
		}
	}
	return 64
}

func maskLiteral(width uint32) string {
	if width >= 64 {
		return fmt.Sprintf("%#x", ^uint64(0))
	}
	return fmt.Sprintf("%#x", uint64(1)<<width-1)
}

// goName converts a snake_case field name to a Go identifier.
func goName(s string, exported bool) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 && !exported {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
