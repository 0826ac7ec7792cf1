package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/bitfield/compiler"
	"github.com/wippyai/bitfield/gen"
	"github.com/wippyai/bitfield/schema"
)

func main() {
	var (
		schemaFile  = flag.String("schema", "", "Path to TOML schema file")
		typeName    = flag.String("type", "", "Type to operate on (default: all)")
		list        = flag.Bool("list", false, "Print resolved layouts and exit")
		generate    = flag.Bool("gen", false, "Generate Go source")
		pkg         = flag.String("pkg", "main", "Package name for generated source")
		out         = flag.String("o", "", "Output file for generated source (default: stdout)")
		unchecked   = flag.Bool("unchecked", false, "Compile without bounds checks")
		verbose     = flag.Bool("v", false, "Verbose compiler logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *schemaFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: bitfield -schema <file.toml> [-type name] -list")
		fmt.Fprintln(os.Stderr, "       bitfield -schema <file.toml> [-type name] -gen [-pkg name] [-o file.go]")
		fmt.Fprintln(os.Stderr, "       bitfield -schema <file.toml> -type <name> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		compiler.SetLogger(logger)
	}

	if err := run(*schemaFile, *typeName, *pkg, *out, *list, *generate, *unchecked, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(schemaFile, typeName, pkg, out string, list, generate, unchecked, interactive bool) error {
	defs, err := schema.LoadFile(schemaFile, nil)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		return fmt.Errorf("%s: no types defined", schemaFile)
	}

	var opts []compiler.Option
	if unchecked {
		opts = append(opts, compiler.WithoutBoundsChecks())
	}
	c := compiler.NewCompiler(opts...)

	compiled := make([]*compiler.Compiled, 0, len(defs))
	for _, def := range defs {
		if typeName != "" && def.Name != typeName {
			continue
		}
		ct, err := c.Compile(def)
		if err != nil {
			return err
		}
		compiled = append(compiled, ct)
	}
	if len(compiled) == 0 {
		return fmt.Errorf("%s: no type named %q", schemaFile, typeName)
	}

	if interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(compiled[0])
	}

	if generate {
		if len(compiled) > 1 {
			return fmt.Errorf("%s defines %d types; pick one with -type", schemaFile, len(compiled))
		}
		return generateSource(compiled[0], pkg, out)
	}

	// List is also the default action.
	for i, ct := range compiled {
		if i > 0 {
			fmt.Println()
		}
		printLayout(ct, list)
	}
	return nil
}

func printLayout(ct *compiler.Compiled, detailed bool) {
	st := ct.Storage()
	fmt.Printf("%s: %s (%d bits, %s first)\n", ct.Name(), st.Type, st.Bits, st.Order)

	for _, f := range ct.Fields() {
		span := fmt.Sprintf("[%d:%d]", f.Offset+f.Width-1, f.Offset)
		if f.Width == 1 {
			span = fmt.Sprintf("[%d]", f.Offset)
		}
		if f.Padding {
			fmt.Printf("  %-8s %-16s %d bits (reserved)\n", span, f.Name, f.Width)
			continue
		}
		fmt.Printf("  %-8s %-16s %s, %d bits\n", span, f.Name, f.DeclType, f.Width)
	}

	if detailed {
		fmt.Printf("  default: %s\n", ct.New().Raw())
	}
}

func generateSource(ct *compiler.Compiled, pkg, out string) error {
	src, err := gen.Generate(pkg, ct)
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Print(string(src))
		return nil
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}
