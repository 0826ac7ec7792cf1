package schema

import (
	stderrors "errors"
	"io"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/wippyai/bitfield/errors"
)

// Hooks is the registry resolving hook names in schema files to their
// conversion functions.
type Hooks struct {
	into map[string]IntoFunc
	from map[string]FromFunc
}

// NewHooks returns an empty registry.
func NewHooks() *Hooks {
	return &Hooks{
		into: make(map[string]IntoFunc),
		from: make(map[string]FromFunc),
	}
}

// Into registers a write hook under name. Returns the registry for
// chaining.
func (h *Hooks) Into(name string, fn IntoFunc) *Hooks {
	h.into[name] = fn
	return h
}

// From registers a read hook under name. Returns the registry for
// chaining.
func (h *Hooks) From(name string, fn FromFunc) *Hooks {
	h.from[name] = fn
	return h
}

type tomlField struct {
	Name    string `toml:"name"`
	Doc     string `toml:"doc"`
	Type    string `toml:"type"`
	Bits    int64  `toml:"bits"`
	Into    string `toml:"into"`
	From    string `toml:"from"`
	Default any    `toml:"default"`
	Public  bool   `toml:"public"`
}

type tomlType struct {
	Storage string      `toml:"storage"`
	Order   string      `toml:"order"`
	Debug   *bool       `toml:"debug"`
	Default *bool       `toml:"default"`
	Fields  []tomlField `toml:"fields"`
}

type tomlFile struct {
	Types map[string]tomlType `toml:"types"`
}

// Load decodes bitfield definitions from TOML. Unknown keys are rejected
// as configuration errors. Hook names are resolved against hooks when the
// registry is non-nil; unresolved names are kept so that source
// generation (which only needs the names) still works, and the compiler
// reports a missing conversion if the functions are actually required.
//
// Definitions are returned sorted by type name.
func Load(r io.Reader, hooks *Hooks) ([]Bitfield, error) {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()

	var file tomlFile
	if err := dec.Decode(&file); err != nil {
		var strict *toml.StrictMissingError
		if stderrors.As(err, &strict) {
			return nil, errors.New(errors.PhaseParse, errors.KindUnknownOption).
				Detail("unknown keys in schema:\n%s", strict.String()).
				Cause(err).
				Build()
		}
		return nil, errors.ParseFailed("schema", err)
	}

	names := make([]string, 0, len(file.Types))
	for name := range file.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]Bitfield, 0, len(names))
	for _, name := range names {
		def, err := file.Types[name].toBitfield(name, hooks)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// LoadFile is Load on the named file.
func LoadFile(path string, hooks *Hooks) ([]Bitfield, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ParseFailed(path, err)
	}
	defer f.Close()
	return Load(f, hooks)
}

func (t tomlType) toBitfield(name string, hooks *Hooks) (Bitfield, error) {
	storage, err := ParseStorage(t.Storage)
	if err != nil {
		return Bitfield{}, err
	}
	if t.Order != "" {
		order, err := ParseOrder(t.Order)
		if err != nil {
			return Bitfield{}, err
		}
		storage = storage.WithOrder(order)
	}

	opts := DefaultOptions()
	if t.Debug != nil {
		opts.Debug = *t.Debug
	}
	if t.Default != nil {
		opts.Default = *t.Default
	}

	fields := make([]Field, 0, len(t.Fields))
	for _, tf := range t.Fields {
		f, err := tf.toField(hooks)
		if err != nil {
			return Bitfield{}, err
		}
		fields = append(fields, f)
	}

	def := New(name, storage, fields...)
	def.Options = opts
	return def, nil
}

func (tf tomlField) toField(hooks *Hooks) (Field, error) {
	if tf.Name == "" {
		return Field{}, errors.InvalidData(errors.PhaseParse, "", "field without a name")
	}
	if tf.Type == "" {
		return Field{}, errors.InvalidData(errors.PhaseParse, tf.Name, "field without a type")
	}
	if tf.Bits < 0 {
		return Field{}, errors.InvalidData(errors.PhaseParse, tf.Name, "negative bit width")
	}
	// Bound before the uint32 conversion below, which would otherwise
	// wrap absurd widths into small valid-looking ones.
	if tf.Bits > 128 {
		return Field{}, errors.InvalidData(errors.PhaseParse, tf.Name, "bit width exceeds the widest storage (128)")
	}

	f := Field{
		Name:     tf.Name,
		Doc:      tf.Doc,
		Type:     tf.Type,
		Bits:     uint32(tf.Bits),
		IntoName: tf.Into,
		FromName: tf.From,
		Default:  tf.Default,
		Public:   tf.Public,
	}
	if hooks != nil {
		if fn, ok := hooks.into[tf.Into]; ok {
			f.Into = fn
		}
		if fn, ok := hooks.from[tf.From]; ok {
			f.From = fn
		}
	}
	return f, nil
}
