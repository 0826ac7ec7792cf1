package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseClassify,
				Kind:     KindWidthOverflow,
				Field:    "level",
				DeclType: "u8",
				Detail:   "9 bits overflow the 8-bit field type",
			},
			contains: []string{"[classify]", "width_overflow", "level", "u8", "9 bits"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseAssemble,
				Kind:  KindIncompleteLayout,
			},
			contains: []string{"[assemble]", "incomplete_layout"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseParse,
				Kind:   KindInvalidData,
				Detail: "parse schema.toml",
				Cause:  errors.New("unexpected token"),
			},
			contains: []string{"[parse]", "invalid_data", "parse schema.toml", "caused by", "unexpected token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Phase: PhaseParse, Kind: KindInvalidData, Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestError_Is(t *testing.T) {
	err := ZeroWidth("custom", "Direction")

	if !errors.Is(err, &Error{Phase: PhaseClassify, Kind: KindZeroWidth}) {
		t.Error("should match on phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseClassify, Kind: KindWidthOverflow}) {
		t.Error("should not match a different kind")
	}
	if errors.Is(err, errors.New("other")) {
		t.Error("should not match a plain error")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseAccess, KindBoundsViolation).
		Field("speed").
		DeclType("s8").
		Value(int64(300)).
		Detail("value %d does not fit in %d bits", 300, 5).
		Build()

	if err.Field != "speed" || err.DeclType != "s8" {
		t.Errorf("builder lost context: %+v", err)
	}
	if err.Value != int64(300) {
		t.Errorf("Value = %v, want 300", err.Value)
	}
	if !strings.Contains(err.Detail, "300") || !strings.Contains(err.Detail, "5 bits") {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		phase Phase
		kind  Kind
	}{
		{"unsupported storage", UnsupportedStorage("usize"), PhaseParse, KindUnsupportedStorage},
		{"zero width", ZeroWidth("f", "Custom"), PhaseClassify, KindZeroWidth},
		{"width overflow", WidthOverflow("f", "u8", 9, 8), PhaseClassify, KindWidthOverflow},
		{"layout overflow", LayoutOverflow("f", 6, 4, 8), PhaseResolve, KindWidthOverflow},
		{"missing conversion", MissingConversion("f", "Custom"), PhaseClassify, KindMissingConversion},
		{"hooks on padding", HooksOnPadding("_pad"), PhaseClassify, KindHooksOnPadding},
		{"incomplete", IncompleteLayout(6, 8), PhaseAssemble, KindIncompleteLayout},
		{"exceeds", ExceedsStorage(10, 8), PhaseAssemble, KindExceedsStorage},
		{"unknown option", UnknownOption("order", "middle"), PhaseParse, KindUnknownOption},
		{"bounds", BoundsViolation("f", 16, 5), PhaseAccess, KindBoundsViolation},
		{"type mismatch", TypeMismatch("f", "bool", 3), PhaseAccess, KindTypeMismatch},
		{"unknown field", UnknownField("MyByte", "nope"), PhaseAccess, KindUnknownField},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Phase != tc.phase || tc.err.Kind != tc.kind {
				t.Errorf("got [%s] %s, want [%s] %s", tc.err.Phase, tc.err.Kind, tc.phase, tc.kind)
			}
			if tc.err.Error() == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestIncompleteLayoutSuggestsPadding(t *testing.T) {
	err := IncompleteLayout(27, 32)
	if !strings.Contains(err.Detail, "5-bit padding") {
		t.Errorf("detail should suggest the missing padding width: %q", err.Detail)
	}
}
