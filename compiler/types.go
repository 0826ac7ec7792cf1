package compiler

import (
	"github.com/wippyai/bitfield/compiler/internal/types"
)

type Class = types.Class

const (
	ClassBool   = types.ClassBool
	ClassUInt   = types.ClassUInt
	ClassSInt   = types.ClassSInt
	ClassOpaque = types.ClassOpaque
)

type ResolvedField = types.Resolved
type ReadFunc = types.ReadFunc
type WriteFunc = types.WriteFunc

// Classify buckets a declared type reference into its class and natural
// bit width. Width 0 means the width is unknown and must be supplied
// explicitly.
func Classify(typeName string) (Class, uint32) {
	return types.Classify(typeName)
}
