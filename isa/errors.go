package isa

import "fmt"

// DecodeErrorKind distinguishes the two ways a raw instruction word can
// fail to decode.
type DecodeErrorKind int

const (
	// InvalidOpcode means the low 7 bits of the word matched no known
	// instruction format.
	InvalidOpcode DecodeErrorKind = iota
	// InvalidFunction means the opcode was recognized but the funct3/
	// funct7 (or compressed funct3/funct4) combination was not.
	InvalidFunction
)

// DecodeError reports why Decode could not produce an Instruction.
type DecodeError struct {
	Kind DecodeErrorKind
	// Opcode is set when Kind == InvalidOpcode.
	Opcode uint8
	// QA and QB are the two sub-fields (funct3/funct7, or their
	// compressed-format equivalents) that failed to match, set when
	// Kind == InvalidFunction.
	QA, QB uint8
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case InvalidOpcode:
		return fmt.Sprintf("isa: invalid opcode 0x%02x", e.Opcode)
	case InvalidFunction:
		return fmt.Sprintf("isa: invalid function (0x%x, 0x%x)", e.QA, e.QB)
	default:
		return "isa: decode error"
	}
}
