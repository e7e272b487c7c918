package emu

import "github.com/alele/mipslite/insts"

// ALU performs the fixed-width 32-bit arithmetic and logical operations.
// All arithmetic wraps on overflow, matching signed two's-complement
// hardware behaviour; results are never promoted to a wider type.
type ALU struct{}

// NewALU constructs an ALU. It carries no state of its own.
func NewALU() *ALU { return &ALU{} }

// Execute computes the result of an arithmetic or logical instruction
// given its two operands (already resolved by the caller, whether from
// the register file directly or via forwarding).
func (a *ALU) Execute(op insts.Op, operandA, operandB int32) int32 {
	switch op {
	case insts.ADD, insts.ADDI:
		return operandA + operandB
	case insts.SUB, insts.SUBI:
		return operandA - operandB
	case insts.MUL, insts.MULI:
		return operandA * operandB
	case insts.OR, insts.ORI:
		return operandA | operandB
	case insts.AND, insts.ANDI:
		return operandA & operandB
	case insts.XOR, insts.XORI:
		return operandA ^ operandB
	default:
		return 0
	}
}

// EffectiveAddress computes the memory address for LDW/STW: base register
// plus sign-extended immediate.
func (a *ALU) EffectiveAddress(base int32, immExt int32) uint32 {
	return uint32(base + immExt)
}
