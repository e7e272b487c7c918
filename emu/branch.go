package emu

import "github.com/alele/mipslite/insts"

// BranchUnit resolves control-transfer instructions. Branch targets are
// computed from the PC at which the instruction was fetched, not the PC
// of whichever stage currently holds it.
type BranchUnit struct{}

// NewBranchUnit constructs a BranchUnit.
func NewBranchUnit() *BranchUnit { return &BranchUnit{} }

// Resolve evaluates a control-transfer instruction and returns whether it
// is taken and the target address it resolves to (only meaningful when
// taken is true). jrTarget is the raw register value for JR.
func (b *BranchUnit) Resolve(op insts.Op, a, bVal int32, pcAtFetch uint32, immExt int32, jrTarget int32) (taken bool, target uint32) {
	switch op {
	case insts.BZ:
		if a == 0 {
			return true, pcAtFetch + uint32(4*immExt)
		}
		return false, 0
	case insts.BEQ:
		if a == bVal {
			return true, pcAtFetch + uint32(4*immExt)
		}
		return false, 0
	case insts.JR:
		return true, uint32(jrTarget)
	default:
		return false, 0
	}
}
