package block

// Entity is implemented by the handful of block kinds whose state does not
// fit in their numeric id: signs, a comparator's memory cell, and
// inventory-bearing containers.
type Entity interface {
	blockEntity()
}

// SignRow is a single line of sign text.
type SignRow = string

// Sign holds the four-line text on both faces of a sign.
type Sign struct {
	FrontRows [4]SignRow
	BackRows  [4]SignRow
}

func (Sign) blockEntity() {}

// Comparator holds a comparator's memory cell: the output strength it last
// computed, read back by redstone logic as the comparator's strong power.
type Comparator struct {
	OutputStrength uint8
}

func (Comparator) blockEntity() {}

// Container holds an inventory-bearing block's slots and, for furnaces,
// barrels and hoppers, the comparator override strength derived from fill
// level.
type Container struct {
	Kind                ContainerKind
	Inventory           []ItemStack
	ComparatorOverride  uint8
}

func (Container) blockEntity() {}

// ItemStack is a minimal inventory slot representation: enough to compute a
// comparator override and round-trip through persistence, without
// implementing the full item system (out of scope per spec.md §1).
type ItemStack struct {
	Name  string
	Count int
}
