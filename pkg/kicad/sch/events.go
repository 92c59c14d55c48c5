package sch

// State identifies what kind of line a Parser/Mapper event describes.
type State int

const (
	// Other is a line outside any $Sheet/$Comp block.
	Other State = iota
	SheetEnter
	SheetItem
	SheetExit
	CompEnter
	CompItem
	CompExit
)

func (s State) String() string {
	switch s {
	case Other:
		return "Other"
	case SheetEnter:
		return "SheetEnter"
	case SheetItem:
		return "SheetItem"
	case SheetExit:
		return "SheetExit"
	case CompEnter:
		return "CompEnter"
	case CompItem:
		return "CompItem"
	case CompExit:
		return "CompExit"
	default:
		return "Unknown"
	}
}

// Event is one step of parsing, tagged with a State and carrying only the
// record view that State implies (Sheet for Sheet* states, Comp for
// Comp* states, neither for Other).
type Event struct {
	State State
	Line  *Line
	Sheet *SheetRecord
	Comp  *ComponentRecord
}
