package index

import "fmt"

// Kind classifies an indexed candidate or search result. It is assigned when
// the entry is created and never changes afterwards; display grouping and
// launch dispatch both key off it.
type Kind int

const (
	KindApp Kind = iota
	KindFolder
	KindImage
	KindFile
	KindSystem
	KindCalculator
	KindWebSearch
)

func (k Kind) String() string {
	switch k {
	case KindApp:
		return "app"
	case KindFolder:
		return "folder"
	case KindImage:
		return "image"
	case KindFile:
		return "file"
	case KindSystem:
		return "system"
	case KindCalculator:
		return "calculator"
	case KindWebSearch:
		return "websearch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// GroupRank returns the display precedence of the kind. Lower ranks render
// first. Plain files only appear in browse listings, where grouping is not
// applied, but they still need a stable slot.
func (k Kind) GroupRank() int {
	switch k {
	case KindCalculator:
		return 0
	case KindApp:
		return 1
	case KindSystem:
		return 2
	case KindFolder:
		return 3
	case KindImage:
		return 4
	case KindFile:
		return 5
	case KindWebSearch:
		return 6
	default:
		return 7
	}
}

// MarshalJSON encodes the kind as its string label so RPC clients do not
// depend on the numeric values.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Entry is a single indexed candidate. Entries are created during startup
// enumeration and never mutated afterwards, so they can be read concurrently
// without locking.
type Entry struct {
	Name        string
	Exec        string
	Icon        string
	Description string
	Kind        Kind
}
