package hook

import "fmt"

// EventKind enumerates what the decoder can report.
type EventKind int

const (
	ModifierPressed EventKind = iota + 1
	ModifierReleased
	LetterChord
	MinimizePressed
	SettingsPressed
)

func (k EventKind) String() string {
	switch k {
	case ModifierPressed:
		return "modifier-pressed"
	case ModifierReleased:
		return "modifier-released"
	case LetterChord:
		return "letter"
	case MinimizePressed:
		return "minimize"
	case SettingsPressed:
		return "settings"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one decoded chord event. The shift and alt flags are sampled
// when the letter went down and are only meaningful for LetterChord.
type Event struct {
	Kind       EventKind
	Letter     rune // uppercase A-Z
	LeftShift  bool
	RightShift bool
	LeftAlt    bool
}

// Handler receives decoded events on the hook thread. It must not block.
type Handler func(Event)
