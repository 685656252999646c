package hook

import (
	"sync"

	"github.com/petems/letterswitch/internal/config"
	"github.com/petems/letterswitch/internal/vkey"
)

// ModifierState is the set of keys the decoder tracks between events.
type ModifierState struct {
	LeftShift    bool
	RightShift   bool
	LeftAlt      bool
	AppsModifier bool
}

// Decoder turns raw key transitions into chord events. It reads the
// configuration on every key so edits apply without reinstalling the hook.
type Decoder struct {
	cfg config.Source

	mu    sync.Mutex
	state ModifierState
	// AltGr layouts send a synthetic left control along with right alt.
	ignoreNextLControl bool
}

func NewDecoder(cfg config.Source) *Decoder {
	return &Decoder{cfg: cfg}
}

// Decode processes one key transition. emit reports whether ev is valid;
// consume reports whether the key must be swallowed.
func (d *Decoder) Decode(vk vkey.Code, down bool) (ev Event, emit bool, consume bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if vk == vkey.LControl && d.ignoreNextLControl {
		d.ignoreNextLControl = false
		return Event{}, false, false
	}

	switch vk {
	case vkey.LShift:
		d.state.LeftShift = down
	case vkey.RShift:
		d.state.RightShift = down
	case vkey.LMenu:
		d.state.LeftAlt = down
	}

	cfg := d.cfg.Current()

	if vk == cfg.ModifierVK() {
		switch {
		case down && !d.state.AppsModifier:
			d.state.AppsModifier = true
			if vk == vkey.RMenu {
				d.ignoreNextLControl = true
			}
			return Event{Kind: ModifierPressed}, true, false
		case !down && d.state.AppsModifier:
			d.state.AppsModifier = false
			d.ignoreNextLControl = false
			return Event{Kind: ModifierReleased}, true, false
		}
		return Event{}, false, false
	}

	if !d.state.AppsModifier || !down {
		return Event{}, false, false
	}

	if letter, ok := vkey.Letter(vk); ok {
		if cfg.IsDisabled(letter) {
			return Event{}, false, false
		}
		return Event{
			Kind:       LetterChord,
			Letter:     letter,
			LeftShift:  d.state.LeftShift,
			RightShift: d.state.RightShift,
			LeftAlt:    d.state.LeftAlt,
		}, true, true
	}

	switch vk {
	case vkey.ForChar(cfg.HideKey()):
		return Event{Kind: MinimizePressed}, true, true
	case vkey.ForChar(cfg.MenuKey()):
		return Event{Kind: SettingsPressed}, true, true
	}
	return Event{}, false, false
}

// State returns a copy of the tracked modifier state.
func (d *Decoder) State() ModifierState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Reset clears all tracked state.
func (d *Decoder) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = ModifierState{}
	d.ignoreNextLControl = false
}
