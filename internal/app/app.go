package app

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/petems/letterswitch/internal/config"
	"github.com/petems/letterswitch/internal/hook"
	"github.com/petems/letterswitch/internal/platform"
)

// DefaultQueueSize bounds the events waiting for the worker.
const DefaultQueueSize = 64

// Outcome says what HandleEvent did with a letter chord.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeAssign
	OutcomeNoTarget
	OutcomeHidden
	OutcomeStayed
	OutcomeSwitched
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeAssign:
		return "assign"
	case OutcomeNoTarget:
		return "no-target"
	case OutcomeHidden:
		return "hidden"
	case OutcomeStayed:
		return "stayed"
	case OutcomeSwitched:
		return "switched"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// WindowSource lists switchable windows.
type WindowSource interface {
	All() []platform.Window
	ByLetter(letter rune) []platform.Window
}

type LetterResolver interface {
	LetterFor(processName string) rune
}

// Actuator performs the window operations.
type Actuator interface {
	FocusedWindow() (platform.Window, bool)
	ForegroundWindow() (platform.Window, bool)
	Activate(w platform.Window) bool
	ActivateAllOfProcess(primary platform.Window) bool
	Minimize(w platform.Window) bool
	MinimizeAllVisible() int
	MinimizeAllOfProcess(pid uint32) int
	HideAllExcept(pid uint32) int
}

// Overlay shows the available letters while the modifier is held (e.g.
// the tray).
type Overlay interface {
	Show(windows []platform.Window)
	Hide()
	// Highlight marks letter as pressed; 0 clears it.
	Highlight(letter rune)
}

// Assigner changes the letter of a process.
type Assigner interface {
	Assign(processName string, letter rune)
}

// SettingsOpener opens the settings UI.
type SettingsOpener interface {
	Open()
}

type Config struct {
	Windows  WindowSource
	Letters  LetterResolver
	Actuator Actuator
	Settings config.Source
	Logger   zerolog.Logger

	Overlay        Overlay        // Optional - can be nil
	Assigner       Assigner       // Optional - can be nil
	SettingsOpener SettingsOpener // Optional - can be nil

	// QueueSize defaults to DefaultQueueSize.
	QueueSize int
}


// App is the switch engine. Events are applied one at a time.
type App struct {
	windows  WindowSource
	letters  LetterResolver
	act      Actuator
	settings config.Source
	log      zerolog.Logger
	overlay  Overlay
	assigner Assigner
	opener   SettingsOpener

	queue chan hook.Event

	mu           sync.Mutex
	cycles       map[rune]int
	lastSwitched rune
}

func New(cfg Config) *App {
	size := cfg.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &App{
		windows:  cfg.Windows,
		letters:  cfg.Letters,
		act:      cfg.Actuator,
		settings: cfg.Settings,
		log:      cfg.Logger,
		overlay:  cfg.Overlay,
		assigner: cfg.Assigner,
		opener:   cfg.SettingsOpener,
		queue:    make(chan hook.Event, size),
		cycles:   make(map[rune]int),
	}
}

// Submit queues ev for Run without blocking. It reports false when the
// queue is full and the event was dropped.
func (a *App) Submit(ev hook.Event) bool {
	select {
	case a.queue <- ev:
		return true
	default:
		a.log.Warn().Stringer("event", ev.Kind).Msg("Event queue full, dropping event")
		return false
	}
}

// Run applies queued events in order until ctx is done.
func (a *App) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-a.queue:
			a.safeHandle(ev)
		}
	}
}

func (a *App) safeHandle(ev hook.Event) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Stringer("event", ev.Kind).
				Msg("Recovered from panic while handling event")
		}
	}()
	a.HandleEvent(ev)
}

// HandleEvent applies one hook event.
func (a *App) HandleEvent(ev hook.Event) Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch ev.Kind {
	case hook.ModifierPressed:
		if a.overlay != nil {
			a.overlay.Show(a.windows.All())
		}
	case hook.ModifierReleased:
		if a.overlay != nil {
			a.overlay.Hide()
			a.overlay.Highlight(0)
		}
	case hook.MinimizePressed:
		a.minimizeLocked()
	case hook.SettingsPressed:
		if a.opener != nil {
			a.opener.Open()
		}
	case hook.LetterChord:
		return a.switchLocked(ev)
	default:
		a.log.Warn().Int("kind", int(ev.Kind)).Msg("Unknown event")
	}
	return OutcomeNone
}

func (a *App) switchLocked(ev hook.Event) Outcome {
	cfg := a.settings.Current()
	letter := unicode.ToUpper(ev.Letter)

	a.log.Debug().
		Str("letter", string(letter)).
		Bool("left_shift", ev.LeftShift).
		Bool("right_shift", ev.RightShift).
		Bool("alt", ev.LeftAlt).
		Msg("Chord")

	if a.overlay != nil {
		a.overlay.Highlight(letter)
	}

	if ev.LeftAlt && cfg.EnableAssignLetterHotkey {
		a.assignLocked(letter)
		return OutcomeAssign
	}

	cycle := ev.RightShift && cfg.EnableForceCycleHotkey

	candidates := a.windows.ByLetter(letter)
	if len(candidates) == 0 {
		a.log.Info().Str("letter", string(letter)).Msg("No window found")
		return OutcomeNoTarget
	}

	if focused, ok := a.act.FocusedWindow(); ok &&
		unicode.ToUpper(a.letters.LetterFor(focused.ProcessName)) == letter {
		switch cfg.WhenAlreadyFocused {
		case config.WhenFocusedHideApp:
			a.act.Minimize(focused)
			return OutcomeHidden
		case config.WhenFocusedCycleApps:
			return OutcomeStayed
		case config.WhenFocusedCycleWindows:
			cycle = true
		}
	}

	index := a.nextIndexLocked(letter, len(candidates), cycle)
	target := candidates[index]
	a.lastSwitched = letter

	a.log.Debug().
		Str("letter", string(letter)).
		Int("candidates", len(candidates)).
		Int("index", index).
		Str("process", target.ProcessName).
		Msg("Target selected")

	if (ev.LeftShift && cfg.EnableHideOthersOnFocus) || cfg.SingleAppMode {
		a.act.HideAllExcept(target.PID)
	}

	if cfg.AppWindowFocus == config.FocusAllWindows {
		a.act.ActivateAllOfProcess(target)
	} else {
		a.act.Activate(target)
	}
	return OutcomeSwitched
}

// nextIndexLocked advances the cycle for letter over the n candidates just
// fetched. It restarts at 0 when another letter was used last.
func (a *App) nextIndexLocked(letter rune, n int, cycle bool) int {
	index := 0
	if cycle && n > 1 {
		prev, ok := a.cycles[letter]
		if ok && a.lastSwitched == letter {
			index = (prev + 1) % n
		}
	}
	a.cycles[letter] = index
	return index
}

func (a *App) assignLocked(letter rune) {
	if a.assigner == nil {
		return
	}
	focused, ok := a.act.FocusedWindow()
	if !ok {
		a.log.Info().Msg("No focused window to assign a letter to")
		return
	}
	a.assigner.Assign(focused.ProcessName, letter)
}

func (a *App) minimizeLocked() {
	cfg := a.settings.Current()

	if cfg.MinimizeKeyHides == config.MinimizeAllApps {
		a.act.MinimizeAllVisible()
		return
	}

	// Untitled foreground windows are minimized too.
	fg, ok := a.act.ForegroundWindow()
	if !ok {
		return
	}
	if cfg.MinimizeKeyAffects == config.AffectsAllWindows {
		if fg.PID == 0 {
			a.log.Debug().Stringer("hwnd", fg.Handle).Msg("Foreground window has no known process")
			return
		}
		a.act.MinimizeAllOfProcess(fg.PID)
		return
	}
	a.act.Minimize(fg)
}

// CycleIndex returns the stored cycle position for letter.
func (a *App) CycleIndex(letter rune) (index int, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	index, ok = a.cycles[unicode.ToUpper(letter)]
	return index, ok
}
