package tray

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/atotto/clipboard"
	"github.com/getlantern/systray"
	"github.com/rs/zerolog"

	"github.com/petems/letterswitch/internal/config"
	"github.com/petems/letterswitch/internal/logging"
	"github.com/petems/letterswitch/internal/platform"
	"github.com/petems/letterswitch/internal/registry"
)

// Settings is the config store the menu toggles write through.
type Settings interface {
	Current() *config.Config
	Update(fn func(*config.Config) error) error
}

type WindowLister interface {
	Entries() []registry.Entry
}

type LetterResolver interface {
	LetterFor(processName string) rune
	IsExcluded(processName string) bool
}

type Opener interface {
	Open()
	OpenPath(path string) error
}

type Config struct {
	Settings Settings
	Windows  WindowLister
	Letters  LetterResolver
	Opener   Opener
	Logger   zerolog.Logger
	Version  string
	Commit   string
}

// UI is the tray icon and menu. Its title doubles as the letter overlay.
type UI struct {
	settings Settings
	windows  WindowLister
	letters  LetterResolver
	opener   Opener
	log      zerolog.Logger
	version  string
	commit   string

	setTitle  func(string)
	writeClip func(string) error
	ready     atomic.Bool
	quitOnce  sync.Once

	mu        sync.Mutex
	visible   bool
	shown     []rune
	highlight rune

	// Menu items
	mSingleApp  *systray.MenuItem
	mHideOthers *systray.MenuItem
	mForceCycle *systray.MenuItem
	mAssign     *systray.MenuItem
}

func New(cfg Config) *UI {
	return &UI{
		settings:  cfg.Settings,
		windows:   cfg.Windows,
		letters:   cfg.Letters,
		opener:    cfg.Opener,
		log:       cfg.Logger,
		version:   cfg.Version,
		commit:    cfg.Commit,
		setTitle:  systray.SetTitle,
		writeClip: clipboard.WriteAll,
	}
}

// Overlay methods for the switch engine to call

// Show lists the letters that currently have a switchable window.
func (u *UI) Show(windows []platform.Window) {
	seen := map[rune]bool{}
	var letters []rune
	for _, w := range windows {
		if u.letters.IsExcluded(w.ProcessName) {
			continue
		}
		l := u.letters.LetterFor(w.ProcessName)
		if !seen[l] {
			seen[l] = true
			letters = append(letters, l)
		}
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })

	u.mu.Lock()
	u.visible = true
	u.shown = letters
	u.highlight = 0
	u.mu.Unlock()
	u.render()
}

func (u *UI) Hide() {
	u.mu.Lock()
	u.visible = false
	u.shown = nil
	u.mu.Unlock()
	u.render()
}

func (u *UI) Highlight(letter rune) {
	u.mu.Lock()
	u.highlight = letter
	u.mu.Unlock()
	u.render()
}

func (u *UI) render() {
	if !u.ready.Load() {
		return
	}
	u.mu.Lock()
	title := overlayTitle(u.visible, u.shown, u.highlight)
	u.mu.Unlock()
	u.setTitle(title)
}

// Run shows the tray until Quit is chosen or ctx is done. It must be
// called from the main thread. With hide_tray_icon set it only waits.
func (u *UI) Run(ctx context.Context) error {
	if u.settings.Current().HideTrayIcon {
		u.log.Info().Msg("Tray icon hidden")
		<-ctx.Done()
		return nil
	}

	go func() {
		<-ctx.Done()
		u.quit()
	}()
	systray.Run(u.onReady, u.onExit)
	return nil
}

func (u *UI) quit() {
	u.quitOnce.Do(systray.Quit)
}

func (u *UI) onReady() {
	u.ready.Store(true)
	u.render()
	systray.SetTooltip("letterswitch: hold the modifier and press a letter")

	cfg := u.settings.Current()

	mSettings := systray.AddMenuItem("Settings", "Edit the configuration file")
	mCopy := systray.AddMenuItem("Copy Window Letters", "Copy the letter of every open window")
	systray.AddSeparator()

	u.mSingleApp = systray.AddMenuItemCheckbox("Single App Mode", "Hide other apps on every switch", cfg.SingleAppMode)
	u.mHideOthers = systray.AddMenuItemCheckbox("Hide Others (Left Shift)", "Left Shift + letter hides other apps", cfg.EnableHideOthersOnFocus)
	u.mForceCycle = systray.AddMenuItemCheckbox("Force Cycle (Right Shift)", "Right Shift + letter cycles windows", cfg.EnableForceCycleHotkey)
	u.mAssign = systray.AddMenuItemCheckbox("Assign Letter (Alt)", "Alt + letter assigns it to the focused app", cfg.EnableAssignLetterHotkey)

	systray.AddSeparator()
	mLogs := systray.AddMenuItem("Open Logs", "View application logs")
	mAbout := systray.AddMenuItem("About", "About letterswitch")
	mQuit := systray.AddMenuItem("Quit", "Exit application")

	// Event loop
	go u.handleEvents(mSettings, mCopy, mLogs, mAbout, mQuit)
}

func (u *UI) handleEvents(mSettings, mCopy, mLogs, mAbout, mQuit *systray.MenuItem) {
	for {
		select {
		case <-mSettings.ClickedCh:
			u.opener.Open()
		case <-mCopy.ClickedCh:
			u.copyLetters()
		case <-u.mSingleApp.ClickedCh:
			u.toggle(u.mSingleApp, "single_app_mode", func(c *config.Config) *bool { return &c.SingleAppMode })
		case <-u.mHideOthers.ClickedCh:
			u.toggle(u.mHideOthers, "enable_hide_others_on_focus", func(c *config.Config) *bool { return &c.EnableHideOthersOnFocus })
		case <-u.mForceCycle.ClickedCh:
			u.toggle(u.mForceCycle, "enable_force_cycle_hotkey", func(c *config.Config) *bool { return &c.EnableForceCycleHotkey })
		case <-u.mAssign.ClickedCh:
			u.toggle(u.mAssign, "enable_assign_letter_hotkey", func(c *config.Config) *bool { return &c.EnableAssignLetterHotkey })
		case <-mLogs.ClickedCh:
			u.openLogs()
		case <-mAbout.ClickedCh:
			u.showAbout()
		case <-mQuit.ClickedCh:
			u.quit()
			return
		}
	}
}

// toggle flips one boolean setting and mirrors it on item.
func (u *UI) toggle(item *systray.MenuItem, name string, field func(*config.Config) *bool) {
	enabled, err := u.flip(field)
	if err != nil {
		u.log.Error().Err(err).Str("setting", name).Msg("Failed to save setting")
		return
	}
	if enabled {
		item.Check()
	} else {
		item.Uncheck()
	}
	u.log.Info().Str("setting", name).Bool("enabled", enabled).Msg("Changed setting")
}

func (u *UI) flip(field func(*config.Config) *bool) (bool, error) {
	var enabled bool
	err := u.settings.Update(func(c *config.Config) error {
		p := field(c)
		*p = !*p
		enabled = *p
		return nil
	})
	return enabled, err
}

func (u *UI) copyLetters() {
	text := formatLetterTable(u.windows.Entries())
	if err := u.writeClip(text); err != nil {
		u.log.Error().Err(err).Msg("Failed to copy window letters")
		return
	}
	u.log.Info().Msg("Copied window letters to clipboard")
}

func (u *UI) openLogs() {
	if err := u.opener.OpenPath(logging.Path()); err != nil {
		u.log.Error().Err(err).Msg("Failed to open logs")
	}
}

func (u *UI) showAbout() {
	u.log.Info().Str("version", u.version).Str("commit", u.commit).Msg("letterswitch")
	systray.SetTooltip(fmt.Sprintf("letterswitch %s (%s)", u.version, u.commit))
}

func (u *UI) onExit() {
	u.ready.Store(false)
}

// overlayTitle renders the tray title: a keyboard when idle, the available
// letters while the modifier is held, with the pressed one in brackets.
func overlayTitle(visible bool, letters []rune, highlight rune) string {
	if !visible {
		return "⌨️"
	}
	if len(letters) == 0 {
		return "⌨️ -"
	}

	parts := make([]string, 0, len(letters))
	for _, l := range letters {
		if l == highlight {
			parts = append(parts, "["+string(l)+"]")
			continue
		}
		parts = append(parts, string(l))
	}
	return "⌨️ " + strings.Join(parts, " ")
}

// formatLetterTable renders one line per window: letter, process, title.
func formatLetterTable(entries []registry.Entry) string {
	var b strings.Builder
	for _, e := range entries {
		if e.Excluded {
			continue
		}
		fmt.Fprintf(&b, "%s\t%s\t%s\n", e.Letter, e.ProcessName, e.Title)
	}
	return b.String()
}
