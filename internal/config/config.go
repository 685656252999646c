package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/petems/letterswitch/internal/vkey"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// ModifierKey names the key that must be held to form a chord.
type ModifierKey string

const (
	ModifierShift    ModifierKey = "Shift"
	ModifierCtrl     ModifierKey = "Ctrl"
	ModifierAlt      ModifierKey = "Alt"
	ModifierRightAlt ModifierKey = "RightAlt"
	ModifierWin      ModifierKey = "Win"
)

// FocusBehavior controls which windows of the target app are raised.
type FocusBehavior string

const (
	FocusAllWindows FocusBehavior = "AllWindows"
	FocusMainWindow FocusBehavior = "MainWindow"
)

// WhenFocused controls what a chord does when its app already has focus.
type WhenFocused string

const (
	WhenFocusedHideApp      WhenFocused = "HideApp"
	WhenFocusedCycleApps    WhenFocused = "CycleApps"
	WhenFocusedCycleWindows WhenFocused = "CycleWindows"
)

// MinimizeScope selects between every app and the focused app.
type MinimizeScope string

const (
	MinimizeAllApps    MinimizeScope = "AllApps"
	MinimizeFocusedApp MinimizeScope = "FocusedApp"
)

// MinimizeAffects selects between all windows of the scope and the focused window.
type MinimizeAffects string

const (
	AffectsAllWindows    MinimizeAffects = "AllWindows"
	AffectsFocusedWindow MinimizeAffects = "FocusedWindow"
)

type Config struct {
	AppsModifierKey ModifierKey `json:"apps_modifier_key" yaml:"apps_modifier_key"`
	HideMinimizeKey string      `json:"hide_minimize_key" yaml:"hide_minimize_key"`
	MenuActionsKey  string      `json:"menu_actions_key" yaml:"menu_actions_key"`

	EnableAssignLetterHotkey bool `json:"enable_assign_letter_hotkey" yaml:"enable_assign_letter_hotkey"`
	EnableForceCycleHotkey   bool `json:"enable_force_cycle_hotkey" yaml:"enable_force_cycle_hotkey"`
	EnableHideOthersOnFocus  bool `json:"enable_hide_others_on_focus" yaml:"enable_hide_others_on_focus"`
	SingleAppMode            bool `json:"single_app_mode" yaml:"single_app_mode"`

	AppWindowFocus     FocusBehavior   `json:"app_window_focus" yaml:"app_window_focus"`
	WhenAlreadyFocused WhenFocused     `json:"when_already_focused" yaml:"when_already_focused"`
	MinimizeKeyHides   MinimizeScope   `json:"minimize_key_hides" yaml:"minimize_key_hides"`
	MinimizeKeyAffects MinimizeAffects `json:"minimize_key_affects" yaml:"minimize_key_affects"`

	// DisabledKeys lists letters the hook lets through untouched.
	DisabledKeys []string `json:"disabled_keys" yaml:"disabled_keys"`
	// ProcessLetters maps a process name (any case) to its letter.
	ProcessLetters    map[string]string `json:"process_letters" yaml:"process_letters"`
	ExcludedProcesses []string          `json:"excluded_processes" yaml:"excluded_processes"`

	HideTrayIcon bool   `json:"hide_tray_icon" yaml:"hide_tray_icon"`
	LogLevel     string `json:"log_level" yaml:"log_level"` // "debug", "info", "warn", "error"
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		AppsModifierKey:    ModifierRightAlt,
		HideMinimizeKey:    "-",
		MenuActionsKey:     "=",
		AppWindowFocus:     FocusAllWindows,
		WhenAlreadyFocused: WhenFocusedCycleApps,
		MinimizeKeyHides:   MinimizeFocusedApp,
		MinimizeKeyAffects: AffectsFocusedWindow,
		DisabledKeys:       []string{},
		ProcessLetters:     map[string]string{},
		ExcludedProcesses:  []string{},
		LogLevel:           "info",
	}
}

// Load reads the config at path over the defaults. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.DisabledKeys = append([]string{}, c.DisabledKeys...)
	out.ExcludedProcesses = append([]string{}, c.ExcludedProcesses...)
	out.ProcessLetters = make(map[string]string, len(c.ProcessLetters))
	for k, v := range c.ProcessLetters {
		out.ProcessLetters[k] = v
	}
	return &out
}

// Validate reports the first setting that the hook or the switch engine
// could not act on.
func (c *Config) Validate() error {
	switch c.AppsModifierKey {
	case ModifierShift, ModifierCtrl, ModifierAlt, ModifierRightAlt, ModifierWin:
	default:
		return fmt.Errorf("%w: unknown apps_modifier_key %q", ErrInvalid, c.AppsModifierKey)
	}
	switch c.AppWindowFocus {
	case FocusAllWindows, FocusMainWindow:
	default:
		return fmt.Errorf("%w: unknown app_window_focus %q", ErrInvalid, c.AppWindowFocus)
	}
	switch c.WhenAlreadyFocused {
	case WhenFocusedHideApp, WhenFocusedCycleApps, WhenFocusedCycleWindows:
	default:
		return fmt.Errorf("%w: unknown when_already_focused %q", ErrInvalid, c.WhenAlreadyFocused)
	}
	switch c.MinimizeKeyHides {
	case MinimizeAllApps, MinimizeFocusedApp:
	default:
		return fmt.Errorf("%w: unknown minimize_key_hides %q", ErrInvalid, c.MinimizeKeyHides)
	}
	switch c.MinimizeKeyAffects {
	case AffectsAllWindows, AffectsFocusedWindow:
	default:
		return fmt.Errorf("%w: unknown minimize_key_affects %q", ErrInvalid, c.MinimizeKeyAffects)
	}

	if utf8.RuneCountInString(c.HideMinimizeKey) != 1 {
		return fmt.Errorf("%w: hide_minimize_key must be a single character, got %q", ErrInvalid, c.HideMinimizeKey)
	}
	if utf8.RuneCountInString(c.MenuActionsKey) != 1 {
		return fmt.Errorf("%w: menu_actions_key must be a single character, got %q", ErrInvalid, c.MenuActionsKey)
	}
	if vkey.ForChar(c.HideKey()) == 0 {
		return fmt.Errorf("%w: hide_minimize_key %q has no key", ErrInvalid, c.HideMinimizeKey)
	}
	if vkey.ForChar(c.MenuKey()) == 0 {
		return fmt.Errorf("%w: menu_actions_key %q has no key", ErrInvalid, c.MenuActionsKey)
	}

	for _, k := range c.DisabledKeys {
		if _, ok := parseLetter(k); !ok {
			return fmt.Errorf("%w: disabled key %q is not a letter", ErrInvalid, k)
		}
	}
	for name, l := range c.ProcessLetters {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty process name in process_letters", ErrInvalid)
		}
		if _, ok := parseLetter(l); !ok {
			return fmt.Errorf("%w: letter %q for %s is not A-Z", ErrInvalid, l, name)
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

// normalize lowercases process keys and uppercases letters so lookups
// never depend on how the file was written.
func (c *Config) normalize() {
	letters := make(map[string]string, len(c.ProcessLetters))
	for name, l := range c.ProcessLetters {
		letters[strings.ToLower(strings.TrimSpace(name))] = strings.ToUpper(l)
	}
	c.ProcessLetters = letters

	for i, k := range c.DisabledKeys {
		c.DisabledKeys[i] = strings.ToUpper(k)
	}
	if c.DisabledKeys == nil {
		c.DisabledKeys = []string{}
	}
	if c.ExcludedProcesses == nil {
		c.ExcludedProcesses = []string{}
	}
}

// LetterAssignment returns the explicit letter for processName, if any.
func (c *Config) LetterAssignment(processName string) (rune, bool) {
	if l, ok := c.ProcessLetters[strings.ToLower(processName)]; ok {
		return parseLetter(l)
	}
	for name, l := range c.ProcessLetters {
		if strings.EqualFold(name, processName) {
			return parseLetter(l)
		}
	}
	return 0, false
}

// IsExcluded reports whether processName never takes part in switching.
func (c *Config) IsExcluded(processName string) bool {
	for _, p := range c.ExcludedProcesses {
		if strings.EqualFold(p, processName) {
			return true
		}
	}
	return false
}

// IsDisabled reports whether the letter is left for the OS to handle.
func (c *Config) IsDisabled(letter rune) bool {
	letter = unicode.ToUpper(letter)
	for _, k := range c.DisabledKeys {
		if l, ok := parseLetter(k); ok && l == letter {
			return true
		}
	}
	return false
}

// HideKey returns the hide/minimize action character.
func (c *Config) HideKey() rune { return firstRune(c.HideMinimizeKey) }

// MenuKey returns the menu/actions character.
func (c *Config) MenuKey() rune { return firstRune(c.MenuActionsKey) }

// SetLetter assigns letter to processName. The letter is stored uppercase.
func (c *Config) SetLetter(processName string, letter rune) error {
	l, ok := NormalizeLetter(letter)
	if !ok {
		return fmt.Errorf("%w: %q is not a letter", ErrInvalid, letter)
	}
	if c.ProcessLetters == nil {
		c.ProcessLetters = map[string]string{}
	}
	c.RemoveLetter(processName)
	c.ProcessLetters[strings.ToLower(processName)] = string(l)
	return nil
}

// RemoveLetter drops an explicit assignment and reports whether one existed.
func (c *Config) RemoveLetter(processName string) bool {
	removed := false
	for name := range c.ProcessLetters {
		if strings.EqualFold(name, processName) {
			delete(c.ProcessLetters, name)
			removed = true
		}
	}
	return removed
}

// SetExcluded adds or removes processName from the exclusion list.
func (c *Config) SetExcluded(processName string, excluded bool) {
	kept := c.ExcludedProcesses[:0]
	for _, p := range c.ExcludedProcesses {
		if !strings.EqualFold(p, processName) {
			kept = append(kept, p)
		}
	}
	c.ExcludedProcesses = kept
	if excluded {
		c.ExcludedProcesses = append(c.ExcludedProcesses, processName)
	}
}

// SetKeyCaptured enables or disables interception of a letter.
func (c *Config) SetKeyCaptured(letter rune, captured bool) error {
	l, ok := NormalizeLetter(letter)
	if !ok {
		return fmt.Errorf("%w: %q is not a letter", ErrInvalid, letter)
	}
	kept := c.DisabledKeys[:0]
	for _, k := range c.DisabledKeys {
		if dl, ok := parseLetter(k); !ok || dl != l {
			kept = append(kept, k)
		}
	}
	c.DisabledKeys = kept
	if !captured {
		c.DisabledKeys = append(c.DisabledKeys, string(l))
	}
	return nil
}

// NormalizeLetter uppercases r and reports whether it is in A-Z.
func NormalizeLetter(r rune) (rune, bool) {
	r = unicode.ToUpper(r)
	if r < 'A' || r > 'Z' {
		return 0, false
	}
	return r, true
}

func parseLetter(s string) (rune, bool) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, false
	}
	return NormalizeLetter(firstRune(s))
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

// DefaultPath returns the platform-specific config file path
func DefaultPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "letterswitch", "config.json")
}

// ModifierVK returns the virtual key of the configured apps modifier.
func (c *Config) ModifierVK() vkey.Code {
	return vkey.ForModifier(string(c.AppsModifierKey))
}
