// Package vkey holds the virtual-key tables shared by the keyboard hook
// and configuration validation.
package vkey

// Code is a Windows virtual-key code.
type Code uint32

const (
	LShift   Code = 0xA0
	RShift   Code = 0xA1
	LControl Code = 0xA2
	RControl Code = 0xA3
	LMenu    Code = 0xA4
	RMenu    Code = 0xA5
	LWin     Code = 0x5B
	RWin     Code = 0x5C

	A Code = 0x41
	Z Code = 0x5A

	Oem1      Code = 0xBA // ;:
	OemPlus   Code = 0xBB // =+
	OemComma  Code = 0xBC // ,<
	OemMinus  Code = 0xBD // -_
	OemPeriod Code = 0xBE // .>
	Oem2      Code = 0xBF // /?
	Oem3      Code = 0xC0 // `~
	Oem4      Code = 0xDB // [{
	Oem5      Code = 0xDC // \|
	Oem6      Code = 0xDD // ]}
	Oem7      Code = 0xDE // '"
)

// ForModifier maps a modifier name to its key. Unknown names fall back to
// right alt.
func ForModifier(name string) Code {
	switch name {
	case "Shift":
		return LShift
	case "Ctrl":
		return LControl
	case "Alt":
		return LMenu
	case "RightAlt":
		return RMenu
	case "Win":
		return LWin
	default:
		return RMenu
	}
}

// ForChar maps a printable character to the key that types it on a US
// layout. Characters with no key return 0.
func ForChar(c rune) Code {
	switch {
	case c >= '0' && c <= '9':
		return Code(c)
	case c >= 'A' && c <= 'Z':
		return Code(c)
	case c >= 'a' && c <= 'z':
		return Code(c - 'a' + 'A')
	}

	switch c {
	case ';', ':':
		return Oem1
	case '=', '+':
		return OemPlus
	case ',', '<':
		return OemComma
	case '-', '_':
		return OemMinus
	case '.', '>':
		return OemPeriod
	case '/', '?':
		return Oem2
	case '`', '~':
		return Oem3
	case '[', '{':
		return Oem4
	case '\\', '|':
		return Oem5
	case ']', '}':
		return Oem6
	case '\'', '"':
		return Oem7
	}
	return 0
}

// Letter returns the letter for an A-Z key.
func Letter(c Code) (rune, bool) {
	if c < A || c > Z {
		return 0, false
	}
	return rune(c), true
}
