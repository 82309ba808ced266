// Package classify decides whether a typed buffer looks like Pinyin or
// English.
//
// The check is deliberately shallow: only the first character is inspected,
// against the fixed sets of Pinyin syllable initials and vowel finals. That
// means "xyz" classifies as Pinyin ('x' is a valid initial) even though no
// real syllable follows, and English words like "dog" do too. The behavior is
// kept as-is; candidate lookup failing and falling back to the raw buffer is
// the designed escape hatch for the false positives.
package classify

// Mode is the classifier's interpretation of the active buffer.
type Mode uint8

const (
	// Unknown is the rest state: empty buffer, nothing to classify.
	Unknown Mode = iota

	// Pinyin means the buffer starts like a Mandarin syllable.
	Pinyin

	// English means everything else.
	English
)

// String returns the lowercase mode name used in logs and IPC payloads.
func (m Mode) String() string {
	switch m {
	case Pinyin:
		return "pinyin"
	case English:
		return "english"
	default:
		return "unknown"
	}
}

// ParseMode is the inverse of String. Anything unrecognized maps to Unknown.
func ParseMode(s string) Mode {
	switch s {
	case "pinyin":
		return Pinyin
	case "english":
		return English
	default:
		return Unknown
	}
}

// Pinyin syllable-initial consonants and vowel finals. 'v' is the common
// keyboard stand-in for 'ü'.
var (
	initials = runeSet("bpmfdztnlgkhjqxcs")
	finals   = runeSet("aeiouüv")
)

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}

// Classify maps a non-empty buffer of Latin letters to Pinyin or English.
// Only the first character matters, case-insensitively. Callers must not pass
// an empty string; by convention an empty buffer is Unknown and never
// classified.
func Classify(text string) Mode {
	for _, r := range text {
		r = lower(r)
		if initials[r] || finals[r] {
			return Pinyin
		}
		return English
	}
	return Unknown
}

func lower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	if r == 'Ü' {
		return 'ü'
	}
	return r
}
