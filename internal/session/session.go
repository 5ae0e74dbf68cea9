// Package session holds the per-user interaction state: the text being
// worked on, the translation direction and the two derived results.
package session

import (
	"fmt"
	"strings"
)

// Direction is the translation pairing chosen by the user.
type Direction int

const (
	EnToKo Direction = iota
	KoToEn
)

// Directions lists every direction in display order.
var Directions = []Direction{EnToKo, KoToEn}

// String returns the short form accepted by ParseDirection.
func (d Direction) String() string {
	switch d {
	case EnToKo:
		return "en-ko"
	case KoToEn:
		return "ko-en"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Label is the human-readable form shown by the interactive surfaces.
func (d Direction) Label() string {
	switch d {
	case EnToKo:
		return "EN to KO"
	case KoToEn:
		return "KO to EN"
	default:
		return d.String()
	}
}

// SourceLang is the language code of the text the user types.
func (d Direction) SourceLang() string {
	if d == KoToEn {
		return "ko"
	}
	return "en"
}

// TargetLang is the language code of the translation.
func (d Direction) TargetLang() string {
	if d == KoToEn {
		return "en"
	}
	return "ko"
}

// SummaryLang is the language the summarizer works in, which is always the
// translation's language.
func (d Direction) SummaryLang() string {
	return d.TargetLang()
}

// Other returns the opposite direction.
func (d Direction) Other() Direction {
	if d == KoToEn {
		return EnToKo
	}
	return KoToEn
}

// ParseDirection accepts "en-ko", "ko-en", "en2ko", "EN to KO" and similar
// spellings, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" to ", "-", "2", "-", "_", "-", ">", "-", " ", "").Replace(key)
	switch key {
	case "en-ko", "en--ko":
		return EnToKo, nil
	case "ko-en", "ko--en":
		return KoToEn, nil
	}
	return EnToKo, fmt.Errorf("unknown direction %q (want en-ko or ko-en)", s)
}

// MarshalText encodes d in its short form, so JSON carries "en-ko" rather
// than a number.
func (d Direction) MarshalText() ([]byte, error) {
	if d != EnToKo && d != KoToEn {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText accepts anything ParseDirection does.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// State is a point-in-time copy of a session.
type State struct {
	InputText      string    `json:"input_text"`
	Direction      Direction `json:"direction"`
	TranslatedText string    `json:"translated_text"`
	SummarizedText string    `json:"summarized_text"`
}

// Session owns one user's State. Mutators keep two invariants:
//   - a direction change clears all three text fields in the same step
//   - a new translation always clears the summary
//
// Session is not safe for concurrent use; the orchestrator serialises access.
type Session struct {
	state State
}

// New returns a session with the default direction (EnToKo) and empty text.
func New() *Session {
	return &Session{state: State{Direction: EnToKo}}
}

// Get returns a copy of the current state.
func (s *Session) Get() State {
	return s.state
}

func (s *Session) SetInput(text string) {
	s.state.InputText = text
}

// SetDirection switches direction and clears every text field. It reports
// whether anything changed; setting the current direction is a no-op.
func (s *Session) SetDirection(d Direction) bool {
	if d == s.state.Direction {
		return false
	}
	s.state = State{Direction: d}
	return true
}

// SetTranslated stores a new translation and drops the now stale summary.
func (s *Session) SetTranslated(text string) {
	s.state.TranslatedText = text
	s.state.SummarizedText = ""
}

func (s *Session) SetSummarized(text string) {
	s.state.SummarizedText = text
}

// Reset clears the text fields and keeps the direction.
func (s *Session) Reset() {
	s.state = State{Direction: s.state.Direction}
}
