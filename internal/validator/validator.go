// Package validator checks that a translation came back in the target
// language rather than echoed or half-translated.
package validator

import (
	"fmt"
	"strings"

	"github.com/qnjualonzo/enkor/internal/detector"
)

// minValidationLength is the minimum rune count required to attempt language detection.
// Shorter texts produce unreliable results and are accepted without validation.
const minValidationLength = 20

// Validator checks translations against their target language. The detector
// is expensive to build; share one instance.
type Validator struct {
	det *detector.Detector
}

// New returns a Validator using det, or a fresh detector when det is nil.
func New(det *detector.Detector) *Validator {
	if det == nil {
		det = detector.New()
	}
	return &Validator{det: det}
}

// Check returns nil when translated appears to be written in targetLang.
//
// Short texts and texts whose language cannot be determined pass. An empty
// translation always fails.
func (v *Validator) Check(translated, targetLang string) error {
	text := strings.TrimSpace(translated)
	if text == "" {
		return fmt.Errorf("translation is empty")
	}
	if targetLang == "" || len([]rune(text)) < minValidationLength {
		return nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		return nil
	}
	if !strings.EqualFold(detected, targetLang) {
		return fmt.Errorf("expected %s but detected %s", strings.ToLower(targetLang), strings.ToLower(detected))
	}
	return nil
}
