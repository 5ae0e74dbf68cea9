// Package detector tells English from Korean input so a direction can be
// picked automatically or a wrong one flagged.
package detector

import (
	lingua "github.com/pemistahl/lingua-go"

	"github.com/qnjualonzo/enkor/internal/session"
)

type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.English, lingua.Korean).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return lang.IsoCode639_1().String(), true
}

// GuessDirection returns the direction whose source language matches text.
func (d *Detector) GuessDirection(text string) (session.Direction, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return session.EnToKo, false
	}
	switch lang {
	case lingua.Korean:
		return session.KoToEn, true
	case lingua.English:
		return session.EnToKo, true
	}
	return session.EnToKo, false
}

// Mismatch reports whether text is confidently in the target language of
// dir, i.e. the user most likely picked the wrong direction.
func (d *Detector) Mismatch(text string, dir session.Direction) bool {
	guess, ok := d.GuessDirection(text)
	return ok && guess != dir
}
