package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Checker rejects translations that are not in the target language.
type Checker interface {
	Check(translated, targetLang string) error
}

// Fallback tries its services in order and returns the first non-empty
// translation. Each service gets MaxAttempts tries, RetryDelay apart.
//
// With a Checker, output that fails the check moves on to the next service.
// If no service passes, the first rejected translation is still returned.
type Fallback struct {
	Services    []TranslationService
	MaxAttempts int
	RetryDelay  time.Duration
	Checker     Checker
	Logger      *zap.SugaredLogger
}

func NewFallback(logger *zap.SugaredLogger, services ...TranslationService) *Fallback {
	return &Fallback{
		Services:    services,
		MaxAttempts: 1,
		RetryDelay:  500 * time.Millisecond,
		Logger:      logger,
	}
}

// Name is the single service's name, or "fallback(a,b,...)" for a chain.
func (f *Fallback) Name() string {
	if len(f.Services) == 1 {
		return f.Services[0].Name()
	}
	names := make([]string, len(f.Services))
	for i, s := range f.Services {
		names[i] = s.Name()
	}
	return "fallback(" + strings.Join(names, ",") + ")"
}

func (f *Fallback) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if len(f.Services) == 0 {
		return "", errors.New("no translation service configured")
	}
	log := f.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	attempts := f.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	req := TranslateRequest{Text: text, SourceLang: sourceLang, TargetLang: targetLang}
	var errs []error
	var rejected, rejectedBy string

	for _, svc := range f.Services {
		for attempt := 1; attempt <= attempts; attempt++ {
			if attempt > 1 && f.RetryDelay > 0 {
				select {
				case <-ctx.Done():
					return "", errors.Join(append(errs, ctx.Err())...)
				case <-time.After(f.RetryDelay):
				}
			}

			res, err := svc.Translate(ctx, req)
			if err == nil && res != nil && strings.TrimSpace(res.TranslatedText) != "" {
				checkErr := f.check(res.TranslatedText, targetLang)
				if checkErr == nil {
					log.Debugw("translated",
						"service", svc.Name(),
						"attempt", attempt,
						"latency", res.Latency,
					)
					return res.TranslatedText, nil
				}
				if rejected == "" {
					rejected, rejectedBy = res.TranslatedText, svc.Name()
				}
				log.Warnw("translation rejected",
					"service", svc.Name(),
					"error", checkErr,
				)
				errs = append(errs, fmt.Errorf("%s: rejected: %w", svc.Name(), checkErr))
				// A retry would return the same text; move on to the next service.
				break
			}
			if err == nil {
				err = errors.New("empty translation")
			}
			errs = append(errs, fmt.Errorf("%s (attempt %d): %w", svc.Name(), attempt, err))
			log.Warnw("translation attempt failed",
				"service", svc.Name(),
				"attempt", attempt,
				"error", err,
			)

			if ctx.Err() != nil {
				return "", errors.Join(append(errs, ctx.Err())...)
			}
		}
	}

	if rejected != "" {
		log.Warnw("no translation passed the check, keeping the first one", "service", rejectedBy)
		return rejected, nil
	}
	return "", errors.Join(errs...)
}

func (f *Fallback) check(text, targetLang string) error {
	if f.Checker == nil {
		return nil
	}
	return f.Checker.Check(text, targetLang)
}
