package service

import (
	"context"

	"github.com/Juicern/kotoba/internal/domain"
	"github.com/Juicern/kotoba/internal/providers"
)

// MaxTranslationBytes caps the UTF-8 size of a single translation request.
const MaxTranslationBytes = 128 * 1024

type TranslationService struct {
	translator providers.Translator
}

func NewTranslationService(translator providers.Translator) *TranslationService {
	return &TranslationService{translator: translator}
}

// Translate renders text as formal Japanese. Oversized input never reaches the provider.
func (s *TranslationService) Translate(ctx context.Context, text string) (string, error) {
	if len(text) > MaxTranslationBytes {
		return "", ErrTextTooLarge
	}

	return s.translator.Translate(ctx, providers.TranslateRequest{
		Text:       text,
		TargetLang: domain.TargetLangJapanese,
		Formality:  domain.FormalityMore,
	})
}
