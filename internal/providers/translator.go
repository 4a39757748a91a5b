package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrProviderNotSupported = errors.New("translation provider not supported")

type TranslateRequest struct {
	Text       string
	TargetLang string
	Formality  string
}

type Translator interface {
	Translate(ctx context.Context, req TranslateRequest) (string, error)
}

type Registry struct {
	translators map[string]Translator
}

func NewRegistry() *Registry {
	return &Registry{
		translators: make(map[string]Translator),
	}
}

func (r *Registry) Register(provider string, translator Translator) {
	r.translators[strings.ToLower(provider)] = translator
}

func (r *Registry) Translator(provider string) (Translator, error) {
	translator, ok := r.translators[strings.ToLower(provider)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotSupported, provider)
	}
	return translator, nil
}

// EchoTranslator returns the input tagged with the requested language. Useful
// for running the service locally without provider credentials.
type EchoTranslator struct{}

func (EchoTranslator) Translate(_ context.Context, req TranslateRequest) (string, error) {
	return fmt.Sprintf("[%s formality=%s] %s", req.TargetLang, req.Formality, req.Text), nil
}
