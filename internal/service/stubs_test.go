package service

import (
	"context"

	"github.com/Juicern/kotoba/internal/domain"
	"github.com/Juicern/kotoba/internal/providers"
)

type stubTranscriptProvider struct {
	segments []domain.TranscriptSegment
	err      error
	calls    int
	lastID   string
}

func (s *stubTranscriptProvider) FetchTranscript(_ context.Context, videoID string) ([]domain.TranscriptSegment, error) {
	s.calls++
	s.lastID = videoID
	return s.segments, s.err
}

type stubTranslator struct {
	out   string
	err   error
	calls int
	last  providers.TranslateRequest
}

func (s *stubTranslator) Translate(_ context.Context, req providers.TranslateRequest) (string, error) {
	s.calls++
	s.last = req
	return s.out, s.err
}
