package service

import (
	"context"
	"errors"

	"github.com/Juicern/kotoba/internal/domain"
	"github.com/Juicern/kotoba/internal/providers"
)

const (
	MsgVideoUnavailable    = "Error: The video is unavailable."
	MsgTranscriptsDisabled = "Error: Transcripts are disabled for this video."
	MsgNoTranscript        = "Error: No transcript is available for this video."
)

type TranscriptService struct {
	provider providers.TranscriptProvider
}

func NewTranscriptService(provider providers.TranscriptProvider) *TranscriptService {
	return &TranscriptService{provider: provider}
}

// Fetch makes a single provider call and folds any failure into the result.
func (s *TranscriptService) Fetch(ctx context.Context, videoID string) domain.TranscriptResult {
	segments, err := s.provider.FetchTranscript(ctx, videoID)
	if err != nil {
		return transcriptFailure(err)
	}
	if segments == nil {
		segments = []domain.TranscriptSegment{}
	}
	return domain.TranscriptResult{Segments: segments}
}

func transcriptFailure(err error) domain.TranscriptResult {
	switch {
	case errors.Is(err, providers.ErrVideoUnavailable):
		return domain.TranscriptResult{Failure: domain.FailureVideoUnavailable, Message: MsgVideoUnavailable}
	case errors.Is(err, providers.ErrTranscriptsDisabled):
		return domain.TranscriptResult{Failure: domain.FailureTranscriptsDisabled, Message: MsgTranscriptsDisabled}
	case errors.Is(err, providers.ErrNoTranscript):
		return domain.TranscriptResult{Failure: domain.FailureNoTranscript, Message: MsgNoTranscript}
	default:
		return domain.TranscriptResult{Failure: domain.FailureUnexpected, Message: "An error occurred: " + err.Error()}
	}
}
