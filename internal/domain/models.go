package domain

// TranscriptSegment is one captioned line as emitted by the transcript provider.
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

type TranscriptFailure string

const (
	FailureNone                TranscriptFailure = ""
	FailureVideoUnavailable    TranscriptFailure = "video_unavailable"
	FailureTranscriptsDisabled TranscriptFailure = "transcripts_disabled"
	FailureNoTranscript        TranscriptFailure = "no_transcript"
	FailureUnexpected          TranscriptFailure = "unexpected"
)

// TranscriptResult carries either Segments or a Failure with its Message.
type TranscriptResult struct {
	Segments []TranscriptSegment
	Failure  TranscriptFailure
	Message  string
}

func (r TranscriptResult) OK() bool {
	return r.Failure == FailureNone
}

const (
	TargetLangJapanese = "JA"
	FormalityMore      = "more"
)
