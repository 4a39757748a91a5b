package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/Juicern/kotoba/internal/domain"
)

var (
	ErrVideoUnavailable    = errors.New("video is unavailable")
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")
	ErrNoTranscript        = errors.New("no transcript is available for this video")
)

const (
	defaultYouTubeBaseURL = "https://www.youtube.com"
	playerResponseMarker  = "ytInitialPlayerResponse = "
	youTubeUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	maxWatchPageBytes     = 6 << 20
	maxTimedTextBytes     = 2 << 20
)

type TranscriptProvider interface {
	FetchTranscript(ctx context.Context, videoID string) ([]domain.TranscriptSegment, error)
}

// YouTubeClient reads captions the way the watch page does: it pulls the
// player response out of the page HTML and downloads the chosen timedtext track.
type YouTubeClient struct {
	baseURL    string
	httpClient *http.Client
	languages  []string
}

func NewYouTubeClient(baseURL string, httpClient *http.Client, languages []string) *YouTubeClient {
	if baseURL == "" {
		baseURL = defaultYouTubeBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &YouTubeClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		languages:  languages,
	}
}

type playerResponse struct {
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

type timedText struct {
	Lines []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Text  string `xml:",chardata"`
	} `xml:"text"`
}

func (c *YouTubeClient) FetchTranscript(ctx context.Context, videoID string) ([]domain.TranscriptSegment, error) {
	player, err := c.fetchPlayerResponse(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if status := player.PlayabilityStatus; status != nil && status.Status != "OK" {
		if status.Reason != "" {
			return nil, fmt.Errorf("%w: %s", ErrVideoUnavailable, status.Reason)
		}
		return nil, ErrVideoUnavailable
	}
	if player.Captions == nil {
		return nil, ErrTranscriptsDisabled
	}
	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, ErrNoTranscript
	}

	track, ok := pickTrack(tracks, c.languages)
	if !ok {
		return nil, fmt.Errorf("%w: every caption track requires a PoToken", ErrNoTranscript)
	}

	// srv3 is a richer format than the plain <text start dur> layout parsed below.
	trackURL := strings.Replace(track.BaseURL, "&fmt=srv3", "", 1)
	return c.fetchTimedText(ctx, trackURL)
}

func (c *YouTubeClient) fetchPlayerResponse(ctx context.Context, videoID string) (playerResponse, error) {
	watchURL := c.baseURL + "/watch?v=" + url.QueryEscape(videoID)
	body, err := c.get(ctx, watchURL, maxWatchPageBytes)
	if err != nil {
		return playerResponse{}, fmt.Errorf("watch page: %w", err)
	}

	idx := bytes.Index(body, []byte(playerResponseMarker))
	if idx < 0 {
		// Pages for removed or malformed IDs carry no player response at all.
		return playerResponse{}, ErrVideoUnavailable
	}

	var player playerResponse
	dec := json.NewDecoder(bytes.NewReader(body[idx+len(playerResponseMarker):]))
	if err := dec.Decode(&player); err != nil {
		return playerResponse{}, fmt.Errorf("decode player response: %w", err)
	}
	return player, nil
}

var markupRE = regexp.MustCompile(`<[^>]*>`)

func (c *YouTubeClient) fetchTimedText(ctx context.Context, trackURL string) ([]domain.TranscriptSegment, error) {
	body, err := c.get(ctx, trackURL, maxTimedTextBytes)
	if err != nil {
		return nil, fmt.Errorf("timedtext: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("timedtext: empty response body")
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext: %w", err)
	}

	segments := make([]domain.TranscriptSegment, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := strings.TrimSpace(markupRE.ReplaceAllString(html.UnescapeString(line.Text), ""))
		if text == "" {
			continue
		}
		segments = append(segments, domain.TranscriptSegment{
			Text:     text,
			Start:    parseSeconds(line.Start),
			Duration: parseSeconds(line.Dur),
		})
	}
	return segments, nil
}

func (c *YouTubeClient) get(ctx context.Context, target string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", youTubeUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	// Skips the EU consent interstitial.
	req.Header.Set("Cookie", "CONSENT=YES+cb")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

// needsPoToken reports whether a caption track URL can only be fetched by a
// browser holding a PoToken. YouTube answers such URLs with an empty body.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickTrack skips PoToken-bound tracks, then prefers a manual track in a
// requested language, then an auto-generated one, then any English track,
// then whatever comes first. ok is false when no track is usable.
func pickTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}

	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

func parseSeconds(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
