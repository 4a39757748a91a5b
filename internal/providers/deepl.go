package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	deepLProURL  = "https://api.deepl.com"
	deepLFreeURL = "https://api-free.deepl.com"
)

// DeepLError is a non-2xx answer from the DeepL API.
type DeepLError struct {
	StatusCode int
	Message    string
}

func (e *DeepLError) Error() string {
	return fmt.Sprintf("deepl: %s (HTTP %d)", e.Message, e.StatusCode)
}

type DeepLClient struct {
	authKey    string
	serverURL  string
	httpClient *http.Client
}

// NewDeepLClient targets serverURL, or the free/pro endpoint implied by the
// key when serverURL is empty. Free-tier keys end in ":fx".
func NewDeepLClient(authKey, serverURL string, httpClient *http.Client) *DeepLClient {
	if serverURL == "" {
		serverURL = deepLProURL
		if strings.HasSuffix(authKey, ":fx") {
			serverURL = deepLFreeURL
		}
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &DeepLClient{
		authKey:    authKey,
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: httpClient,
	}
}

type deepLRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
	Formality  string   `json:"formality,omitempty"`
}

type deepLResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

func (c *DeepLClient) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	if c.authKey == "" {
		return "", errors.New("missing DeepL auth key")
	}

	body, err := json.Marshal(deepLRequest{
		Text:       []string{req.Text},
		TargetLang: req.TargetLang,
		Formality:  req.Formality,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/v2/translate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+c.authKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("deepl: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", newDeepLError(resp)
	}

	var out deepLResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("deepl: decode response: %w", err)
	}
	if len(out.Translations) == 0 {
		return "", errors.New("deepl: response contained no translations")
	}
	return out.Translations[0].Text, nil
}

func newDeepLError(resp *http.Response) *DeepLError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	msg := ""
	if json.Unmarshal(raw, &payload) == nil {
		msg = payload.Message
		if payload.Detail != "" {
			msg = strings.TrimSpace(msg + ", " + payload.Detail)
		}
	}
	if msg == "" {
		msg = deepLStatusMessage(resp.StatusCode)
	}
	return &DeepLError{StatusCode: resp.StatusCode, Message: msg}
}

func deepLStatusMessage(code int) string {
	switch code {
	case http.StatusForbidden:
		return "authorization failure, check auth key"
	case 456:
		return "quota for this billing period has been exceeded"
	case http.StatusTooManyRequests:
		return "too many requests, DeepL servers are currently experiencing high load"
	case http.StatusBadRequest:
		return "bad request"
	default:
		if text := http.StatusText(code); text != "" {
			return strings.ToLower(text)
		}
		return "unexpected status"
	}
}
