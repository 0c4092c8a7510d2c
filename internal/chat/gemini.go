package chat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Skotchmaster/bookstore/internal/models"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient streams replies from the Gemini generateContent API.
type GeminiClient struct {
	apiKey     string
	model      string
	system     string
	baseURL    string
	httpClient *http.Client
}

type GeminiOption func(*GeminiClient)

func WithBaseURL(u string) GeminiOption {
	return func(c *GeminiClient) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) GeminiOption {
	return func(c *GeminiClient) { c.httpClient = hc }
}

func WithSystemInstruction(s string) GeminiOption {
	return func(c *GeminiClient) { c.system = s }
}

func NewGeminiClient(apiKey, model string, opts ...GeminiOption) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key required")
	}
	model = strings.TrimPrefix(strings.TrimSpace(model), "models/")
	if model == "" {
		model = DefaultModel
	}
	c := &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		system:  SystemInstruction,
		baseURL: defaultGeminiBaseURL,
		// No client timeout: a reply streams for as long as the model writes.
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *GeminiClient) Stream(ctx context.Context, history []Turn) <-chan Fragment {
	out := make(chan Fragment)
	go func() {
		defer close(out)
		if err := c.stream(ctx, history, out); err != nil {
			select {
			case out <- Fragment{Err: err}:
			case <-ctx.Done():
			}
		}
	}()
	return out
}

func (c *GeminiClient) stream(ctx context.Context, history []Turn, out chan<- Fragment) error {
	reqBody := generateRequest{Contents: make([]content, 0, len(history))}
	for _, t := range history {
		reqBody.Contents = append(reqBody.Contents, content{
			Role:  geminiRole(t.Role),
			Parts: []part{{Text: t.Text}},
		})
	}
	if strings.TrimSpace(c.system) != "" {
		reqBody.SystemInstruction = &content{Parts: []part{{Text: c.system}}}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}
	// The key travels in a header so transport errors, which quote the URL,
	// never carry it into logs.
	u := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error.Message != "" {
			return fmt.Errorf("gemini api error: %s", errResp.Error.Message)
		}
		return fmt.Errorf("gemini api error: %s", resp.Status)
	}

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "" || data == "[DONE]" {
			continue
		}
		var chunk generateResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return fmt.Errorf("decode gemini event: %w", err)
		}
		if chunk.Error != nil && chunk.Error.Message != "" {
			return fmt.Errorf("gemini api error: %s", chunk.Error.Message)
		}
		if text := chunk.text(); text != "" {
			select {
			case out <- Fragment{Text: text}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return sc.Err()
}

func geminiRole(r models.ChatRole) string {
	if r == models.ChatUser {
		return "user"
	}
	return "model"
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

type errorResponse struct {
	Error apiError `json:"error"`
}
