package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// LLMConfig configures the OpenAI-compatible completion client.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMProvider generates text through an OpenAI-compatible chat
// completions endpoint. One attempt per call with a bounded timeout;
// any failure (transport, auth, quota, malformed response) is logged
// and answered from the template fallback instead. Callers never see
// an error.
type LLMProvider struct {
	logger   *slog.Logger
	client   *http.Client
	baseURL  string
	model    string
	apiKey   string
	fallback *TemplateProvider
}

func NewLLMProvider(logger *slog.Logger, cfg LLMConfig, fallback *TemplateProvider) *LLMProvider {
	timeout := 15 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &LLMProvider{
		logger:   logger,
		client:   &http.Client{Timeout: timeout},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		fallback: fallback,
	}
}

func (p *LLMProvider) Generate(ctx context.Context, kind Kind, in Input) string {
	// Descriptions keep the template mix's 20% empty share even on the
	// LLM path, so the empty draw happens before any network call.
	if kind == KindTaskDescription && p.fallback.rng.Float64() < 0.20 {
		return ""
	}

	pr := promptFor(kind, in)
	text, err := p.complete(ctx, pr)
	if err != nil {
		p.logger.Warn("content generation failed, using template fallback",
			"kind", kind, "error", err)
		return p.fallback.Generate(ctx, kind, in)
	}
	return text
}

type prompt struct {
	system      string
	user        string
	temperature float64
	maxTokens   int
}

func promptFor(kind Kind, in Input) prompt {
	switch kind {
	case KindTaskName:
		return prompt{
			system:      "You are a helpful assistant that generates realistic task names for project management software.",
			user:        fmt.Sprintf("Generate a realistic %s task name. Respond with the name only.", in.ProjectType),
			temperature: 0.8,
			maxTokens:   50,
		}
	case KindTaskDescription:
		return prompt{
			system:      "You are a helpful assistant that generates realistic task descriptions for project management.",
			user:        fmt.Sprintf("Generate a brief task description (1-3 sentences) for a %s project task: %q.", in.ProjectType, in.TaskName),
			temperature: 0.7,
			maxTokens:   200,
		}
	case KindComment:
		return prompt{
			system:      "You are a helpful assistant that generates realistic work comments.",
			user:        fmt.Sprintf("Generate a realistic, concise (1-2 sentence) comment for a task %q in a %s project.", in.TaskName, in.ProjectType),
			temperature: 0.8,
			maxTokens:   100,
		}
	case KindProjectDescription:
		return prompt{
			system:      "You are a helpful assistant that generates realistic project descriptions for project management software.",
			user:        fmt.Sprintf("Generate a 1-2 sentence description for a %s project named %q.", in.ProjectType, in.ProjectName),
			temperature: 0.7,
			maxTokens:   120,
		}
	default:
		return prompt{
			system:      "You are a helpful assistant that generates realistic workspace text.",
			user:        fmt.Sprintf("Generate a one-sentence description for the team %q.", in.TeamName),
			temperature: 0.7,
			maxTokens:   80,
		}
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (p *LLMProvider) complete(ctx context.Context, pr prompt) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: pr.system},
			{Role: "user", Content: pr.user},
		},
		Temperature: pr.temperature,
		MaxTokens:   pr.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("completion endpoint returned %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("response contained empty text")
	}
	return text, nil
}
