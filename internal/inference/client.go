package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"taskPlanner/internal/logger"
	"taskPlanner/internal/normalizer"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrUnavailable — алиас контрактной ошибки нормализатора: ключ не задан,
// сеть недоступна, таймаут или нечитаемое тело ответа.
var ErrUnavailable = normalizer.ErrProviderUnavailable

const defaultTimeout = 15 * time.Second

type Config struct {
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client — клиент OpenAI-совместимого chat-completions API.
// Один запрос без повторов, ограниченный таймаут; любая неудача
// транспорта не фатальна для вызывающего.
type Client struct {
	http       *resty.Client
	model      string
	configured bool
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(cfg.APIURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.APIKey)

	return &Client{
		http:       httpClient,
		model:      cfg.Model,
		configured: cfg.APIKey != "",
	}
}

func (c *Client) Configured() bool {
	return c.configured
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Suggest запрашивает у модели разбор свободного текста в поля задачи.
// Возвращает недоверенный черновик: мусор в отдельных полях отбрасывается
// здесь, дальше поля деградируют в нормализаторе наравне с ручным вводом.
func (c *Client) Suggest(ctx context.Context, text string, now time.Time) (*normalizer.RawDraft, error) {
	if !c.configured {
		return nil, fmt.Errorf("ключ API не задан: %w", ErrUnavailable)
	}

	body := chatRequest{
		Model:       c.model,
		Temperature: 0.2,
		Messages: []chatMessage{
			{Role: "system", Content: "Respond with VALID JSON only."},
			{Role: "user", Content: buildPrompt(text, now)},
		},
	}

	var out chatResponse
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		logger.Warn("Inference: запрос к провайдеру не удался", zap.Error(err))
		return nil, fmt.Errorf("запрос к провайдеру: %w", ErrUnavailable)
	}
	if resp.IsError() {
		logger.Warn("Inference: провайдер вернул ошибку",
			zap.Int("status", resp.StatusCode()),
			zap.String("message", apiErr.Error.Message))
		return nil, fmt.Errorf("провайдер вернул статус %d: %w", resp.StatusCode(), ErrUnavailable)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("пустой ответ провайдера: %w", ErrUnavailable)
	}

	suggestion, err := parseSuggestion(out.Choices[0].Message.Content)
	if err != nil {
		logger.Warn("Inference: нечитаемый ответ модели", zap.Error(err))
		return nil, fmt.Errorf("разбор ответа модели: %w", ErrUnavailable)
	}
	return suggestion, nil
}

func buildPrompt(text string, now time.Time) string {
	var b strings.Builder
	b.WriteString("Extract a clean task title that clearly states the action.\n")
	b.WriteString("Title must be short and actionable (e.g., \"Submit machine learning assignment\").\n")
	b.WriteString("Do NOT include words like \"remind\", \"add\", \"please\", \"high priority\", or deadlines in the title.\n\n")
	b.WriteString("Parse into JSON with keys: title, description, deadline, priority, category, subtasks.\n")
	b.WriteString("Priority must be one of: low, medium, high, urgent.\n\n")
	b.WriteString("Today: " + now.Format("Monday, January 2, 2006") + "\n")
	b.WriteString("Text: \"" + text + "\"\n")
	return b.String()
}

// parseSuggestion разбирает JSON из ответа модели по полям: целиком
// нечитаемое тело — ошибка, мусор в отдельном поле просто отбрасывается.
func parseSuggestion(content string) (*normalizer.RawDraft, error) {
	content = stripCodeFence(content)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return nil, fmt.Errorf("ответ не является JSON-объектом: %w", err)
	}

	suggestion := &normalizer.RawDraft{
		Title:        stringField(fields, "title"),
		Description:  stringField(fields, "description"),
		DeadlineText: stringField(fields, "deadline"),
		Priority:     stringField(fields, "priority"),
		Category:     stringField(fields, "category"),
		Subtasks:     stringListField(fields, "subtasks"),
	}
	return suggestion, nil
}

// модель иногда оборачивает JSON в ```-блок
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

func stringField(fields map[string]json.RawMessage, key string) *string {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

func stringListField(fields map[string]json.RawMessage, key string) []string {
	raw, ok := fields[key]
	if !ok {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	// допускаем смешанный список, строки забираем, остальное пропускаем
	var mixed []json.RawMessage
	if err := json.Unmarshal(raw, &mixed); err != nil {
		return nil
	}
	var result []string
	for _, item := range mixed {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			result = append(result, s)
		}
	}
	return result
}
