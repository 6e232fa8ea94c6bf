package normalizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrProviderUnavailable — провайдер не настроен, не отвечает или вернул
// нечитаемый ответ. Отличается от пустой подсказки: вызывающий решает,
// деградировать в эвристику или сообщить пользователю про настройку ключа.
var ErrProviderUnavailable = errors.New("провайдер подсказок недоступен")

// Provider — внешний источник подсказок по свободному тексту.
// Ответ считается недоверенным и целиком проходит через Normalize.
type Provider interface {
	Suggest(ctx context.Context, text string, now time.Time) (*RawDraft, error)
}

// Builder оркестрирует вызов провайдера и нормализацию результата.
type Builder struct {
	norm     *Normalizer
	provider Provider
}

func NewBuilder(norm *Normalizer, provider Provider) *Builder {
	return &Builder{
		norm:     norm,
		provider: provider,
	}
}

func (b *Builder) Configured() bool {
	return b.provider != nil
}

// Parse разбирает свободный текст через провайдера и нормализует результат.
// Без провайдера — ErrProviderUnavailable, падение провайдера не маскируется.
func (b *Builder) Parse(ctx context.Context, text string, now time.Time) (*Draft, error) {
	if b.provider == nil {
		return nil, fmt.Errorf("провайдер не сконфигурирован: %w", ErrProviderUnavailable)
	}

	suggestion, err := b.provider.Suggest(ctx, text, now)
	if err != nil {
		return nil, fmt.Errorf("подсказка провайдера: %w", err)
	}
	// ответ провайдера не мутируется: чистка заголовка работает на копии
	if suggestion != nil && suggestion.Title != nil {
		copied := *suggestion
		cleaned := CleanTitle(*copied.Title)
		copied.Title = &cleaned
		suggestion = &copied
	}

	description := strings.TrimSpace(text)
	merged := MergeSuggestion(RawDraft{Description: &description}, suggestion)
	if isBlank(merged.Title) {
		title := CleanTitle(truncate(text, maxTitleLen))
		merged.Title = &title
	}

	draft, err := b.norm.Normalize(merged, now)
	if err != nil {
		return nil, err
	}

	// провайдер не дал пригодного дедлайна — пробуем вытащить из текста
	if draft.Deadline == nil {
		if guessed, ok := b.norm.GuessDeadline(text, now); ok {
			draft.Deadline = &guessed
		}
	}
	return draft, nil
}

// ParseWithFallback — как Parse, но недоступность провайдера деградирует
// в эвристический разбор. Второе значение сообщает, использовался ли провайдер.
func (b *Builder) ParseWithFallback(ctx context.Context, text string, now time.Time) (*Draft, bool, error) {
	draft, err := b.Parse(ctx, text, now)
	if err == nil {
		return draft, true, nil
	}
	if !errors.Is(err, ErrProviderUnavailable) {
		return nil, false, err
	}

	draft, err = b.norm.Normalize(b.norm.GuessFromText(text, now), now)
	if err != nil {
		return nil, false, err
	}
	return draft, false, nil
}

// Enrich дополняет существующий черновик подсказками провайдера по политике
// fill-if-empty: категория и приоритет, заданные пользователем, не перетираются,
// сабтаски провайдера дописываются после существующих.
func (b *Builder) Enrich(ctx context.Context, raw RawDraft, now time.Time) (*Draft, error) {
	if b.provider == nil {
		return nil, fmt.Errorf("провайдер не сконфигурирован: %w", ErrProviderUnavailable)
	}

	var parts []string
	if raw.Title != nil && strings.TrimSpace(*raw.Title) != "" {
		parts = append(parts, strings.TrimSpace(*raw.Title))
	}
	if raw.Description != nil && strings.TrimSpace(*raw.Description) != "" {
		parts = append(parts, strings.TrimSpace(*raw.Description))
	}
	text := strings.Join(parts, ". ")

	suggestion, err := b.provider.Suggest(ctx, text, now)
	if err != nil {
		return nil, fmt.Errorf("подсказка провайдера: %w", err)
	}

	return b.norm.Normalize(MergeSuggestion(raw, suggestion), now)
}
