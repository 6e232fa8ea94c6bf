package normalizer

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Эвристический разбор свободного текста — путь без провайдера.
// Повторяет поведение ручного ввода: вводные фразы срезаются из заголовка,
// дедлайн ищется в тексте, учебные ключевые слова дают категорию.

var ordinalPattern = regexp.MustCompile(`(?i)(\d+)(st|nd|rd|th)\b`)

var introPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^add a reminder to\s*`),
	regexp.MustCompile(`(?i)^remind me to\s*`),
	regexp.MustCompile(`(?i)^set a reminder to\s*`),
	regexp.MustCompile(`(?i)^please\s*`),
	regexp.MustCompile(`(?i)^i need to\s*`),
	regexp.MustCompile(`(?i)^i should\s*`),
	regexp.MustCompile(`(?i)^have to\s*`),
}

// хвостовые обороты, после которых заголовок обрезается;
// составные фразы идут раньше своих подстрок
var trailingClauses = []string{
	"by ", "before ", "due ", "deadline",
	"high priority", "low priority", "medium priority",
	"priority", "urgent",
}

var academicKeywords = []string{
	"assignment", "homework", "project", "lab report", "exam", "college", "university",
}

// ключевые слова, после которых в тексте обычно стоит дата
var deadlineLeads = []string{" by ", " before ", " due ", " on ", " until "}

var timeOfDayPattern = regexp.MustCompile(`(?i)\d{1,2}:\d{2}|\b(am|pm)\b`)

const maxTitleLen = 60

// GuessFromText строит черновик из свободного текста без провайдера.
// Результат — такой же недоверенный RawDraft, он обязан пройти Normalize.
func (n *Normalizer) GuessFromText(text string, now time.Time) RawDraft {
	title := CleanTitle(truncate(text, maxTitleLen))
	description := strings.TrimSpace(text)

	raw := RawDraft{
		Title:       &title,
		Description: &description,
	}

	if deadline, ok := n.GuessDeadline(text, now); ok {
		raw.Deadline = &deadline
	}
	if category := detectAcademicCategory(text); category != "" {
		raw.Category = &category
	}
	return raw
}

// CleanTitle срезает вводные фразы и хвостовые обороты про сроки/приоритет.
// Применяется и к заголовкам, которые вернул провайдер.
func CleanTitle(title string) string {
	title = strings.ToLower(strings.TrimSpace(title))
	for _, phrase := range introPhrases {
		title = phrase.ReplaceAllString(title, "")
	}
	for _, clause := range trailingClauses {
		if idx := strings.Index(title, clause); idx >= 0 {
			title = title[:idx]
		}
	}
	return strings.Trim(title, " .,-")
}

// GuessDeadline ищет дедлайн в произвольном тексте: сначала строка целиком,
// затем остаток после ключевых слов ("by", "due", ...). Дата без времени
// суток сдвигается на конец дня.
func (n *Normalizer) GuessDeadline(text string, now time.Time) (time.Time, bool) {
	s := stripOrdinals(strings.TrimSpace(text))

	for _, candidate := range deadlineCandidates(s) {
		t, ok := n.ParseDeadline(candidate, now)
		if !ok {
			continue
		}
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && !timeOfDayPattern.MatchString(s) {
			t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, n.loc)
		}
		return t, true
	}
	return time.Time{}, false
}

func deadlineCandidates(s string) []string {
	candidates := []string{s}
	lower := strings.ToLower(s)
	for _, lead := range deadlineLeads {
		if idx := strings.LastIndex(lower, lead); idx >= 0 {
			tail := s[idx+len(lead):]
			candidates = append(candidates, strings.Trim(tail, " .,!?"))
		}
	}
	return candidates
}

func detectAcademicCategory(text string) string {
	lower := strings.ToLower(text)
	for _, keyword := range academicKeywords {
		if strings.Contains(lower, keyword) {
			return "education"
		}
	}
	return ""
}

// stripOrdinals: "22nd" -> "22", иначе парсер спотыкается о суффиксы
func stripOrdinals(s string) string {
	return ordinalPattern.ReplaceAllString(s, "$1")
}

// truncate режет по границе руны, иначе многобайтовый символ
// на срезе превращается в U+FFFD
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
