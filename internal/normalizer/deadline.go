package normalizer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Normalizer превращает недоверенный черновик в канонический.
// Часовой пояс задаётся явно в конфигурации — поведение не должно
// зависеть от локали хоста.
type Normalizer struct {
	loc *time.Location
}

func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{loc: loc}
}

func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// D-M-YYYY или D/M/YYYY, опционально время H или H:MM и суффикс am/pm
var dayFirstPattern = regexp.MustCompile(
	`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})(?:[ T](\d{1,2})(?::(\d{2}))?(?:\s*([AaPp][Mm]))?)?$`)

var isoLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseDeadline разбирает дедлайн каскадом форматов: ISO, день-месяц-год,
// затем универсальный парсер. Первый успешный формат выигрывает.
// Неразбираемый ввод — это отсутствие дедлайна, не ошибка.
// Относительные фразы ("завтра") не разрешаются и дают отсутствие.
func (n *Normalizer) ParseDeadline(raw string, now time.Time) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := n.parseISO(s); ok {
		return t, true
	}
	if t, ok := n.parseDayFirst(s); ok {
		return t, true
	}
	return n.parseFreeForm(s, now)
}

// parseISO: YYYY-MM-DD с опциональным временем. Дата без времени означает
// "до конца дня" — 23:59:00.
func (n *Normalizer) parseISO(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, n.loc); err == nil {
			return t, true
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", s, n.loc); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, n.loc), true
	}
	return time.Time{}, false
}

// parseDayFirst: D-M-YYYY с 12-часовым суффиксом. Диапазоны проверяются
// по написанным цифрам (месяц 1..12, день 1..31, час 0..23, минута 0..59),
// календарная длина месяца сознательно не проверяется.
func (n *Normalizer) parseDayFirst(s string) (time.Time, bool) {
	m := dayFirstPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	hour, minute := 23, 59
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute = 0
		if m[5] != "" {
			minute, _ = strconv.Atoi(m[5])
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, false
	}

	switch strings.ToLower(m[6]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, n.loc), true
}

// parseFreeForm отдаёт строку универсальному парсеру. Год, не указанный
// во вводе, берётся из опорного "сейчас".
func (n *Normalizer) parseFreeForm(s string, now time.Time) (time.Time, bool) {
	t, err := dateparse.ParseIn(s, n.loc)
	if err != nil {
		return time.Time{}, false
	}
	if t.Year() == 0 {
		t = time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, n.loc)
	}
	return t, true
}
