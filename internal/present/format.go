// Package present renders user-facing response text.
//
// Everything here is a pure function of the match list and stored
// metadata. Responses are in Russian, matching the deployment's
// audience.
package present

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/recallbot/internal/logging"
	"github.com/fyrsmithlabs/recallbot/internal/memory"
)

const (
	// singlePreviewLimit bounds the single-match preview.
	singlePreviewLimit = 150

	// summaryPreviewLimit bounds each entry in the indexed summary.
	summaryPreviewLimit = 200

	// maxSummaryEntries caps the indexed summary display length when the
	// caller does not supply a limit.
	maxSummaryEntries = 5
)

// ResultUnavailable reports a cached result that can no longer be
// rendered. Distinct from NoActiveSession: the session exists, this one
// entry is broken.
func ResultUnavailable() string {
	return "Не удалось открыть этот результат. Попробуйте выполнить поиск заново."
}

// NotFound is the canned zero-match response with suggestions.
func NotFound() string {
	return "🔍 Ничего не найдено.\n\n" +
		"Попробуйте:\n" +
		"• переформулировать запрос\n" +
		"• использовать другие ключевые слова\n" +
		"• проверить, что информация была сохранена"
}

// NoActiveSession tells the user to search before selecting.
func NoActiveSession() string {
	return "Нет активного поиска. Сначала отправьте запрос, затем выбирайте результат по номеру."
}

// OutOfRange reports the valid selection range [1, max].
func OutOfRange(max int) string {
	return fmt.Sprintf("Нет такого результата. Доступны результаты от #1 до #%d.", max)
}

// SinglePreview renders the immediate type-tagged preview for exactly
// one match. The original message forward happens after this text, so
// a forward failure needs no extra message.
func SinglePreview(it memory.Item) string {
	return fmt.Sprintf("%s %s: %s", it.Type.Glyph(), it.Type.Label(), logging.Preview(it.Text, singlePreviewLimit))
}

// OriginalUnavailable prefixes the memory-only fallback when the
// original message cannot be copied.
func OriginalUnavailable() string {
	return "ℹ Оригинальное сообщение удалено или недоступно, но вот информация из него:"
}

// StoredSummary renders a memory-only view of one item, built purely
// from stored metadata.
func StoredSummary(it memory.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n%s", it.Type.Glyph(), it.Type.Label(), it.Text)
	if it.URL != "" {
		fmt.Fprintf(&b, "\n%s", it.URL)
	}
	if it.Type == memory.TypeLocation {
		fmt.Fprintf(&b, "\n📍 %f, %f", it.Latitude, it.Longitude)
		if it.Address != "" {
			fmt.Fprintf(&b, " (%s)", it.Address)
		}
	}
	fmt.Fprintf(&b, "\n(сообщение %d в чате %d)", it.MessageID, it.ChatID)
	return b.String()
}

// Summary renders the indexed multi-match summary: header with the full
// match count, up to limit 1-based entries, truncation footnote, and
// the selection instruction. A non-positive limit falls back to five.
// Entries beyond the limit stay selectable by index; only the display
// is truncated.
func Summary(items []memory.Item, limit int) string {
	if limit <= 0 {
		limit = maxSummaryEntries
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 Найдено результатов: %d\n\n", len(items))

	shown := items
	if len(shown) > limit {
		shown = shown[:limit]
	}
	for i, it := range shown {
		fmt.Fprintf(&b, "%d. %s %s: %s\n", i+1, it.Type.Glyph(), it.Type.Label(), logging.Preview(it.Text, summaryPreviewLimit))
	}

	if len(items) > limit {
		fmt.Fprintf(&b, "\n(показаны первые %d из %d)\n", limit, len(items))
	}

	b.WriteString("\nЧтобы открыть результат, отправьте «покажи #N», например «покажи #1».")
	return b.String()
}
