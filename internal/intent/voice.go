package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/recallbot/internal/llm"
	"github.com/fyrsmithlabs/recallbot/internal/logging"
)

// VoiceIntent describes what a transcribed voice message wants.
type VoiceIntent string

const (
	// VoiceQuery asks a question or searches saved content.
	VoiceQuery VoiceIntent = "QUERY"

	// VoiceSave dictates new content to persist.
	VoiceSave VoiceIntent = "SAVE"

	// VoiceSelect references a previously shown result by number.
	VoiceSelect VoiceIntent = "SELECT"
)

// VoiceClassification is the output of the voice classifier.
// Number is 0 unless Intent is VoiceSelect.
type VoiceClassification struct {
	Intent VoiceIntent
	Number int
}

// defaultVoiceClassification saves the transcription. Biased toward not
// losing user-dictated information when the provider fails.
var defaultVoiceClassification = VoiceClassification{Intent: VoiceSave}

const classifyVoicePrompt = `Проанализируй это голосовое сообщение: %q

Определи намерение пользователя:
- QUERY: Пользователь задаёт вопрос или ищет информацию
- SAVE: Пользователь диктует информацию для сохранения (заметки, мысли, описание)
- SELECT: Пользователь просит показать конкретный результат поиска (например: "покажи номер 2", "давай второй", "третий вариант")

Примеры QUERY:
- "Что было на той встрече про офис?"
- "Найди счёт от января"
- "Покажи фото с конференции"

Примеры SAVE:
- "Запомни, встреча завтра в 3 часа"
- "Это важный момент для презентации"

Примеры SELECT:
- "Покажи номер 2" -> intent: SELECT, number: 2
- "Давай третий" -> intent: SELECT, number: 3

Ответь ТОЛЬКО валидным JSON:
{
  "intent": "QUERY" | "SAVE" | "SELECT",
  "number": <integer or null>
}`

// ClassifyVoice maps a transcription to a voice intent. It always
// returns a structurally valid classification; on any failure it
// degrades to SAVE.
func (c *Classifier) ClassifyVoice(ctx context.Context, transcription string) VoiceClassification {
	response, err := c.provider.Complete(ctx, "", fmt.Sprintf(classifyVoicePrompt, transcription))
	if err != nil {
		c.logger.Warn(ctx, "voice intent classification failed, defaulting to save",
			zap.String("transcription", logging.Preview(transcription, 50)),
			zap.Error(err),
		)
		return defaultVoiceClassification
	}

	classification, ok := parseVoiceClassification(response)
	if !ok {
		c.logger.Warn(ctx, "unparseable voice classification, defaulting to save",
			zap.String("response", logging.Preview(response, 100)),
		)
		return defaultVoiceClassification
	}

	c.logger.Info(ctx, "voice intent classified",
		zap.String("intent", string(classification.Intent)),
		zap.Int("number", classification.Number),
		zap.String("transcription", logging.Preview(transcription, 50)),
	)
	return classification
}

func parseVoiceClassification(response string) (VoiceClassification, bool) {
	raw := llm.ExtractJSONObject(response)
	if raw == "" {
		return VoiceClassification{}, false
	}

	var parsed struct {
		Intent string `json:"intent"`
		Number *int   `json:"number"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return VoiceClassification{}, false
	}

	classification := VoiceClassification{Intent: VoiceIntent(strings.ToUpper(parsed.Intent))}
	switch classification.Intent {
	case VoiceQuery, VoiceSave, VoiceSelect:
	default:
		return VoiceClassification{}, false
	}
	if parsed.Number != nil {
		classification.Number = *parsed.Number
	}
	return classification, true
}
