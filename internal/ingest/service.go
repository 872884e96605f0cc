// Package ingest persists user content as searchable memory items.
//
// Links are fetched and summarized, media is analyzed by a multimodal
// model (with a Whisper fallback for audio), locations and dictated
// text are stored directly. Every item gets a deterministic content
// fingerprint, so saving the same link or file twice overwrites rather
// than duplicates.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/recallbot/internal/llm"
	"github.com/fyrsmithlabs/recallbot/internal/logging"
	"github.com/fyrsmithlabs/recallbot/internal/memory"
	"github.com/fyrsmithlabs/recallbot/internal/retrieval"
	"github.com/fyrsmithlabs/recallbot/internal/vectorstore"
)

// textMimes are document types analyzed by direct decoding instead of a
// multimodal call.
var textMimes = map[string]bool{
	"text/plain":       true,
	"text/csv":         true,
	"text/markdown":    true,
	"application/json": true,
}

// Origin identifies where ingested content came from.
type Origin struct {
	ChatID    int64
	UserID    int64
	MessageID int64
	ThreadID  int64
}

// MediaRequest is one media payload to analyze and save.
type MediaRequest struct {
	Origin
	Type     memory.ItemType
	Mime     string
	Data     []byte
	UserNote string
}

// Service runs the ingestion pipelines.
type Service struct {
	store       vectorstore.Store
	provider    llm.Provider
	extractor   LinkExtractor
	transcriber Transcriber
	maxFileSize int64
	logger      *logging.Logger
}

// NewService creates a Service. The transcriber is optional; without it
// audio analysis has no Whisper fallback.
func NewService(
	store vectorstore.Store,
	provider llm.Provider,
	extractor LinkExtractor,
	transcriber Transcriber,
	maxFileSize int64,
	logger *logging.Logger,
) (*Service, error) {
	if store == nil || provider == nil {
		return nil, fmt.Errorf("store and provider are required")
	}
	if extractor == nil {
		extractor = ReadabilityExtractor{}
	}
	if maxFileSize <= 0 {
		maxFileSize = 20 * 1024 * 1024
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		store:       store,
		provider:    provider,
		extractor:   extractor,
		transcriber: transcriber,
		maxFileSize: maxFileSize,
		logger:      logger.Named("ingest"),
	}, nil
}

// IngestLink extracts, summarizes and saves the first URL in the text.
func (s *Service) IngestLink(ctx context.Context, req retrieval.Request) ([]string, error) {
	url := firstURL(req.Text)
	if url == "" {
		return []string{"Не нашёл ссылку в сообщении."}, nil
	}

	content, err := s.extractor.Extract(ctx, url)
	if err != nil {
		s.logger.Warn(ctx, "link extraction failed",
			zap.String("url", url),
			zap.Error(err),
		)
		return []string{"Не удалось извлечь содержимое ссылки."}, nil
	}

	summary := s.summarize(ctx, content.Title, content.Content)

	item := memory.Item{
		ID:        memory.FingerprintURL(url),
		Type:      memory.TypeLink,
		Text:      summary,
		URL:       url,
		ChatID:    req.ChatID,
		MessageID: req.MessageID,
	}
	if err := s.save(ctx, item); err != nil {
		return []string{"⚠ Ссылка проанализирована, но сохранить не удалось:\n\n" + summary}, nil
	}
	return []string{"✅ Ссылка сохранена:\n\n" + summary}, nil
}

// SaveMedia analyzes a media payload and saves the description.
func (s *Service) SaveMedia(ctx context.Context, req MediaRequest) ([]string, error) {
	if int64(len(req.Data)) > s.maxFileSize {
		return []string{"Файл слишком большой (>20МБ), анализ пропущен."}, nil
	}

	description, err := s.analyze(ctx, req.Mime, req.Data, req.UserNote)
	if err != nil {
		s.logger.Error(ctx, "media analysis failed",
			zap.String("mime", req.Mime),
			zap.String("type", string(req.Type)),
			zap.Error(err),
		)
		return []string{"Не удалось проанализировать файл."}, nil
	}

	item := memory.Item{
		ID:        memory.FingerprintBytes(req.Data),
		Type:      req.Type,
		Text:      description,
		Mime:      req.Mime,
		ChatID:    req.ChatID,
		MessageID: req.MessageID,
		ThreadID:  req.ThreadID,
	}
	if err := s.save(ctx, item); err != nil {
		return []string{"⚠ Проанализировано, но сохранить не удалось:\n\n" + description}, nil
	}
	return []string{fmt.Sprintf("✅ Сохранено (%s):\n\n%s", item.Type.Label(), description)}, nil
}

// SaveText persists dictated text verbatim, without analysis. Used for
// voice messages classified as SAVE.
func (s *Service) SaveText(ctx context.Context, origin Origin, text string) ([]string, error) {
	item := memory.Item{
		ID:        memory.FingerprintBytes([]byte(text)),
		Type:      memory.TypeVoiceNote,
		Text:      text,
		ChatID:    origin.ChatID,
		MessageID: origin.MessageID,
		ThreadID:  origin.ThreadID,
	}
	if err := s.save(ctx, item); err != nil {
		return []string{"⚠ Не удалось сохранить заметку."}, nil
	}
	return []string{"✅ Записал: " + logging.Preview(text, 100)}, nil
}

// SaveLocation persists a shared location.
func (s *Service) SaveLocation(ctx context.Context, origin Origin, latitude, longitude float64, address string) ([]string, error) {
	text := fmt.Sprintf("Локация: %f, %f", latitude, longitude)
	if address != "" {
		text = fmt.Sprintf("Локация: %s (%f, %f)", address, latitude, longitude)
	}

	item := memory.Item{
		ID:        memory.FingerprintURL(fmt.Sprintf("geo:%f,%f", latitude, longitude)),
		Type:      memory.TypeLocation,
		Text:      text,
		Latitude:  latitude,
		Longitude: longitude,
		Address:   address,
		ChatID:    origin.ChatID,
		MessageID: origin.MessageID,
		ThreadID:  origin.ThreadID,
	}
	if err := s.save(ctx, item); err != nil {
		return []string{"⚠ Не удалось сохранить локацию."}, nil
	}
	return []string{"✅ Локация сохранена: " + text}, nil
}

// Transcribe exposes the transcriber for voice routing.
func (s *Service) Transcribe(ctx context.Context, mime string, data []byte) (string, error) {
	if s.transcriber == nil {
		return "", fmt.Errorf("no transcriber configured")
	}
	return s.transcriber.Transcribe(ctx, mime, data)
}

// save validates, scopes and upserts one item.
func (s *Service) save(ctx context.Context, item memory.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	ctx = vectorstore.ContextWithChat(ctx, item.ChatID)
	_, err := s.store.Upsert(ctx, []vectorstore.Document{{
		ID:       item.ID,
		Content:  item.EmbeddingText(),
		Metadata: item.Metadata(),
	}})
	if err != nil {
		s.logger.Error(ctx, "upsert failed",
			zap.String("id", item.ID),
			zap.String("type", string(item.Type)),
			zap.Error(err),
		)
		return err
	}

	ItemsIngested.WithLabelValues(string(item.Type)).Inc()
	s.logger.Info(ctx, "item saved",
		zap.String("id", item.ID),
		zap.String("type", string(item.Type)),
	)
	return nil
}

// summarize produces a short Russian summary of extracted article
// content. Provider failure falls back to the raw title plus a content
// prefix, so the link is still saved and searchable.
func (s *Service) summarize(ctx context.Context, title, content string) string {
	summary, err := s.provider.Complete(ctx, summarizeSystemPrompt,
		"Summarize the following content briefly, extracting the main points.\n\n"+content)
	if err != nil {
		s.logger.Warn(ctx, "summarization failed, storing raw excerpt", zap.Error(err))
		summary = logging.Preview(content, 500)
	}
	if title != "" {
		return title + "\n" + strings.TrimSpace(summary)
	}
	return strings.TrimSpace(summary)
}

// analyze produces the stored description for a media payload.
func (s *Service) analyze(ctx context.Context, mime string, data []byte, userNote string) (string, error) {
	prompt := analysisSystemPrompt
	if userNote != "" {
		prompt += "\n\nUser Note: " + userNote
	}

	// Text documents are decoded directly, no multimodal call needed.
	if textMimes[mime] {
		doc := string(data)
		return s.provider.Complete(ctx, summarizeSystemPrompt,
			fmt.Sprintf("Type: %s\nContent:\n%s\n\nОпиши и проанализируй этот документ максимально подробно.", mime, doc))
	}

	description, err := s.provider.CompleteWithMedia(ctx, summarizeSystemPrompt, prompt, []llm.Media{{MIMEType: mime, Data: data}})
	if err == nil {
		return description, nil
	}

	// Whisper fallback keeps audio usable when the multimodal provider
	// is down or over quota.
	if strings.HasPrefix(mime, "audio/") && s.transcriber != nil {
		s.logger.Warn(ctx, "multimodal analysis failed, trying whisper",
			zap.String("mime", mime),
			zap.Error(err),
		)
		transcript, terr := s.transcriber.Transcribe(ctx, mime, data)
		if terr != nil {
			return "", fmt.Errorf("multimodal failed (%w), whisper failed (%w)", err, terr)
		}
		return "🎙 Транскрипция:\n\n" + transcript, nil
	}

	return "", err
}

// Ensure Service satisfies the orchestrator's ingestion contract.
var _ retrieval.Ingestor = (*Service)(nil)
