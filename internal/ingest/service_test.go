package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/recallbot/internal/llm"
	"github.com/fyrsmithlabs/recallbot/internal/logging"
	"github.com/fyrsmithlabs/recallbot/internal/memory"
	"github.com/fyrsmithlabs/recallbot/internal/retrieval"
	"github.com/fyrsmithlabs/recallbot/internal/vectorstore"
)

type upsertStore struct {
	docs      []vectorstore.Document
	upsertErr error
}

func (s *upsertStore) Upsert(ctx context.Context, docs []vectorstore.Document) ([]string, error) {
	if s.upsertErr != nil {
		return nil, s.upsertErr
	}
	if _, err := vectorstore.ChatFromContext(ctx); err != nil {
		return nil, err
	}
	s.docs = append(s.docs, docs...)
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

func (s *upsertStore) Search(ctx context.Context, query string, k int, filters map[string]interface{}) ([]vectorstore.SearchResult, error) {
	return nil, nil
}
func (s *upsertStore) Delete(ctx context.Context, ids []string) error { return nil }
func (s *upsertStore) Close() error                                   { return nil }

type stubLLM struct {
	response string
	err      error
	mediaErr error
}

func (p *stubLLM) Name() string { return "stub" }

func (p *stubLLM) Complete(ctx context.Context, system, prompt string) (string, error) {
	return p.response, p.err
}

func (p *stubLLM) CompleteWithMedia(ctx context.Context, system, prompt string, media []llm.Media) (string, error) {
	if p.mediaErr != nil {
		return "", p.mediaErr
	}
	return p.response, p.err
}

type stubExtractor struct {
	content LinkContent
	err     error
}

func (e stubExtractor) Extract(ctx context.Context, url string) (LinkContent, error) {
	return e.content, e.err
}

type stubTranscriber struct {
	text string
	err  error
}

func (t stubTranscriber) Transcribe(ctx context.Context, mime string, data []byte) (string, error) {
	return t.text, t.err
}

func newService(t *testing.T, store *upsertStore, provider llm.Provider, extractor LinkExtractor, transcriber Transcriber) *Service {
	t.Helper()
	svc, err := NewService(store, provider, extractor, transcriber, 1024, logging.NewNop())
	require.NoError(t, err)
	return svc
}

func TestIngestLink(t *testing.T) {
	store := &upsertStore{}
	svc := newService(t, store,
		&stubLLM{response: "Обзор ноутбука, основные характеристики."},
		stubExtractor{content: LinkContent{Title: "Laptop Review", Content: "long article text"}},
		nil,
	)

	req := retrieval.Request{ChatID: 555, UserID: 9, MessageID: 7, Text: "глянь https://example.com/review"}
	texts, err := svc.IngestLink(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "✅")
	assert.Contains(t, texts[0], "Обзор ноутбука")

	require.Len(t, store.docs, 1)
	doc := store.docs[0]
	assert.Equal(t, memory.FingerprintURL("https://example.com/review"), doc.ID)
	assert.Equal(t, "link", doc.Metadata[memory.KeyType])
	assert.Equal(t, int64(555), doc.Metadata[memory.KeyChatID])
	assert.Equal(t, "https://example.com/review", doc.Metadata[memory.KeyURL])
}

func TestIngestLinkIdempotent(t *testing.T) {
	store := &upsertStore{}
	svc := newService(t, store,
		&stubLLM{response: "summary"},
		stubExtractor{content: LinkContent{Title: "T", Content: "c"}},
		nil,
	)

	req := retrieval.Request{ChatID: 1, MessageID: 2, Text: "https://example.com/a"}
	_, err := svc.IngestLink(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.IngestLink(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, store.docs, 2)
	assert.Equal(t, store.docs[0].ID, store.docs[1].ID)
}

func TestIngestLinkExtractionFailure(t *testing.T) {
	store := &upsertStore{}
	svc := newService(t, store, &stubLLM{}, stubExtractor{err: errors.New("404")}, nil)

	texts, err := svc.IngestLink(context.Background(), retrieval.Request{ChatID: 1, Text: "https://example.com/gone"})
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "Не удалось извлечь")
	assert.Empty(t, store.docs)
}

func TestIngestLinkUpsertFailureStillAnswers(t *testing.T) {
	store := &upsertStore{upsertErr: errors.New("store down")}
	svc := newService(t, store,
		&stubLLM{response: "summary"},
		stubExtractor{content: LinkContent{Title: "T", Content: "c"}},
		nil,
	)

	texts, err := svc.IngestLink(context.Background(), retrieval.Request{ChatID: 1, MessageID: 2, Text: "https://example.com/a"})
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "сохранить не удалось")
}

func TestSaveMedia(t *testing.T) {
	store := &upsertStore{}
	svc := newService(t, store, &stubLLM{response: "фото пляжа на закате"}, nil, nil)

	texts, err := svc.SaveMedia(context.Background(), MediaRequest{
		Origin: Origin{ChatID: 42, MessageID: 7},
		Type:   memory.TypeImage,
		Mime:   "image/jpeg",
		Data:   []byte("jpeg-bytes"),
	})
	require.NoError(t, err)

	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "✅")
	assert.Contains(t, texts[0], "фото пляжа")

	require.Len(t, store.docs, 1)
	assert.Equal(t, memory.FingerprintBytes([]byte("jpeg-bytes")), store.docs[0].ID)
	assert.Equal(t, "image/jpeg", store.docs[0].Metadata[memory.KeyMime])
}

func TestSaveMediaTooLarge(t *testing.T) {
	store := &upsertStore{}
	svc := newService(t, store, &stubLLM{}, nil, nil)

	texts, err := svc.SaveMedia(context.Background(), MediaRequest{
		Origin: Origin{ChatID: 42, MessageID: 7},
		Type:   memory.TypeVideo,
		Mime:   "video/mp4",
		Data:   make([]byte, 2048),
	})
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "слишком большой")
	assert.Empty(t, store.docs)
}

func TestSaveMediaWhisperFallback(t *testing.T) {
	store := &upsertStore{}
	svc := newService(t, store,
		&stubLLM{mediaErr: errors.New("quota exhausted")},
		nil,
		stubTranscriber{text: "запомни встречу в три"},
	)

	texts, err := svc.SaveMedia(context.Background(), MediaRequest{
		Origin: Origin{ChatID: 42, MessageID: 7},
		Type:   memory.TypeVoiceNote,
		Mime:   "audio/ogg",
		Data:   []byte("ogg-bytes"),
	})
	require.NoError(t, err)

	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "запомни встречу")
	require.Len(t, store.docs, 1)
	assert.Contains(t, store.docs[0].Metadata[memory.KeyText], "Транскрипция")
}

func TestSaveMediaTextDocument(t *testing.T) {
	store := &upsertStore{}
	provider := &stubLLM{response: "анализ документа", mediaErr: errors.New("should not be called")}
	svc := newService(t, store, provider, nil, nil)

	texts, err := svc.SaveMedia(context.Background(), MediaRequest{
		Origin: Origin{ChatID: 42, MessageID: 7},
		Type:   memory.TypeDocument,
		Mime:   "text/plain",
		Data:   []byte("plain text contents"),
	})
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "анализ документа")
}

func TestSaveText(t *testing.T) {
	store := &upsertStore{}
	svc := newService(t, store, &stubLLM{}, nil, nil)

	texts, err := svc.SaveText(context.Background(), Origin{ChatID: 1, MessageID: 2}, "встреча завтра в три")
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "✅")

	require.Len(t, store.docs, 1)
	assert.Equal(t, "voice_note", store.docs[0].Metadata[memory.KeyType])
}

func TestSaveLocation(t *testing.T) {
	store := &upsertStore{}
	svc := newService(t, store, &stubLLM{}, nil, nil)

	texts, err := svc.SaveLocation(context.Background(), Origin{ChatID: 1, MessageID: 2}, 55.75, 37.61, "Москва")
	require.NoError(t, err)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "Москва")

	require.Len(t, store.docs, 1)
	doc := store.docs[0]
	assert.Equal(t, "location", doc.Metadata[memory.KeyType])
	assert.Equal(t, 55.75, doc.Metadata[memory.KeyLatitude])
}
