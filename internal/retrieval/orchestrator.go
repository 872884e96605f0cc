// Package retrieval orchestrates the query pipeline: classify, search,
// rerank, cache, present.
//
// One Orchestrator instance serves all users. Each inbound message runs
// an independent pipeline execution; the only shared mutable state is
// the session cache, which is keyed per user.
package retrieval

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/recallbot/internal/config"
	"github.com/fyrsmithlabs/recallbot/internal/intent"
	"github.com/fyrsmithlabs/recallbot/internal/logging"
	"github.com/fyrsmithlabs/recallbot/internal/memory"
	"github.com/fyrsmithlabs/recallbot/internal/present"
	"github.com/fyrsmithlabs/recallbot/internal/reranker"
	"github.com/fyrsmithlabs/recallbot/internal/session"
	"github.com/fyrsmithlabs/recallbot/internal/vectorstore"
)

var tracer = otel.Tracer("recallbot.retrieval")

// selectionRe matches "покажи #2", "показать 3", "show #1" and the
// like: a selection verb, an optional number word, an optional leading
// symbol, digits.
var selectionRe = regexp.MustCompile(`(?i)^\s*(?:покажи|показать|открой|show)\s+(?:номер\s+)?#?\s*(\d+)\s*$`)

// MessageCopier forwards a stored original message into a chat.
// Implemented by the Telegram transport via CopyMessage.
type MessageCopier interface {
	CopyMessage(ctx context.Context, toChatID, fromChatID, messageID, replyToMessageID int64) error
}

// Ingestor persists link content discovered in a text message.
type Ingestor interface {
	IngestLink(ctx context.Context, req Request) ([]string, error)
}

// Request is one inbound text-like message.
type Request struct {
	ChatID    int64
	UserID    int64
	MessageID int64
	Text      string
}

// Response is the ordered list of texts to send back to the chat.
type Response struct {
	Texts []string
}

func textResponse(texts ...string) Response {
	return Response{Texts: texts}
}

// Orchestrator ties the retrieval components together.
type Orchestrator struct {
	classifier *intent.Classifier
	store      vectorstore.Store
	reranker   reranker.Reranker
	cache      session.Cache
	answerer   *Answerer
	copier     MessageCopier
	ingestor   Ingestor

	topK       int
	maxResults int

	logger *logging.Logger
}

// NewOrchestrator creates an Orchestrator. The copier and ingestor are
// optional collaborators; without a copier forwards are skipped, and
// without an ingestor link messages get a short notice.
func NewOrchestrator(
	cfg config.RetrievalConfig,
	classifier *intent.Classifier,
	store vectorstore.Store,
	rr reranker.Reranker,
	cache session.Cache,
	answerer *Answerer,
	copier MessageCopier,
	ingestor Ingestor,
	logger *logging.Logger,
) (*Orchestrator, error) {
	if classifier == nil || store == nil || rr == nil || cache == nil {
		return nil, fmt.Errorf("classifier, store, reranker and cache are required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = 20
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Orchestrator{
		classifier: classifier,
		store:      store,
		reranker:   rr,
		cache:      cache,
		answerer:   answerer,
		copier:     copier,
		ingestor:   ingestor,
		topK:       topK,
		maxResults: maxResults,
		logger:     logger.Named("retrieval"),
	}, nil
}

// SetMessageCopier installs the transport used to forward stored
// originals. The transport itself depends on the orchestrator, so the
// copier is wired after both are constructed.
func (o *Orchestrator) SetMessageCopier(c MessageCopier) {
	o.copier = c
}

// HandleText runs the state machine for one inbound text message.
func (o *Orchestrator) HandleText(ctx context.Context, req Request) (Response, error) {
	ctx = logging.WithChatID(logging.WithUserID(ctx, req.UserID), req.ChatID)

	// 1. Selection check bypasses search entirely.
	if n, ok := parseSelection(req.Text); ok {
		return o.Select(ctx, req, n), nil
	}

	// 2. Link check delegates to ingestion.
	if containsURL(req.Text) {
		if o.ingestor == nil {
			return textResponse("Сохранение ссылок недоступно."), nil
		}
		texts, err := o.ingestor.IngestLink(ctx, req)
		if err != nil {
			return Response{}, err
		}
		return textResponse(texts...), nil
	}

	// 3. Question path.
	return o.HandleQuery(ctx, req)
}

// HandleQuery runs the question path: classify, search, rerank, cache,
// present. Voice handlers call it directly once a transcription is
// classified as a query.
func (o *Orchestrator) HandleQuery(ctx context.Context, req Request) (Response, error) {
	ctx, span := tracer.Start(ctx, "Orchestrator.HandleQuery")
	defer span.End()

	classification := o.classifier.Classify(ctx, req.Text)
	span.SetAttributes(attribute.String("intent", string(classification.Intent)))

	// Chat scoping is forced here and enforced again inside the store;
	// the classifier's filter can only narrow by type.
	ctx = vectorstore.ContextWithChat(ctx, req.ChatID)

	var filters map[string]interface{}
	if classification.TypeFilter != "" {
		filters = map[string]interface{}{memory.KeyType: string(classification.TypeFilter)}
	}

	candidates, err := o.store.Search(ctx, req.Text, o.topK, filters)
	if err != nil {
		// A failed search is treated as zero matches, not a crash.
		o.logger.Error(ctx, "vector search failed, treating as zero matches",
			zap.String("query", logging.Preview(req.Text, 50)),
			zap.Error(err),
		)
		candidates = nil
	}

	if len(candidates) == 0 {
		return textResponse(present.NotFound()), nil
	}

	// The full reranked list is cached and only truncated at display
	// time, so the summary footnote reports the true total and selection
	// can reach every cached index.
	items, matches := decodeItems(o.reranker.Rerank(ctx, req.Text, candidates))
	if len(items) == 0 {
		return textResponse(present.NotFound()), nil
	}

	o.cache.Put(req.UserID, session.Session{Matches: matches, Query: req.Text})

	texts := o.formatItems(ctx, req, items)

	if o.answerer != nil && classification.Intent != intent.IntentSearch {
		texts = append(texts, o.answerer.Answer(ctx, req.Text, matches))
	}

	return textResponse(texts...), nil
}

// formatItems renders the match list and, for a single match, attempts
// a best-effort forward of the original message.
func (o *Orchestrator) formatItems(ctx context.Context, req Request, items []memory.Item) []string {
	if len(items) == 1 {
		texts := []string{present.SinglePreview(items[0])}
		// Forward failure is silent: the preview already answered.
		if err := o.forward(ctx, req, items[0]); err != nil {
			o.logger.Warn(ctx, "best-effort forward failed",
				zap.Int64("origin_chat_id", items[0].ChatID),
				zap.Int64("origin_message_id", items[0].MessageID),
				zap.Error(err),
			)
		}
		return texts
	}

	return []string{present.Summary(items, o.maxResults)}
}

func (o *Orchestrator) forward(ctx context.Context, req Request, it memory.Item) error {
	if o.copier == nil {
		return fmt.Errorf("no message copier configured")
	}
	if it.ChatID == 0 || it.MessageID == 0 {
		return fmt.Errorf("stored item has no origin message reference")
	}
	return o.copier.CopyMessage(ctx, req.ChatID, it.ChatID, it.MessageID, req.MessageID)
}

// decodeItems converts search results to items, dropping undecodable
// metadata from both views. The cached list must stay aligned with the
// decoded one, otherwise the numbering the user sees would not match
// the indices Select resolves.
func decodeItems(matches []vectorstore.SearchResult) ([]memory.Item, []vectorstore.SearchResult) {
	items := make([]memory.Item, 0, len(matches))
	kept := make([]vectorstore.SearchResult, 0, len(matches))
	for _, m := range matches {
		it, err := memory.ItemFromMetadata(m.Metadata)
		if err != nil {
			continue
		}
		it.ID = m.ID
		items = append(items, it)
		kept = append(kept, m)
	}
	return items, kept
}

// parseSelection extracts N from a selection command.
func parseSelection(text string) (int, bool) {
	m := selectionRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// containsURL reports whether the text carries an http(s) token.
func containsURL(text string) bool {
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, "http://") || strings.HasPrefix(word, "https://") {
			return true
		}
	}
	return false
}
