// Package telegram is the bot transport: long polling, message routing
// and replies. It stays thin; all decisions live in the retrieval and
// ingest services.
package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/recallbot/internal/config"
	"github.com/fyrsmithlabs/recallbot/internal/ingest"
	"github.com/fyrsmithlabs/recallbot/internal/intent"
	"github.com/fyrsmithlabs/recallbot/internal/logging"
	"github.com/fyrsmithlabs/recallbot/internal/retrieval"
)

// downloadTimeout bounds one media file download.
const downloadTimeout = 60 * time.Second

// Bot is the polling Telegram transport.
type Bot struct {
	api        *bot.Bot
	orch       *retrieval.Orchestrator
	ingestSvc  *ingest.Service
	classifier *intent.Classifier
	httpClient *http.Client
	logger     *logging.Logger
}

// New creates the transport and registers the default handler.
func New(
	cfg config.TelegramConfig,
	orch *retrieval.Orchestrator,
	ingestSvc *ingest.Service,
	classifier *intent.Classifier,
	logger *logging.Logger,
) (*Bot, error) {
	if !cfg.Token.IsSet() {
		return nil, fmt.Errorf("telegram token required")
	}
	if orch == nil || ingestSvc == nil || classifier == nil {
		return nil, fmt.Errorf("orchestrator, ingest service and classifier are required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	b := &Bot{
		orch:       orch,
		ingestSvc:  ingestSvc,
		classifier: classifier,
		httpClient: &http.Client{Timeout: downloadTimeout},
		logger:     logger.Named("telegram"),
	}

	api, err := bot.New(cfg.Token.Value(), bot.WithDefaultHandler(b.handleUpdate))
	if err != nil {
		return nil, fmt.Errorf("creating bot: %w", err)
	}
	b.api = api
	return b, nil
}

// Start runs long polling until ctx is canceled.
func (b *Bot) Start(ctx context.Context) {
	b.logger.Info(ctx, "starting telegram long polling")
	b.api.Start(ctx)
}

// CopyMessage re-sends a stored original message into a chat as a reply.
// Implements the orchestrator's message-copy contract.
func (b *Bot) CopyMessage(ctx context.Context, toChatID, fromChatID, messageID, replyToMessageID int64) error {
	params := &bot.CopyMessageParams{
		ChatID:     toChatID,
		FromChatID: fromChatID,
		MessageID:  int(messageID),
	}
	if replyToMessageID != 0 {
		params.ReplyParameters = &models.ReplyParameters{MessageID: int(replyToMessageID)}
	}
	if _, err := b.api.CopyMessage(ctx, params); err != nil {
		return fmt.Errorf("copying message %d from chat %d: %w", messageID, fromChatID, err)
	}
	return nil
}

// reply sends each text in order as a reply to the inbound message.
func (b *Bot) reply(ctx context.Context, msg *models.Message, texts []string) {
	for _, text := range texts {
		if text == "" {
			continue
		}
		_, err := b.api.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:          msg.Chat.ID,
			Text:            text,
			ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
		})
		if err != nil {
			b.logger.Error(ctx, "sending reply failed",
				zap.Int64("chat_id", msg.Chat.ID),
				zap.Error(err),
			)
		}
	}
}

// downloadFile fetches a Telegram file payload by file ID.
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("resolving file %s: %w", fileID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.api.FileDownloadLink(file), nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading file %s: status %d", fileID, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

var _ retrieval.MessageCopier = (*Bot)(nil)
