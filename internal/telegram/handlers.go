package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/recallbot/internal/ingest"
	"github.com/fyrsmithlabs/recallbot/internal/intent"
	"github.com/fyrsmithlabs/recallbot/internal/logging"
	"github.com/fyrsmithlabs/recallbot/internal/memory"
	"github.com/fyrsmithlabs/recallbot/internal/retrieval"
)

const startReply = "Привет! Я запоминаю ссылки, файлы и голосовые, а потом нахожу их по запросу. Просто отправьте что-нибудь."

// handleUpdate routes one inbound update by its content type.
func (b *Bot) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	ctx = logging.WithChatID(ctx, msg.Chat.ID)
	if msg.From != nil {
		ctx = logging.WithUserID(ctx, msg.From.ID)
	}

	switch {
	case msg.Text == "/start":
		b.reply(ctx, msg, []string{startReply})
	case msg.Text != "":
		b.handleText(ctx, msg)
	case len(msg.Photo) > 0:
		b.handleMedia(ctx, msg, largestPhoto(msg.Photo).FileID, "image/jpeg", memory.TypeImage, "Analyze this image")
	case msg.Video != nil:
		b.handleMedia(ctx, msg, msg.Video.FileID, "video/mp4", memory.TypeVideo, "Analyze this video content.")
	case msg.VideoNote != nil:
		b.handleMedia(ctx, msg, msg.VideoNote.FileID, "video/mp4", memory.TypeVideo, "Analyze this video content.")
	case msg.Voice != nil:
		b.handleVoice(ctx, msg)
	case msg.Audio != nil:
		b.handleMedia(ctx, msg, msg.Audio.FileID, mimeOrDefault(msg.Audio.MimeType, "audio/mpeg"), memory.TypeAudioFile, "Analyze music/audio")
	case msg.Document != nil:
		b.handleMedia(ctx, msg, msg.Document.FileID, mimeOrDefault(msg.Document.MimeType, "application/octet-stream"), memory.TypeDocument, "Analyze this attached document")
	case msg.Location != nil:
		b.handleLocation(ctx, msg)
	}
}

func (b *Bot) handleText(ctx context.Context, msg *models.Message) {
	resp, err := b.orch.HandleText(ctx, requestFrom(msg, msg.Text))
	if err != nil {
		b.logger.Error(ctx, "text pipeline failed", zap.Error(err))
		b.reply(ctx, msg, []string{"Произошла ошибка, попробуйте ещё раз."})
		return
	}
	b.reply(ctx, msg, resp.Texts)
}

// handleVoice transcribes the voice note and routes it by voice intent:
// questions go to retrieval, dictation is saved, selection commands
// resolve against the cached session.
func (b *Bot) handleVoice(ctx context.Context, msg *models.Message) {
	data, err := b.downloadFile(ctx, msg.Voice.FileID)
	if err != nil {
		b.logger.Error(ctx, "voice download failed", zap.Error(err))
		b.reply(ctx, msg, []string{"Не удалось загрузить голосовое сообщение."})
		return
	}

	transcript, err := b.ingestSvc.Transcribe(ctx, "audio/ogg", data)
	if err != nil {
		// Without a transcript the voice note is still analyzable as
		// media, so fall back to the generic save pipeline.
		b.logger.Warn(ctx, "transcription failed, saving voice as media", zap.Error(err))
		b.saveMedia(ctx, msg, data, "audio/ogg", memory.TypeVoiceNote, "Transcribe and analyze intonation")
		return
	}

	classification := b.classifier.ClassifyVoice(ctx, transcript)
	switch classification.Intent {
	case intent.VoiceQuery:
		resp, err := b.orch.HandleQuery(ctx, requestFrom(msg, transcript))
		if err != nil {
			b.logger.Error(ctx, "voice query failed", zap.Error(err))
			b.reply(ctx, msg, []string{"Произошла ошибка, попробуйте ещё раз."})
			return
		}
		b.reply(ctx, msg, resp.Texts)
	case intent.VoiceSelect:
		resp := b.orch.Select(ctx, requestFrom(msg, transcript), classification.Number)
		b.reply(ctx, msg, resp.Texts)
	default:
		texts, _ := b.ingestSvc.SaveText(ctx, originFrom(msg), transcript)
		b.reply(ctx, msg, texts)
	}
}

func (b *Bot) handleMedia(ctx context.Context, msg *models.Message, fileID, mime string, typ memory.ItemType, note string) {
	data, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.logger.Error(ctx, "media download failed",
			zap.String("file_id", fileID),
			zap.Error(err),
		)
		b.reply(ctx, msg, []string{"Не удалось загрузить файл."})
		return
	}
	b.saveMedia(ctx, msg, data, mime, typ, note)
}

func (b *Bot) saveMedia(ctx context.Context, msg *models.Message, data []byte, mime string, typ memory.ItemType, note string) {
	if msg.Caption != "" {
		note = note + "\nUser caption: " + msg.Caption
	}
	texts, err := b.ingestSvc.SaveMedia(ctx, ingest.MediaRequest{
		Origin:   originFrom(msg),
		Type:     typ,
		Mime:     mime,
		Data:     data,
		UserNote: note,
	})
	if err != nil {
		b.logger.Error(ctx, "media save failed", zap.Error(err))
		b.reply(ctx, msg, []string{"Ошибка при обработке файла."})
		return
	}
	b.reply(ctx, msg, texts)
}

func (b *Bot) handleLocation(ctx context.Context, msg *models.Message) {
	texts, err := b.ingestSvc.SaveLocation(ctx, originFrom(msg), msg.Location.Latitude, msg.Location.Longitude, msg.Caption)
	if err != nil {
		b.logger.Error(ctx, "location save failed", zap.Error(err))
		b.reply(ctx, msg, []string{"Не удалось сохранить локацию."})
		return
	}
	b.reply(ctx, msg, texts)
}

func requestFrom(msg *models.Message, text string) retrieval.Request {
	req := retrieval.Request{
		ChatID:    msg.Chat.ID,
		MessageID: int64(msg.ID),
		Text:      text,
	}
	if msg.From != nil {
		req.UserID = msg.From.ID
	}
	return req
}

func originFrom(msg *models.Message) ingest.Origin {
	origin := ingest.Origin{
		ChatID:    msg.Chat.ID,
		MessageID: int64(msg.ID),
		ThreadID:  int64(msg.MessageThreadID),
	}
	if msg.From != nil {
		origin.UserID = msg.From.ID
	}
	return origin
}

// largestPhoto picks the highest-resolution size Telegram offers.
func largestPhoto(sizes []models.PhotoSize) models.PhotoSize {
	best := sizes[0]
	for _, s := range sizes[1:] {
		if s.Width*s.Height > best.Width*best.Height {
			best = s
		}
	}
	return best
}

func mimeOrDefault(mime, fallback string) string {
	if mime == "" {
		return fallback
	}
	return mime
}
