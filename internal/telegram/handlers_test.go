package telegram

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func TestLargestPhoto(t *testing.T) {
	sizes := []models.PhotoSize{
		{FileID: "small", Width: 90, Height: 90},
		{FileID: "big", Width: 1280, Height: 960},
		{FileID: "medium", Width: 320, Height: 320},
	}
	assert.Equal(t, "big", largestPhoto(sizes).FileID)
}

func TestMimeOrDefault(t *testing.T) {
	assert.Equal(t, "audio/ogg", mimeOrDefault("audio/ogg", "audio/mpeg"))
	assert.Equal(t, "audio/mpeg", mimeOrDefault("", "audio/mpeg"))
}

func TestRequestFrom(t *testing.T) {
	msg := &models.Message{
		ID:   7,
		Chat: models.Chat{ID: 555},
		From: &models.User{ID: 9},
	}
	req := requestFrom(msg, "найди счёт")

	assert.Equal(t, int64(555), req.ChatID)
	assert.Equal(t, int64(9), req.UserID)
	assert.Equal(t, int64(7), req.MessageID)
	assert.Equal(t, "найди счёт", req.Text)
}

func TestOriginFromWithoutSender(t *testing.T) {
	msg := &models.Message{
		ID:              7,
		Chat:            models.Chat{ID: 555},
		MessageThreadID: 3,
	}
	origin := originFrom(msg)

	assert.Equal(t, int64(555), origin.ChatID)
	assert.Equal(t, int64(3), origin.ThreadID)
	assert.Zero(t, origin.UserID)
}
