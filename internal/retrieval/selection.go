package retrieval

import (
	"context"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/recallbot/internal/memory"
	"github.com/fyrsmithlabs/recallbot/internal/present"
)

// Select resolves "покажи #N" against the user's cached session.
//
// Outcomes:
//   - no cached session: instruct the user to search first
//   - N outside [1, len]: report the valid range
//   - otherwise: forward the original message; when the original is
//     gone, fall back to a summary built purely from stored metadata.
//     The vector store is the durable record, Telegram history is not.
func (o *Orchestrator) Select(ctx context.Context, req Request, n int) Response {
	s, ok := o.cache.Get(req.UserID)
	if !ok {
		return textResponse(present.NoActiveSession())
	}

	if n < 1 || n > len(s.Matches) {
		return textResponse(present.OutOfRange(len(s.Matches)))
	}

	// Cached matches were decoded once already, so this only fails if the
	// cache was populated outside the query pipeline.
	match := s.Matches[n-1]
	it, err := memory.ItemFromMetadata(match.Metadata)
	if err != nil {
		o.logger.Error(ctx, "cached match has undecodable metadata",
			zap.String("id", match.ID),
			zap.Error(err),
		)
		return textResponse(present.ResultUnavailable())
	}
	it.ID = match.ID

	if err := o.forward(ctx, req, it); err != nil {
		o.logger.Warn(ctx, "forward failed, showing stored summary",
			zap.Int64("origin_chat_id", it.ChatID),
			zap.Int64("origin_message_id", it.MessageID),
			zap.Error(err),
		)
		return textResponse(present.OriginalUnavailable(), present.StoredSummary(it))
	}

	// The forwarded message is the answer, no further text needed.
	return Response{}
}
