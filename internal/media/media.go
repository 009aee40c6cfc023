// Package media keeps video playback in step with the current spread.
package media

import (
	"go.uber.org/zap"

	"github.com/five82/flipbook/internal/book"
)

// Player starts and stops looping video streams by key.
type Player interface {
	Play(key string)
	PauseAll()
}

// Controller pauses every stream on a spread change and loops the one tied to
// the new spread, if any.
type Controller struct {
	book   *book.Book
	player Player
	logger *zap.Logger
}

// NewController returns a controller for b driving player.
func NewController(b *book.Book, player Player, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{book: b, player: player, logger: logger}
}

// OnSpreadChange is the viewer's spread-change callback.
func (c *Controller) OnSpreadChange(index int) {
	if c == nil || c.player == nil {
		return
	}
	c.player.PauseAll()

	spread, ok := c.book.At(index)
	if !ok || spread.Kind != book.KindVideo {
		return
	}
	c.logger.Debug("looping video", zap.String("key", spread.VideoKey), zap.Int("spread", index))
	c.player.Play(spread.VideoKey)
}
