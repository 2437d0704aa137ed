package feed

import (
	"context"

	"github.com/ngmaloney/safestree-terminal/internal/models"
)

// BulletinSource supplies the community bulletins polled into the feed
type BulletinSource interface {
	Bulletins(ctx context.Context) ([]models.Alert, error)
}

// StaticBulletins is the built-in community bulletin board
type StaticBulletins struct{}

// Bulletins returns the current community bulletins, newest first
func (StaticBulletins) Bulletins(ctx context.Context) ([]models.Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []models.Alert{
		{Type: models.AlertEmergency, Message: "SOS triggered in South Delhi", TimeLabel: "Just now"},
		{Type: models.AlertWarning, Message: "Multiple reports near Connaught Place", TimeLabel: "10 mins ago"},
		{Type: models.AlertInfo, Message: "New safe zone added: Khan Market area", TimeLabel: "1 hour ago"},
	}, nil
}
