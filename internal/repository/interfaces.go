package repository

import (
	"context"

	"helpdesk/internal/models"
)

// UserRepository resolves portal accounts. Ticket data has no repository:
// it lives entirely in the remote ticketing system.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, string /*passwordHash*/, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
