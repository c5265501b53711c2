package repository

import (
	"context"
	"errors"

	"github.com/aroucaleo/componente-B-C/internal/models"
)

var (
	// ErrDuplicateNome is returned when a write would violate the UNIQUE
	// constraint on nome.
	ErrDuplicateNome = errors.New("crise with this nome already exists")

	// ErrNotFound is returned when no crise matches the given id.
	ErrNotFound = errors.New("crise not found")
)

type CriseRepository interface {
	Add(ctx context.Context, c *models.Crise) error
	GetByID(ctx context.Context, id int64) (*models.Crise, error)
	ListByPrazo(ctx context.Context) ([]models.Crise, error)
	ListByNome(ctx context.Context) ([]models.Crise, error)
	Update(ctx context.Context, c *models.Crise) error
	Delete(ctx context.Context, id int64) error
}
