package repository

import (
	"context"
	"errors"

	"github.com/supermercado/api-supermercado/internal/articulo"
)

var (
	ErrNotFound = errors.New("articulo not found")
)

// Repository is the document store contract used by the article service.
// Lookups by codigo act on the first matching document in store order.
type Repository interface {
	List(ctx context.Context) ([]*articulo.Articulo, error)
	GetByCodigo(ctx context.Context, codigo int64) (*articulo.Articulo, error)
	FindByNombre(ctx context.Context, text string) ([]*articulo.Articulo, error)
	FindByCategoria(ctx context.Context, text string) ([]*articulo.Articulo, error)
	FindByPrecioMinimo(ctx context.Context, precio float64) ([]*articulo.Articulo, error)
	Create(ctx context.Context, a *articulo.Articulo) error
	CreateMany(ctx context.Context, items []*articulo.Articulo) (int, error)
	// UpdatePrecio sets only precio; ErrNotFound when no document matched.
	UpdatePrecio(ctx context.Context, codigo int64, precio float64) error
	// Delete removes one document; ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, codigo int64) error
	DeleteAll(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
