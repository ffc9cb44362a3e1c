package service

import (
	"context"
	"errors"
	"time"

	"github.com/supermercado/api-supermercado/internal/articulo"
	"github.com/supermercado/api-supermercado/internal/articulo/repository"
	"github.com/supermercado/api-supermercado/pkg/logger"
	"github.com/supermercado/api-supermercado/pkg/metrics"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("not found")
)

// Service defines the article operations used by the handler layer.
type Service interface {
	List(ctx context.Context) ([]*articulo.Articulo, error)
	Get(ctx context.Context, codigo int64) (*articulo.Articulo, error)
	FindByNombre(ctx context.Context, nombre string) ([]*articulo.Articulo, error)
	FindByCategoria(ctx context.Context, categoria string) ([]*articulo.Articulo, error)
	FindByPrecioMinimo(ctx context.Context, precio float64) ([]*articulo.Articulo, error)
	Create(ctx context.Context, a *articulo.Articulo) error
	Import(ctx context.Context, items []*articulo.Articulo, drop bool) (int, error)
	UpdatePrecio(ctx context.Context, codigo int64, precio float64) error
	Delete(ctx context.Context, codigo int64) error
	Ping(ctx context.Context) error
}

// DefaultTimeout bounds a single store call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// New returns a Service over repo. Every store call runs under its own
// timeout derived from the caller's context.
func New(repo repository.Repository, timeout time.Duration) Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &articuloService{repo: repo, timeout: timeout}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return New(repository.NewMemoryRepo(), DefaultTimeout)
}

// NewMongoService returns a Service backed by a MongoDB collection.
// Caller owns the client and disconnects it on shutdown.
func NewMongoService(col *mongo.Collection, timeout time.Duration) Service {
	return New(repository.NewMongoRepo(col), timeout)
}

type articuloService struct {
	repo    repository.Repository
	timeout time.Duration
}

// run scopes one store call: bounded context, guaranteed cancel, metrics.
func (s *articuloService) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	metrics.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.StoreOperations.WithLabelValues(op, "ok").Inc()
	case errors.Is(err, repository.ErrNotFound):
		metrics.StoreOperations.WithLabelValues(op, "not_found").Inc()
		return ErrNotFound
	default:
		metrics.StoreOperations.WithLabelValues(op, "error").Inc()
	}
	return err
}

func (s *articuloService) List(ctx context.Context) ([]*articulo.Articulo, error) {
	var out []*articulo.Articulo
	err := s.run(ctx, "list", func(ctx context.Context) (err error) {
		out, err = s.repo.List(ctx)
		return err
	})
	return out, err
}

func (s *articuloService) Get(ctx context.Context, codigo int64) (*articulo.Articulo, error) {
	var out *articulo.Articulo
	err := s.run(ctx, "get", func(ctx context.Context) (err error) {
		out, err = s.repo.GetByCodigo(ctx, codigo)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *articuloService) FindByNombre(ctx context.Context, nombre string) ([]*articulo.Articulo, error) {
	return s.search(ctx, "find_nombre", func(ctx context.Context) ([]*articulo.Articulo, error) {
		return s.repo.FindByNombre(ctx, nombre)
	})
}

func (s *articuloService) FindByCategoria(ctx context.Context, categoria string) ([]*articulo.Articulo, error) {
	return s.search(ctx, "find_categoria", func(ctx context.Context) ([]*articulo.Articulo, error) {
		return s.repo.FindByCategoria(ctx, categoria)
	})
}

func (s *articuloService) FindByPrecioMinimo(ctx context.Context, precio float64) ([]*articulo.Articulo, error) {
	return s.search(ctx, "find_precio", func(ctx context.Context) ([]*articulo.Articulo, error) {
		return s.repo.FindByPrecioMinimo(ctx, precio)
	})
}

// search reports ErrNotFound when the query matched nothing.
func (s *articuloService) search(ctx context.Context, op string, fn func(ctx context.Context) ([]*articulo.Articulo, error)) ([]*articulo.Articulo, error) {
	var out []*articulo.Articulo
	err := s.run(ctx, op, func(ctx context.Context) (err error) {
		out, err = fn(ctx)
		if err == nil && len(out) == 0 {
			return repository.ErrNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *articuloService) Create(ctx context.Context, a *articulo.Articulo) error {
	return s.run(ctx, "create", func(ctx context.Context) error {
		return s.repo.Create(ctx, a)
	})
}

// Import bulk-inserts items, optionally emptying the collection first.
// Drop and insert are separate calls: when the insert fails after a drop the
// collection is left with only what was inserted, and a reseed is needed.
func (s *articuloService) Import(ctx context.Context, items []*articulo.Articulo, drop bool) (int, error) {
	if drop {
		var dropped int64
		if err := s.run(ctx, "delete_all", func(ctx context.Context) (err error) {
			dropped, err = s.repo.DeleteAll(ctx)
			return err
		}); err != nil {
			return 0, err
		}
		logger.Infof("import: dropped %d articles", dropped)
	}
	var n int
	err := s.run(ctx, "import", func(ctx context.Context) (err error) {
		n, err = s.repo.CreateMany(ctx, items)
		return err
	})
	if err != nil && drop {
		logger.Errorf("import: inserted %d of %d articles after drop: %v", n, len(items), err)
	}
	return n, err
}

func (s *articuloService) UpdatePrecio(ctx context.Context, codigo int64, precio float64) error {
	return s.run(ctx, "update_precio", func(ctx context.Context) error {
		return s.repo.UpdatePrecio(ctx, codigo, precio)
	})
}

func (s *articuloService) Delete(ctx context.Context, codigo int64) error {
	return s.run(ctx, "delete", func(ctx context.Context) error {
		return s.repo.Delete(ctx, codigo)
	})
}

func (s *articuloService) Ping(ctx context.Context) error {
	return s.run(ctx, "ping", s.repo.Ping)
}
