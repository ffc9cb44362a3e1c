package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/supermercado/api-supermercado/internal/articulo"
	"github.com/supermercado/api-supermercado/internal/articulo/repository"
	"github.com/supermercado/api-supermercado/pkg/metrics"
)

// failingRepo wraps a MemoryRepo and fails every call with err when set.
type failingRepo struct {
	*repository.MemoryRepo
	err      error
	deadline bool
}

func (f *failingRepo) GetByCodigo(ctx context.Context, codigo int64) (*articulo.Articulo, error) {
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return f.MemoryRepo.GetByCodigo(ctx, codigo)
}

func (f *failingRepo) CreateMany(ctx context.Context, items []*articulo.Articulo) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.MemoryRepo.CreateMany(ctx, items)
}

func (f *failingRepo) List(ctx context.Context) ([]*articulo.Articulo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.MemoryRepo.List(ctx)
}

func TestServiceCRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()

	require.NoError(t, svc.Create(ctx, &articulo.Articulo{Codigo: 1, Nombre: "Leche", Categoria: "Lacteos", Precio: 2.5}))

	a, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Leche", a.Nombre)

	require.NoError(t, svc.UpdatePrecio(ctx, 1, 3))
	a, err = svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 3.0, a.Precio)

	require.NoError(t, svc.Delete(ctx, 1))
	require.ErrorIs(t, svc.Delete(ctx, 1), ErrNotFound)
	_, err = svc.Get(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, svc.UpdatePrecio(ctx, 1, 5), ErrNotFound)
}

func TestServiceSearchEmptyIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()
	require.NoError(t, svc.Create(ctx, &articulo.Articulo{Codigo: 1, Nombre: "Pan Integral", Categoria: "Panaderia", Precio: 1.5}))

	res, err := svc.FindByNombre(ctx, "pan")
	require.NoError(t, err)
	require.Len(t, res, 1)

	_, err = svc.FindByNombre(ctx, "yerba")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.FindByCategoria(ctx, "bebidas")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.FindByPrecioMinimo(ctx, 100)
	require.ErrorIs(t, err, ErrNotFound)

	res, err = svc.FindByPrecioMinimo(ctx, 1.5)
	require.NoError(t, err)
	require.Len(t, res, 1)

	// listing an empty store is not an error
	empty := NewMemoryService()
	list, err := empty.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestServiceStoreErrorsPassThrough(t *testing.T) {
	boom := errors.New("connection refused")
	repo := &failingRepo{MemoryRepo: repository.NewMemoryRepo(), err: boom}
	svc := New(repo, time.Second)

	errCounter := metrics.StoreOperations.WithLabelValues("get", "error")
	before := testutil.ToFloat64(errCounter)

	_, err := svc.Get(context.Background(), 1)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrNotFound)
	require.True(t, repo.deadline, "store calls run with a deadline")
	require.Equal(t, before+1, testutil.ToFloat64(errCounter))

	_, err = svc.List(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestServiceImport(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()
	require.NoError(t, svc.Create(ctx, &articulo.Articulo{Codigo: 99, Nombre: "viejo"}))

	n, err := svc.Import(ctx, []*articulo.Articulo{{Codigo: 1}, {Codigo: 2}}, false)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	n, err = svc.Import(ctx, []*articulo.Articulo{{Codigo: 3}}, true)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.EqualValues(t, 3, list[0].Codigo)
}

func TestServiceImportDropIsNotAtomic(t *testing.T) {
	ctx := context.Background()
	repo := &failingRepo{MemoryRepo: repository.NewMemoryRepo()}
	svc := New(repo, time.Second)
	require.NoError(t, svc.Create(ctx, &articulo.Articulo{Codigo: 99}))

	repo.err = errors.New("insert failed")
	n, err := svc.Import(ctx, []*articulo.Articulo{{Codigo: 1}}, true)
	require.ErrorIs(t, err, repo.err)
	require.Zero(t, n)

	// the drop already happened; the collection stays empty until a reseed succeeds
	all, err := repo.MemoryRepo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestServicePing(t *testing.T) {
	svc := NewMemoryService()
	require.NoError(t, svc.Ping(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, svc.Ping(ctx))
}
