package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/supermercado/api-supermercado/internal/articulo"
)

var (
	_ Repository = (*MemoryRepo)(nil)
	_ Repository = (*MongoRepo)(nil)
)

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	a := &articulo.Articulo{Codigo: 1, Nombre: "Leche", Categoria: "Lacteos", Precio: 2.5, Extra: map[string]interface{}{"marca": "La Serenisima"}}
	require.NoError(t, r.Create(ctx, a))
	require.True(t, a.ID.IsZero(), "caller value must not be mutated")

	got, err := r.GetByCodigo(ctx, 1)
	require.NoError(t, err)
	require.False(t, got.ID.IsZero())
	require.Equal(t, "Leche", got.Nombre)
	require.Equal(t, "La Serenisima", got.Extra["marca"])

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, r.UpdatePrecio(ctx, 1, 3.0))
	got2, err := r.GetByCodigo(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 3.0, got2.Precio)
	require.Equal(t, "Leche", got2.Nombre)

	require.NoError(t, r.Delete(ctx, 1))
	_, err = r.GetByCodigo(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, 1), ErrNotFound)
	require.ErrorIs(t, r.UpdatePrecio(ctx, 1, 1), ErrNotFound)
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	require.NoError(t, r.Create(ctx, &articulo.Articulo{Codigo: 1, Nombre: "Arroz"}))

	got, err := r.GetByCodigo(ctx, 1)
	require.NoError(t, err)
	got.Nombre = "cambiado"

	again, err := r.GetByCodigo(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Arroz", again.Nombre)
}

func TestMemoryRepoSearch(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	n, err := r.CreateMany(ctx, []*articulo.Articulo{
		{Codigo: 1, Nombre: "Pan Integral", Categoria: "Panaderia", Precio: 1.5},
		{Codigo: 2, Nombre: "Pan Lactal", Categoria: "Panaderia", Precio: 2},
		{Codigo: 3, Nombre: "Queso Cremoso", Categoria: "Lacteos", Precio: 6},
		{Codigo: 4, Nombre: "Promo 1+1", Categoria: "Ofertas (2x1)", Precio: 9},
	})
	require.NoError(t, err)
	require.Equal(t, 4, n)

	res, err := r.FindByNombre(ctx, "pan")
	require.NoError(t, err)
	require.Len(t, res, 2)
	require.EqualValues(t, 1, res[0].Codigo, "store order is insertion order")

	res, err = r.FindByCategoria(ctx, "LACTEOS")
	require.NoError(t, err)
	require.Len(t, res, 1)

	// metacharacters are taken literally
	res, err = r.FindByNombre(ctx, ".*")
	require.NoError(t, err)
	require.Empty(t, res)
	res, err = r.FindByNombre(ctx, "1+1")
	require.NoError(t, err)
	require.Len(t, res, 1)
	res, err = r.FindByCategoria(ctx, "(2x1)")
	require.NoError(t, err)
	require.Len(t, res, 1)

	res, err = r.FindByPrecioMinimo(ctx, 2)
	require.NoError(t, err)
	require.Len(t, res, 3)

	res, err = r.FindByNombre(ctx, "yerba")
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Empty(t, res)

	// text that is not valid UTF-8 is an error, not a panic
	_, err = r.FindByNombre(ctx, "\xff")
	require.Error(t, err)
	_, err = r.FindByCategoria(ctx, "\xff")
	require.Error(t, err)
}

func TestMemoryRepoDuplicateCodigo(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	require.NoError(t, r.Create(ctx, &articulo.Articulo{Codigo: 5, Nombre: "primero"}))
	require.NoError(t, r.Create(ctx, &articulo.Articulo{Codigo: 5, Nombre: "segundo"}))

	got, err := r.GetByCodigo(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, "primero", got.Nombre)

	require.NoError(t, r.Delete(ctx, 5))
	got, err = r.GetByCodigo(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, "segundo", got.Nombre)

	deleted, err := r.DeleteAll(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)
}
