package repository

import (
	"context"
	"sync"

	"github.com/supermercado/api-supermercado/internal/articulo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory repository used for unit tests and for running
// the gateway without a MongoDB URI. Insertion order stands in for store order.
type MemoryRepo struct {
	mu    sync.RWMutex
	items []*articulo.Articulo
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) List(ctx context.Context) ([]*articulo.Articulo, error) {
	return m.filter(func(*articulo.Articulo) bool { return true }), nil
}

func (m *MemoryRepo) GetByCodigo(ctx context.Context, codigo int64) (*articulo.Articulo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.index(codigo); i >= 0 {
		return m.items[i].Clone(), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) FindByNombre(ctx context.Context, text string) ([]*articulo.Articulo, error) {
	re, err := articulo.Matcher(text)
	if err != nil {
		return nil, err
	}
	return m.filter(func(a *articulo.Articulo) bool { return re.MatchString(a.Nombre) }), nil
}

func (m *MemoryRepo) FindByCategoria(ctx context.Context, text string) ([]*articulo.Articulo, error) {
	re, err := articulo.Matcher(text)
	if err != nil {
		return nil, err
	}
	return m.filter(func(a *articulo.Articulo) bool { return re.MatchString(a.Categoria) }), nil
}

func (m *MemoryRepo) FindByPrecioMinimo(ctx context.Context, precio float64) ([]*articulo.Articulo, error) {
	return m.filter(func(a *articulo.Articulo) bool { return a.Precio >= precio }), nil
}

func (m *MemoryRepo) Create(ctx context.Context, a *articulo.Articulo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insert(a)
	return nil
}

func (m *MemoryRepo) CreateMany(ctx context.Context, items []*articulo.Articulo) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range items {
		m.insert(a)
	}
	return len(items), nil
}

func (m *MemoryRepo) UpdatePrecio(ctx context.Context, codigo int64, precio float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(codigo)
	if i < 0 {
		return ErrNotFound
	}
	m.items[i].Precio = precio
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, codigo int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(codigo)
	if i < 0 {
		return ErrNotFound
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	return nil
}

func (m *MemoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.items))
	m.items = nil
	return n, nil
}

func (m *MemoryRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

// insert stores a copy with a fresh _id; the caller's value is left untouched
// as with the Mongo driver. Caller holds the write lock.
func (m *MemoryRepo) insert(a *articulo.Articulo) {
	c := a.Clone()
	c.ID = primitive.NewObjectID()
	m.items = append(m.items, c)
}

// index returns the position of the first article with codigo, or -1. Caller holds a lock.
func (m *MemoryRepo) index(codigo int64) int {
	for i, a := range m.items {
		if a.Codigo == codigo {
			return i
		}
	}
	return -1
}

func (m *MemoryRepo) filter(keep func(*articulo.Articulo) bool) []*articulo.Articulo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*articulo.Articulo{}
	for _, a := range m.items {
		if keep(a) {
			out = append(out, a.Clone())
		}
	}
	return out
}
