package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/supermercado/api-supermercado/internal/articulo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoRepo implements Repository on a MongoDB collection. The collection's
// client is shared by all requests; the driver checks a pooled connection out
// for each call and returns it when the call completes.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

// EnsureIndexes creates a non-unique index on codigo. Duplicate codigos stay allowed.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "codigo", Value: 1}}, Options: options.Index().SetName("codigo_1")}
	if _, err := m.col.Indexes().CreateOne(ctx, idxModel); err != nil {
		return fmt.Errorf("create codigo index: %w", err)
	}
	return nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*articulo.Articulo, error) {
	return m.find(ctx, bson.M{})
}

func (m *MongoRepo) GetByCodigo(ctx context.Context, codigo int64) (*articulo.Articulo, error) {
	var a articulo.Articulo
	err := m.col.FindOne(ctx, bson.M{"codigo": codigo}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find codigo %d: %w", codigo, err)
	}
	return &a, nil
}

func (m *MongoRepo) FindByNombre(ctx context.Context, text string) ([]*articulo.Articulo, error) {
	return m.find(ctx, bson.M{"nombre": containsFold(text)})
}

func (m *MongoRepo) FindByCategoria(ctx context.Context, text string) ([]*articulo.Articulo, error) {
	return m.find(ctx, bson.M{"categoria": containsFold(text)})
}

func (m *MongoRepo) FindByPrecioMinimo(ctx context.Context, precio float64) ([]*articulo.Articulo, error) {
	return m.find(ctx, bson.M{"precio": bson.M{"$gte": precio}})
}

func (m *MongoRepo) Create(ctx context.Context, a *articulo.Articulo) error {
	if _, err := m.col.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert articulo: %w", err)
	}
	return nil
}

func (m *MongoRepo) CreateMany(ctx context.Context, items []*articulo.Articulo) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(items))
	for _, a := range items {
		docs = append(docs, a)
	}
	res, err := m.col.InsertMany(ctx, docs)
	if err != nil {
		n := 0
		if res != nil {
			n = len(res.InsertedIDs)
		}
		return n, fmt.Errorf("insert articulos: %w", err)
	}
	return len(res.InsertedIDs), nil
}

func (m *MongoRepo) UpdatePrecio(ctx context.Context, codigo int64, precio float64) error {
	res, err := m.col.UpdateOne(ctx, bson.M{"codigo": codigo}, bson.M{"$set": bson.M{"precio": precio}})
	if err != nil {
		return fmt.Errorf("update precio codigo %d: %w", codigo, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, codigo int64) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"codigo": codigo})
	if err != nil {
		return fmt.Errorf("delete codigo %d: %w", codigo, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := m.col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("delete all: %w", err)
	}
	return res.DeletedCount, nil
}

func (m *MongoRepo) Ping(ctx context.Context) error {
	return m.col.Database().Client().Ping(ctx, readpref.Primary())
}

func (m *MongoRepo) find(ctx context.Context, filter bson.M) ([]*articulo.Articulo, error) {
	cur, err := m.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find articulos: %w", err)
	}
	defer cur.Close(ctx)
	out := []*articulo.Articulo{}
	for cur.Next(ctx) {
		var a articulo.Articulo
		if err := cur.Decode(&a); err != nil {
			return nil, fmt.Errorf("decode articulo: %w", err)
		}
		out = append(out, &a)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate articulos: %w", err)
	}
	return out, nil
}

// containsFold is the case-insensitive literal substring condition for text.
func containsFold(text string) primitive.Regex {
	return primitive.Regex{Pattern: articulo.SearchPattern(text), Options: "i"}
}
