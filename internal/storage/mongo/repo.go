package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"ibe_backend/internal/domain"
)

const collectionName = "configuration"

// configurationDoc keeps data as a string so the stored bytes are returned unchanged.
type configurationDoc struct {
	ID        int64     `bson:"_id"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type Repo struct{ coll *mongo.Collection }

var _ domain.ConfigurationRepository = (*Repo)(nil)

func New(db *mongo.Database) *Repo { return &Repo{coll: db.Collection(collectionName)} }

// Connect dials uri and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func (r *Repo) Save(ctx context.Context, cfg domain.Configuration) (domain.Configuration, error) {
	doc := configurationDoc{ID: cfg.ID, Data: string(cfg.Data), UpdatedAt: time.Now().UTC()}
	_, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: cfg.ID}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return domain.Configuration{}, fmt.Errorf("save configuration %d: %w", cfg.ID, err)
	}
	return cfg, nil
}

func (r *Repo) FindByID(ctx context.Context, id int64) (domain.Configuration, error) {
	var doc configurationDoc
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Configuration{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Configuration{}, fmt.Errorf("get configuration %d: %w", id, err)
	}
	return domain.Configuration{ID: doc.ID, Data: json.RawMessage(doc.Data)}, nil
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
