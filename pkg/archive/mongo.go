package archive

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zomglings/busybody/pkg/errors"
	"github.com/zomglings/busybody/pkg/venv"
)

// MongoStore persists reports to a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to the MongoDB deployment at uri and targets the
// given database and collection. The connection is verified with a short
// ping so a bad URI fails before the scan runs.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArchive, err, "connect to %s", uri)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeArchive, err, "ping %s", uri)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Save inserts the report as one document with _id set to the run ID.
// The report is round-tripped through its JSON form so the stored document
// matches the schema the CLI prints.
func (s *MongoStore) Save(ctx context.Context, report *venv.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return errors.Wrap(errors.ErrCodeArchive, err, "serialize report %s", report.RunID)
	}

	var doc bson.M
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return errors.Wrap(errors.ErrCodeArchive, err, "convert report %s", report.RunID)
	}
	doc["_id"] = report.RunID

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return errors.Wrap(errors.ErrCodeArchive, err, "insert report %s", report.RunID)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
