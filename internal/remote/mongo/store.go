// Package mongo backs the remote store contract with a MongoDB
// database. Collections are namespaced per owner account, mirroring
// the users/{owner}/{collection} layout of the hosted store.
package mongo

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"lendbook-backend/internal/domain/ledger"
	"lendbook-backend/internal/remote"
)

type Store struct {
	client *mongo.Client
	db     string
	owner  string
}

var _ remote.Store = (*Store)(nil)

// Open connects and pings within a short timeout. Owner scopes every
// collection name.
func Open(ctx context.Context, uri, db, owner string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &ledger.RemoteUnavailableError{Err: err}
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, &ledger.RemoteUnavailableError{Err: err}
	}
	return &Store{client: client, db: db, owner: owner}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) coll(collection string) *mongo.Collection {
	return s.client.Database(s.db).Collection(s.owner + "." + collection)
}

// docToBSON converts a JSON payload to a bson document keyed by the
// entity id. Amount fields arrive as JSON strings and are stored
// verbatim; the remote store never does arithmetic on them.
func docToBSON(id string, doc []byte) (bson.M, error) {
	var m bson.M
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, err
	}
	m["_id"] = id
	return m, nil
}

func (s *Store) Get(ctx context.Context, collection string) ([]remote.Document, error) {
	cur, err := s.coll(collection).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, &ledger.RemoteUnavailableError{Err: err}
	}
	defer cur.Close(ctx)

	var docs []remote.Document
	for cur.Next(ctx) {
		var m bson.M
		if err := cur.Decode(&m); err != nil {
			return nil, &ledger.RemoteUnavailableError{Err: err}
		}
		id, _ := m["_id"].(string)
		delete(m, "_id")
		data, err := json.Marshal(m)
		if err != nil {
			return nil, err
		}
		docs = append(docs, remote.Document{ID: id, Data: data})
	}
	if err := cur.Err(); err != nil {
		return nil, &ledger.RemoteUnavailableError{Err: err}
	}
	return docs, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, doc []byte) error {
	m, err := docToBSON(id, doc)
	if err != nil {
		return err
	}
	_, err = s.coll(collection).ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: id}}, m,
		options.Replace().SetUpsert(true))
	if err != nil {
		return &ledger.RemoteUnavailableError{Err: err}
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, partial []byte) error {
	var m bson.M
	if err := json.Unmarshal(partial, &m); err != nil {
		return err
	}
	delete(m, "_id")
	_, err := s.coll(collection).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: m}})
	if err != nil {
		return &ledger.RemoteUnavailableError{Err: err}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.coll(collection).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return &ledger.RemoteUnavailableError{Err: err}
	}
	return nil
}
