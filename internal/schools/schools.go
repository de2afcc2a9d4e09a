// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// schools.go - MongoDB document helpers for the schools collection:
// insert a document built from arbitrary fields, and replace the topics of
// every school matching a name.

// Package schools provides MongoDB CRUD helpers for school documents.
package schools

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Inserter is the subset of *mongo.Collection used by InsertSchool.
type Inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// Updater is the subset of *mongo.Collection used by UpdateTopics.
type Updater interface {
	UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// InsertSchool inserts one document built from fields and returns its _id.
func InsertSchool(ctx context.Context, coll Inserter, fields bson.M) (any, error) {
	doc := bson.M{}
	for k, v := range fields {
		doc[k] = v
	}
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("schools: insert: %w", err)
	}
	return res.InsertedID, nil
}

// UpdateTopics sets the topics of every school whose name equals name and
// returns the number of modified documents.
func UpdateTopics(ctx context.Context, coll Updater, name string, topics []string) (int64, error) {
	if topics == nil {
		topics = []string{}
	}
	filter := bson.M{"name": name}
	update := bson.M{"$set": bson.M{"topics": topics}}
	res, err := coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("schools: update topics for %q: %w", name, err)
	}
	return res.ModifiedCount, nil
}

// Default database and collection names used by the CLI.
const (
	DefaultDatabase   = "my_db"
	DefaultCollection = "school"
)

// Open connects to the MongoDB server at uri and returns the named
// collection along with a function that disconnects the client.
func Open(ctx context.Context, uri, database, collection string) (*mongo.Collection, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("schools: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("schools: ping: %w", err)
	}
	return client.Database(database).Collection(collection), client.Disconnect, nil
}
