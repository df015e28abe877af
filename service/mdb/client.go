//
// Copyright (C) 2024 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/docdb
//

package mdb

import (
	"context"
	"sync"

	"github.com/fogfish/opts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Client is a session with single database server. The session owns
// connection(s) to the server, it has to be closed on every exit path.
//
//	client, err := mdb.Open(ctx)
//	if err != nil { ... }
//	defer client.Close(ctx)
type Client struct {
	client   *mongo.Client
	endpoint string
	logger   *zap.Logger

	once sync.Once
	err  error
}

// Open connects to the database server, it fails if server is not reachable
func Open(ctx context.Context, opt ...Option) (*Client, error) {
	c := optsDefault()
	if err := opts.Apply(&c, opt); err != nil {
		return nil, err
	}

	conf := c.clientOptions()
	endpoint := endpointOf(conf)
	if endpoint == "" {
		endpoint = c.endpoint()
	}

	client, err := mongo.Connect(ctx, conf)
	if err != nil {
		return nil, errConnection(endpoint, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, errConnection(endpoint, err)
	}

	logger := c.log()
	logger.Info("connected", zap.String("endpoint", endpoint))

	return &Client{
		client:   client,
		endpoint: endpoint,
		logger:   logger,
	}, nil
}

// Close releases connection(s), it is safe to call it multiple times
func (c *Client) Close(ctx context.Context) error {
	c.once.Do(func() {
		c.err = c.client.Disconnect(ctx)
		if c.err != nil {
			c.logger.Warn("disconnect failed", zap.String("endpoint", c.endpoint), zap.Error(c.err))
			c.err = errConnection(c.endpoint, c.err)
			return
		}
		c.logger.Info("disconnected", zap.String("endpoint", c.endpoint))
	})

	return c.err
}

// Endpoint of the server
func (c *Client) Endpoint() string { return c.endpoint }

// Database binds the named database, the database is created by server on
// the first write.
func (c *Client) Database(name string) *Database {
	return &Database{
		endpoint: c.endpoint,
		db:       c.client.Database(name),
		logger:   c.logger,
	}
}

// Database is a named database within the session
type Database struct {
	endpoint string
	db       *mongo.Database
	logger   *zap.Logger
}

// Name of database
func (db *Database) Name() string { return db.db.Name() }

// Collection binds the named collection of records T within database,
// the collection is created by server on the first write.
func Collection[T any](db *Database, name string, codec Codec[T]) *Storage[T] {
	coll := db.db.Collection(name)

	return &Storage[T]{
		endpoint: db.endpoint,
		service:  coll,
		indexer:  coll.Indexes(),
		codec:    codec,
		logger:   db.logger.With(zap.String("collection", coll.Name())),
	}
}
