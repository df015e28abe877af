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
	"errors"

	"github.com/fogfish/docdb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// FindOne looks up the first record matching the filter, returns nil if
// nothing is found.
func (db *Storage[T]) FindOne(ctx context.Context, filter docdb.Filter[T], opts ...docdb.FindOpt) (*T, error) {
	expr, err := filterOf(filter)
	if err != nil {
		return nil, err
	}

	raw, err := db.service.FindOne(ctx, expr, findOneOptions(opts)).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			db.logger.Debug("not found", zap.String("op", "findOne"))
			return nil, nil
		}
		return nil, db.fault("findOne", err)
	}

	var entity T
	if err := db.codec.Decode(raw, &entity); err != nil {
		return nil, err
	}

	return &entity, nil
}

// Find looks up records matching the filter, returns lazy sequence.
func (db *Storage[T]) Find(ctx context.Context, filter docdb.Filter[T], opts ...docdb.FindOpt) (docdb.Seq[T], error) {
	expr, err := filterOf(filter)
	if err != nil {
		return nil, err
	}

	c, err := db.service.Find(ctx, expr, findOptions(opts))
	if err != nil {
		return nil, db.fault("find", err)
	}

	return newSeq(ctx, mongoCursor{c}, db.codec, db.logger), nil
}

// CountDocuments returns number of records matching the filter.
func (db *Storage[T]) CountDocuments(ctx context.Context, filter docdb.Filter[T]) (int64, error) {
	expr, err := filterOf(filter)
	if err != nil {
		return 0, err
	}

	n, err := db.service.CountDocuments(ctx, expr)
	if err != nil {
		return 0, db.fault("countDocuments", err)
	}

	return n, nil
}

func findOptions(opts []docdb.FindOpt) *options.FindOptions {
	req := options.Find()
	for _, opt := range opts {
		switch v := opt.(type) {
		case Limit:
			req.SetLimit(int64(v))
		case Skip:
			req.SetSkip(int64(v))
		case Sort:
			req.SetSort(keysOf(v))
		}
	}
	return req
}

func findOneOptions(opts []docdb.FindOpt) *options.FindOneOptions {
	req := options.FindOne()
	for _, opt := range opts {
		switch v := opt.(type) {
		case Skip:
			req.SetSkip(int64(v))
		case Sort:
			req.SetSort(keysOf(v))
		}
	}
	return req
}
