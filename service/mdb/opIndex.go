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
	"fmt"

	"github.com/fogfish/docdb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// CreateIndex creates index over attributes, returns the name of index.
// Creating the same index again is no-op, conflicting definition of index
// fails.
//
//	db.CreateIndex(ctx, Name.Asc(), Age.Desc(), mdb.Unique(true))
func (db *Storage[T]) CreateIndex(ctx context.Context, opts ...docdb.IndexOpt) (string, error) {
	if db.indexer == nil {
		return "", errUndefinedIndexer.New(fmt.Errorf("index api is not defined for %s", db.service.Name()))
	}

	model, err := indexOf(opts)
	if err != nil {
		return "", err
	}

	name, err := db.indexer.CreateOne(ctx, model)
	if err != nil {
		if recoverIndexConflict(err) {
			db.logger.Warn("index conflict", zap.String("op", "createIndex"), zap.Error(err))
			return "", errIndexConflict(err)
		}
		return "", db.fault("createIndex", err)
	}

	db.logger.Debug("indexed", zap.String("op", "createIndex"), zap.String("index", name))
	return name, nil
}

func indexOf(opts []docdb.IndexOpt) (mongo.IndexModel, error) {
	keys := make([]IndexKey, 0, len(opts))
	spec := options.Index()

	for _, opt := range opts {
		switch v := opt.(type) {
		case IndexKey:
			keys = append(keys, v)
		case Unique:
			spec.SetUnique(bool(v))
		case IndexName:
			spec.SetName(string(v))
		default:
			return mongo.IndexModel{}, errInvalidIndex.New(fmt.Errorf("unsupported option %T", opt))
		}
	}

	if len(keys) == 0 {
		return mongo.IndexModel{}, errInvalidIndex.New(fmt.Errorf("index key is not defined"))
	}

	return mongo.IndexModel{Keys: keysOf(keys), Options: spec}, nil
}
