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

	"github.com/fogfish/docdb"
	"go.uber.org/zap"
)

// DeleteOne removes the first record matching the filter, returns number
// of deleted records (0 or 1).
func (db *Storage[T]) DeleteOne(ctx context.Context, filter docdb.Filter[T]) (int64, error) {
	expr, err := filterOf(filter)
	if err != nil {
		return 0, err
	}

	val, err := db.service.DeleteOne(ctx, expr)
	if err != nil {
		return 0, db.fault("deleteOne", err)
	}

	db.logger.Debug("deleted", zap.String("op", "deleteOne"), zap.Int64("deleted", val.DeletedCount))
	return val.DeletedCount, nil
}

// DeleteMany removes every record matching the filter, returns number of
// deleted records.
func (db *Storage[T]) DeleteMany(ctx context.Context, filter docdb.Filter[T]) (int64, error) {
	expr, err := filterOf(filter)
	if err != nil {
		return 0, err
	}

	val, err := db.service.DeleteMany(ctx, expr)
	if err != nil {
		return 0, db.fault("deleteMany", err)
	}

	db.logger.Debug("deleted", zap.String("op", "deleteMany"), zap.Int64("deleted", val.DeletedCount))
	return val.DeletedCount, nil
}

// Drop removes collection with all records and indexes.
func (db *Storage[T]) Drop(ctx context.Context) error {
	if err := db.service.Drop(ctx); err != nil {
		return db.fault("drop", err)
	}

	db.logger.Debug("dropped", zap.String("op", "drop"))
	return nil
}
