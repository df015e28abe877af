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

// UpdateOne applies mutations to the first record matching the filter,
// returns number of modified records (0 or 1).
//
//	db.UpdateOne(ctx, Name.Eq("Alan"), Age.Set(23), Name.Set("Alan Turing"))
func (db *Storage[T]) UpdateOne(ctx context.Context, filter docdb.Filter[T], updates ...docdb.Update[T]) (int64, error) {
	expr, update, err := db.reqUpdate(filter, updates)
	if err != nil {
		return 0, err
	}

	val, err := db.service.UpdateOne(ctx, expr, update)
	if err != nil {
		return 0, db.fault("updateOne", err)
	}

	db.logger.Debug("updated", zap.String("op", "updateOne"), zap.Int64("matched", val.MatchedCount), zap.Int64("modified", val.ModifiedCount))
	return val.ModifiedCount, nil
}

// UpdateMany applies mutations to every record matching the filter,
// returns number of modified records.
func (db *Storage[T]) UpdateMany(ctx context.Context, filter docdb.Filter[T], updates ...docdb.Update[T]) (int64, error) {
	expr, update, err := db.reqUpdate(filter, updates)
	if err != nil {
		return 0, err
	}

	val, err := db.service.UpdateMany(ctx, expr, update)
	if err != nil {
		return 0, db.fault("updateMany", err)
	}

	db.logger.Debug("updated", zap.String("op", "updateMany"), zap.Int64("matched", val.MatchedCount), zap.Int64("modified", val.ModifiedCount))
	return val.ModifiedCount, nil
}

// ReplaceOne replaces the first record matching the filter.
func (db *Storage[T]) ReplaceOne(ctx context.Context, filter docdb.Filter[T], entity *T) error {
	expr, err := filterOf(filter)
	if err != nil {
		return err
	}

	doc, err := db.codec.Encode(entity)
	if err != nil {
		return err
	}

	val, err := db.service.ReplaceOne(ctx, expr, doc)
	if err != nil {
		return db.fault("replaceOne", err)
	}

	db.logger.Debug("replaced", zap.String("op", "replaceOne"), zap.Int64("matched", val.MatchedCount))
	return nil
}

func (db *Storage[T]) reqUpdate(filter docdb.Filter[T], updates []docdb.Update[T]) (any, any, error) {
	expr, err := filterOf(filter)
	if err != nil {
		return nil, nil, err
	}

	update, err := updateOf(updates)
	if err != nil {
		return nil, nil, err
	}

	return expr, update, nil
}
