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

	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// InsertOne persists record, its identity is assigned unless defined.
func (db *Storage[T]) InsertOne(ctx context.Context, entity *T) error {
	doc, err := db.codec.Encode(entity)
	if err != nil {
		return err
	}

	val, err := db.service.InsertOne(ctx, doc)
	if err != nil {
		return db.fault("insertOne", err)
	}

	if err := db.codec.Identify(entity, val.InsertedID); err != nil {
		return err
	}

	db.logger.Debug("inserted", zap.String("op", "insertOne"), zap.Any("id", val.InsertedID))
	return nil
}

// InsertMany persists records in order, identities are assigned in place.
// Insert stops at the first failure, records before it are persisted and
// identified, the cause of failure is returned.
func (db *Storage[T]) InsertMany(ctx context.Context, seq []T) error {
	if len(seq) == 0 {
		return nil
	}

	docs := make([]interface{}, len(seq))
	for i := range seq {
		doc, err := db.codec.Encode(&seq[i])
		if err != nil {
			return err
		}
		docs[i] = doc
	}

	val, err := db.service.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))

	n := len(seq)
	if err != nil {
		n = recoverInsertedPrefix(err, len(seq))
	}

	if val != nil {
		for i := 0; i < n && i < len(val.InsertedIDs); i++ {
			if err := db.codec.Identify(&seq[i], val.InsertedIDs[i]); err != nil {
				return err
			}
		}
	}

	if err != nil {
		return db.fault("insertMany", err)
	}

	db.logger.Debug("inserted", zap.String("op", "insertMany"), zap.Int("count", n))
	return nil
}
