//
// Copyright (C) 2024 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/docdb
//

package mdb

import (
	"fmt"

	"github.com/fogfish/docdb"
	"github.com/fogfish/opts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Storage is a collection of records T
type Storage[T any] struct {
	endpoint string
	service  Service
	indexer  Indexer
	codec    Codec[T]
	logger   *zap.Logger
}

var _ docdb.Collection[struct{}] = (*Storage[struct{}])(nil)

// Must constraint for api factory
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}

	return val
}

// New creates storage of records T over the collection api
//
//	mdb.New[Person](person.Schema, mdb.WithCollection(coll))
func New[T any](codec Codec[T], opt ...Option) (*Storage[T], error) {
	c := optsDefault()
	if err := opts.Apply(&c, opt); err != nil {
		return nil, err
	}

	if c.service == nil {
		return nil, errUndefinedService.New(fmt.Errorf("collection is not defined"))
	}

	return &Storage[T]{
		endpoint: endpointOf(c.clientOptions()),
		service:  c.service,
		indexer:  c.indexer,
		codec:    codec,
		logger:   c.log().With(zap.String("collection", c.service.Name())),
	}, nil
}

// Name of collection
func (db *Storage[T]) Name() string { return db.service.Name() }

// classifies driver errors
func (db *Storage[T]) fault(op string, err error) error {
	db.logger.Warn("operation failed", zap.String("op", op), zap.Error(err))

	switch {
	case mongo.IsDuplicateKeyError(err):
		return errDuplicateKey(err)
	case recoverConnectionLost(err):
		return errConnection(db.endpoint, err)
	default:
		return errServiceIO.New(err)
	}
}
