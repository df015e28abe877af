//
// Copyright (C) 2024 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/docdb
//

//
// The file mocks MongoDB collection
//

package mdbtest

import (
	"context"
	"errors"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fogfish/docdb/service/mdb"
)

var errUnexpected = errors.New("unexpected request")

/*
mock factory
*/
func mock[T any](codec mdb.Codec[T], service mdb.Service, opt ...mdb.Option) *mdb.Storage[T] {
	return mdb.Must(
		mdb.New(codec, append([]mdb.Option{mdb.WithService(service)}, opt...)...),
	)
}

type collection struct{ mdb.Service }

func (collection) Name() string { return "test" }

/*
InsertOne mock
*/
func InsertOne[T any](
	codec mdb.Codec[T],
	expectDoc bson.D,
	returnID any,
) *mdb.Storage[T] {
	return mock(codec, &mdbInsertOne{expectDoc: expectDoc, returnID: returnID})
}

type mdbInsertOne struct {
	collection
	expectDoc bson.D
	returnID  any
}

func (mock *mdbInsertOne) InsertOne(ctx context.Context, doc interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if !reflect.DeepEqual(mock.expectDoc, doc) {
		return nil, errUnexpected
	}

	return &mongo.InsertOneResult{InsertedID: mock.returnID}, nil
}

/*
InsertMany mock
*/
func InsertMany[T any](
	codec mdb.Codec[T],
	expectDocs []interface{},
	returnIDs []interface{},
	returnErr error,
) *mdb.Storage[T] {
	return mock(codec, &mdbInsertMany{expectDocs: expectDocs, returnIDs: returnIDs, returnErr: returnErr})
}

type mdbInsertMany struct {
	collection
	expectDocs []interface{}
	returnIDs  []interface{}
	returnErr  error
}

func (mock *mdbInsertMany) InsertMany(ctx context.Context, docs []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	if !reflect.DeepEqual(mock.expectDocs, docs) {
		return nil, errUnexpected
	}

	return &mongo.InsertManyResult{InsertedIDs: mock.returnIDs}, mock.returnErr
}

/*
FindOne mock, nil document is not found
*/
func FindOne[T any](
	codec mdb.Codec[T],
	expectFilter bson.D,
	returnDoc bson.D,
) *mdb.Storage[T] {
	return mock(codec, &mdbFindOne{expectFilter: expectFilter, returnDoc: returnDoc})
}

type mdbFindOne struct {
	collection
	expectFilter bson.D
	returnDoc    bson.D
}

func (mock *mdbFindOne) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	if !reflect.DeepEqual(mock.expectFilter, filter) {
		return mongo.NewSingleResultFromDocument(bson.D{}, errUnexpected, nil)
	}

	if mock.returnDoc == nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}

	return mongo.NewSingleResultFromDocument(mock.returnDoc, nil, nil)
}

/*
Find mock
*/
func Find[T any](
	codec mdb.Codec[T],
	expectFilter bson.D,
	returnDocs []interface{},
) *mdb.Storage[T] {
	return mock(codec, &mdbFind{expectFilter: expectFilter, returnDocs: returnDocs})
}

type mdbFind struct {
	collection
	expectFilter bson.D
	returnDocs   []interface{}
}

func (mock *mdbFind) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	if !reflect.DeepEqual(mock.expectFilter, filter) {
		return nil, errUnexpected
	}

	return mongo.NewCursorFromDocuments(mock.returnDocs, nil, nil)
}

/*
CountDocuments mock
*/
func CountDocuments[T any](
	codec mdb.Codec[T],
	expectFilter bson.D,
	returnCount int64,
) *mdb.Storage[T] {
	return mock(codec, &mdbCount{expectFilter: expectFilter, returnCount: returnCount})
}

type mdbCount struct {
	collection
	expectFilter bson.D
	returnCount  int64
}

func (mock *mdbCount) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	if !reflect.DeepEqual(mock.expectFilter, filter) {
		return 0, errUnexpected
	}

	return mock.returnCount, nil
}

/*
Update mock, it serves UpdateOne and UpdateMany
*/
func Update[T any](
	codec mdb.Codec[T],
	expectFilter bson.D,
	expectUpdate bson.D,
	returnModified int64,
) *mdb.Storage[T] {
	return mock(codec, &mdbUpdate{expectFilter: expectFilter, expectUpdate: expectUpdate, returnModified: returnModified})
}

type mdbUpdate struct {
	collection
	expectFilter   bson.D
	expectUpdate   bson.D
	returnModified int64
}

func (mock *mdbUpdate) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return mock.update(filter, update)
}

func (mock *mdbUpdate) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return mock.update(filter, update)
}

func (mock *mdbUpdate) update(filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	if !reflect.DeepEqual(mock.expectFilter, filter) || !reflect.DeepEqual(mock.expectUpdate, update) {
		return nil, errUnexpected
	}

	return &mongo.UpdateResult{MatchedCount: mock.returnModified, ModifiedCount: mock.returnModified}, nil
}

/*
ReplaceOne mock
*/
func ReplaceOne[T any](
	codec mdb.Codec[T],
	expectFilter bson.D,
	expectDoc bson.D,
) *mdb.Storage[T] {
	return mock(codec, &mdbReplaceOne{expectFilter: expectFilter, expectDoc: expectDoc})
}

type mdbReplaceOne struct {
	collection
	expectFilter bson.D
	expectDoc    bson.D
}

func (mock *mdbReplaceOne) ReplaceOne(ctx context.Context, filter interface{}, doc interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	if !reflect.DeepEqual(mock.expectFilter, filter) || !reflect.DeepEqual(mock.expectDoc, doc) {
		return nil, errUnexpected
	}

	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

/*
Delete mock, it serves DeleteOne and DeleteMany
*/
func Delete[T any](
	codec mdb.Codec[T],
	expectFilter bson.D,
	returnDeleted int64,
) *mdb.Storage[T] {
	return mock(codec, &mdbDelete{expectFilter: expectFilter, returnDeleted: returnDeleted})
}

type mdbDelete struct {
	collection
	expectFilter  bson.D
	returnDeleted int64
}

func (mock *mdbDelete) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return mock.delete(filter)
}

func (mock *mdbDelete) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return mock.delete(filter)
}

func (mock *mdbDelete) delete(filter interface{}) (*mongo.DeleteResult, error) {
	if !reflect.DeepEqual(mock.expectFilter, filter) {
		return nil, errUnexpected
	}

	return &mongo.DeleteResult{DeletedCount: mock.returnDeleted}, nil
}

/*
CreateIndex mock
*/
func CreateIndex[T any](
	codec mdb.Codec[T],
	expectKeys bson.D,
	returnErr error,
) *mdb.Storage[T] {
	return mock(codec, collection{}, mdb.WithIndexer(&mdbIndexer{expectKeys: expectKeys, returnErr: returnErr}))
}

type mdbIndexer struct {
	expectKeys bson.D
	returnErr  error
}

func (mock *mdbIndexer) CreateOne(ctx context.Context, model mongo.IndexModel, opts ...*options.CreateIndexesOptions) (string, error) {
	if !reflect.DeepEqual(mock.expectKeys, model.Keys) {
		return "", errUnexpected
	}

	if mock.returnErr != nil {
		return "", mock.returnErr
	}

	name := ""
	if model.Options != nil && model.Options.Name != nil {
		name = *model.Options.Name
	}
	return name, nil
}

/*
Failure mock, every operation fails with the error
*/
func Failure[T any](codec mdb.Codec[T], returnErr error) *mdb.Storage[T] {
	return mock(codec, &mdbFailure{returnErr: returnErr})
}

type mdbFailure struct {
	collection
	returnErr error
}

func (mock *mdbFailure) InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return nil, mock.returnErr
}

func (mock *mdbFailure) FindOne(context.Context, interface{}, ...*options.FindOneOptions) *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(bson.D{}, mock.returnErr, nil)
}

func (mock *mdbFailure) Find(context.Context, interface{}, ...*options.FindOptions) (*mongo.Cursor, error) {
	return nil, mock.returnErr
}

func (mock *mdbFailure) UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return nil, mock.returnErr
}

func (mock *mdbFailure) DeleteMany(context.Context, interface{}, ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return nil, mock.returnErr
}
