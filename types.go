//
// Copyright (C) 2024 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/docdb
//

//
// The file declares public types of the library
//

package docdb

import (
	"context"
)

//-----------------------------------------------------------------------------
//
// Expressions
//
//-----------------------------------------------------------------------------

// Filter is a predicate over documents of type T, it selects documents
// for read, update and delete. The nil filter selects every document.
type Filter[T any] interface{ Filter(T) }

// Update is a single field mutation applied to documents of type T.
type Update[T any] interface{ Update(T) }

// FindOpt configures lookup (sort, limit, skip).
type FindOpt interface{ FindOpt() }

// IndexOpt configures index (keys, name, uniqueness).
type IndexOpt interface{ IndexOpt() }

//-----------------------------------------------------------------------------
//
// Storage Lazy Sequence
//
//-----------------------------------------------------------------------------

/*
Seq is a finite, lazy sequence of documents matched by the filter.
The sequence is not restartable, once consumed it remains empty.
The underlying cursor is released when the sequence is exhausted, fails,
or closed explicitly.

	seq, err := db.Find(ctx, filter)
	if err != nil { ... }
	defer seq.Close()

	for seq.Next() {
	  seq.Value()
	}
	if err := seq.Err(); err != nil { ... }
*/
type Seq[T any] interface {
	// Next evaluates the next element of sequence
	Next() bool
	// Value returns current element of sequence
	Value() T
	// Err returns error of sequence evaluation
	Err() error
	// Close releases resources held by sequence
	Close() error
	// FMap applies function to each element, the sequence is always released
	FMap(func(T) error) error
}

/*
Things is sequence of records

	seq := docdb.Things[Person]{}
	db.Find(...).FMap(seq.Join)
*/
type Things[T any] []T

// Join appends element to sequence
func (seq *Things[T]) Join(t T) error {
	*seq = append(*seq, t)
	return nil
}

//-----------------------------------------------------------------------------
//
// Collection
//
//-----------------------------------------------------------------------------

// Inserter persists new documents, the storage assigns identity.
type Inserter[T any] interface {
	InsertOne(context.Context, *T) error
	InsertMany(context.Context, []T) error
}

// Finder looks up documents matching the filter.
type Finder[T any] interface {
	FindOne(context.Context, Filter[T], ...FindOpt) (*T, error)
	Find(context.Context, Filter[T], ...FindOpt) (Seq[T], error)
	CountDocuments(context.Context, Filter[T]) (int64, error)
}

// Updater mutates documents matching the filter, returns number of modified documents.
type Updater[T any] interface {
	UpdateOne(context.Context, Filter[T], ...Update[T]) (int64, error)
	UpdateMany(context.Context, Filter[T], ...Update[T]) (int64, error)
	ReplaceOne(context.Context, Filter[T], *T) error
}

// Remover deletes documents matching the filter, returns number of deleted documents.
type Remover[T any] interface {
	DeleteOne(context.Context, Filter[T]) (int64, error)
	DeleteMany(context.Context, Filter[T]) (int64, error)
}

// Indexer manages collection indexes.
type Indexer interface {
	CreateIndex(context.Context, ...IndexOpt) (string, error)
}

// Collection is a named set of documents of type T within a named database.
type Collection[T any] interface {
	Inserter[T]
	Finder[T]
	Updater[T]
	Remover[T]
	Indexer
}
