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
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// cursor over documents at server
type cursor interface {
	Next(context.Context) bool
	Current() bson.Raw
	Err() error
	Close(context.Context) error
}

// mongo.Cursor exposes current document as field
type mongoCursor struct{ *mongo.Cursor }

func (c mongoCursor) Current() bson.Raw { return c.Cursor.Current }

// Seq is lazy sequence of records decoded from cursor. The cursor is
// released exactly once when sequence is exhausted, failed or closed.
type Seq[T any] struct {
	ctx    context.Context
	cursor cursor
	codec  Codec[T]
	logger *zap.Logger

	head     T
	err      error
	released bool
}

var _ docdb.Seq[struct{}] = (*Seq[struct{}])(nil)

func newSeq[T any](ctx context.Context, c cursor, codec Codec[T], logger *zap.Logger) *Seq[T] {
	return &Seq[T]{
		ctx:    ctx,
		cursor: c,
		codec:  codec,
		logger: logger,
	}
}

// Next evaluates the next element of sequence
func (seq *Seq[T]) Next() bool {
	if seq.released {
		return false
	}

	if !seq.cursor.Next(seq.ctx) {
		if err := seq.cursor.Err(); err != nil {
			seq.err = errStream(err)
		}
		seq.release()
		return false
	}

	var head T
	if err := seq.codec.Decode(seq.cursor.Current(), &head); err != nil {
		seq.err = err
		seq.release()
		return false
	}

	seq.head = head
	return true
}

// Value returns current element of sequence
func (seq *Seq[T]) Value() T { return seq.head }

// Err returns error of sequence evaluation
func (seq *Seq[T]) Err() error { return seq.err }

// Close releases cursor, the sequence is empty after it
func (seq *Seq[T]) Close() error {
	return seq.release()
}

// FMap applies function to each element of sequence
func (seq *Seq[T]) FMap(f func(T) error) error {
	defer seq.release()

	for seq.Next() {
		if err := f(seq.head); err != nil {
			return err
		}
	}

	return seq.err
}

func (seq *Seq[T]) release() error {
	if seq.released {
		return nil
	}
	seq.released = true

	// cursor is released even if the caller's context is cancelled
	if err := seq.cursor.Close(context.WithoutCancel(seq.ctx)); err != nil {
		seq.logger.Warn("cursor release failed", zap.Error(err))
		return errStream(err)
	}

	return nil
}
