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
	"testing"

	"github.com/fogfish/docdb"
	"github.com/fogfish/it/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// cursor over in-memory documents, fails after the documents if err is set
type tCursor struct {
	docs    []bson.Raw
	at      int
	err     error
	closeAt error
	closed  int
}

func (c *tCursor) Next(context.Context) bool {
	if c.at >= len(c.docs) {
		return false
	}
	c.at++
	return true
}

func (c *tCursor) Current() bson.Raw { return c.docs[c.at-1] }
func (c *tCursor) Err() error {
	if c.at >= len(c.docs) {
		return c.err
	}
	return nil
}

func (c *tCursor) Close(context.Context) error {
	c.closed++
	return c.closeAt
}

func tCursorOf(t *testing.T, seq ...tPerson) *tCursor {
	t.Helper()

	c := &tCursor{}
	for _, x := range seq {
		doc, err := tPersonSchema.Encode(&x)
		if err != nil {
			t.Fatal(err)
		}
		c.docs = append(c.docs, tRaw(t, doc))
	}
	return c
}

func streamFailed(err error) bool {
	var e interface{ StreamFailed() bool }
	return errors.As(err, &e) && e.StreamFailed()
}

var tPeople = []tPerson{
	{ID: tOID, Name: "Sir Tim Berners-Lee", Age: 61, Address: tAddress{Street: "Colehill"}},
	{ID: tOID, Name: "Alan Turing", Age: 28, Address: tAddress{Street: "Bletchley Hall", Zip: ptr("MK12")}},
	{ID: tOID, Name: "Ada Lovelace", Age: 45, Address: tAddress{Street: "St James Square", Zip: ptr("SW1Y")}},
}

func TestSeq(t *testing.T) {
	t.Run("Exhausted", func(t *testing.T) {
		c := tCursorOf(t, tPeople...)
		seq := newSeq[tPerson](context.Background(), c, tPersonSchema, zap.NewNop())

		var got []tPerson
		for seq.Next() {
			got = append(got, seq.Value())
		}

		it.Then(t).Should(
			it.Nil(seq.Err()),
			it.Equiv(got, tPeople),
			it.Equal(c.closed, 1),
		)

		// sequence is not restartable
		it.Then(t).Should(
			it.True(!seq.Next()),
			it.Nil(seq.Close()),
			it.Equal(c.closed, 1),
		)
	})

	t.Run("Empty", func(t *testing.T) {
		c := tCursorOf(t)
		seq := newSeq[tPerson](context.Background(), c, tPersonSchema, zap.NewNop())

		it.Then(t).Should(
			it.True(!seq.Next()),
			it.Nil(seq.Err()),
			it.Equal(c.closed, 1),
		)
	})

	t.Run("FMap", func(t *testing.T) {
		c := tCursorOf(t, tPeople...)
		seq := newSeq[tPerson](context.Background(), c, tPersonSchema, zap.NewNop())

		var got docdb.Things[tPerson]
		err := seq.FMap(got.Join)
		it.Then(t).Should(
			it.Nil(err),
			it.Equiv([]tPerson(got), tPeople),
			it.Equal(c.closed, 1),
		)
	})

	t.Run("FMapEarlyExit", func(t *testing.T) {
		c := tCursorOf(t, tPeople...)
		seq := newSeq[tPerson](context.Background(), c, tPersonSchema, zap.NewNop())

		stop := errors.New("stop")
		n := 0
		err := seq.FMap(func(tPerson) error {
			n++
			return stop
		})
		it.Then(t).Should(
			it.True(errors.Is(err, stop)),
			it.Equal(n, 1),
			it.Equal(c.closed, 1),
		)
	})

	t.Run("Close", func(t *testing.T) {
		c := tCursorOf(t, tPeople...)
		seq := newSeq[tPerson](context.Background(), c, tPersonSchema, zap.NewNop())

		it.Then(t).Should(
			it.True(seq.Next()),
			it.Nil(seq.Close()),
			it.Nil(seq.Close()),
			it.True(!seq.Next()),
			it.Equal(c.closed, 1),
		)
	})

	t.Run("MappingError", func(t *testing.T) {
		c := tCursorOf(t, tPeople...)
		c.docs[1] = tRaw(t, bson.D{{Key: "name", Value: "Alan Turing"}})
		seq := newSeq[tPerson](context.Background(), c, tPersonSchema, zap.NewNop())

		n := 0
		for seq.Next() {
			n++
		}

		it.Then(t).Should(
			it.Equal(n, 1),
			it.Equal(mappingFailed(seq.Err()), "age"),
			it.Equal(c.closed, 1),
		)
	})

	t.Run("StreamError", func(t *testing.T) {
		c := tCursorOf(t, tPeople[0])
		c.err = errors.New("connection reset")
		seq := newSeq[tPerson](context.Background(), c, tPersonSchema, zap.NewNop())

		var got docdb.Things[tPerson]
		err := seq.FMap(got.Join)
		it.Then(t).Should(
			it.True(streamFailed(err)),
			it.True(streamFailed(seq.Err())),
			it.Equal(len(got), 1),
			it.Equal(c.closed, 1),
		)
	})

	t.Run("ReleaseError", func(t *testing.T) {
		c := tCursorOf(t, tPeople...)
		c.closeAt = errors.New("killCursors failed")
		seq := newSeq[tPerson](context.Background(), c, tPersonSchema, zap.NewNop())

		it.Then(t).Should(
			it.True(streamFailed(seq.Close())),
			it.Nil(seq.Close()),
			it.Equal(c.closed, 1),
		)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := tCursorOf(t, tPeople...)
		seq := newSeq[tPerson](ctx, c, tPersonSchema, zap.NewNop())

		it.Then(t).Should(
			it.True(seq.Next()),
			it.Nil(seq.Close()),
			it.Equal(c.closed, 1),
		)
	})
}
