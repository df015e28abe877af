//
// Copyright (C) 2024 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/docdb
//

//
// The file declares test suite for Collection interfaces
// Each Collection bound to live server MUST pass the defined test suite
//

package docdbtest

import (
	"context"
	"errors"
	"testing"

	"github.com/fogfish/docdb"
	"github.com/fogfish/docdb/person"
	"github.com/fogfish/docdb/service/mdb"
	"github.com/fogfish/it"
)

/*
Storage is collection that is dropped before each test
*/
type Storage[T any] interface {
	docdb.Collection[T]
	Drop(context.Context) error
}

func fixtureAda() person.Person {
	return person.New("Ada Lovelace", 45, person.NewAddress("St James Square", "London", "SW1Y"))
}

func fixtureAlan() person.Person {
	return person.New("Alan Turing", 28, person.NewAddress("Bletchley Hall", "Bletchley Park", "MK12"))
}

func fixtureTim() person.Person {
	return person.New("Timothy Berners-Lee", 61, person.NewAddress("Colehill", "Wimborne", ""))
}

func fixturePeople() []person.Person {
	return []person.Person{fixtureAda(), fixtureAlan(), fixtureTim()}
}

func clean[T any](t *testing.T, db Storage[T]) {
	t.Helper()

	err := db.Drop(context.TODO())
	it.Ok(t).IfNil(err)
}

func seed(t *testing.T, db Storage[person.Person]) []person.Person {
	t.Helper()

	clean(t, db)
	seq := fixturePeople()
	err := db.InsertMany(context.TODO(), seq)
	it.Ok(t).IfNil(err)

	return seq
}

func collect[T any](t *testing.T, seq docdb.Seq[T], err error) []T {
	t.Helper()
	it.Ok(t).IfNil(err)

	var val docdb.Things[T]
	err = seq.FMap(val.Join)
	it.Ok(t).IfNil(err)

	return val
}

func isDuplicateKey(err error) bool {
	var e interface{ DuplicateKey() bool }
	return errors.As(err, &e) && e.DuplicateKey()
}

func isIndexConflict(err error) bool {
	var e interface{ IndexConflict() bool }
	return errors.As(err, &e) && e.IndexConflict()
}

func TestInsert(t *testing.T, db Storage[person.Person]) {
	t.Helper()

	//
	t.Run("InsertOne", func(t *testing.T) {
		clean(t, db)

		val := fixtureAda()
		err := db.InsertOne(context.TODO(), &val)
		it.Ok(t).
			If(err).Should().Equal(nil).
			IfTrue(!val.ID.IsZero())

		got, err := db.FindOne(context.TODO(), person.ID.Eq(val.ID))
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(*got).Should().Equal(val)
	})

	//
	t.Run("OptionalZip", func(t *testing.T) {
		clean(t, db)

		val := fixtureTim()
		err := db.InsertOne(context.TODO(), &val)
		it.Ok(t).IfNil(err)

		got, err := db.FindOne(context.TODO(), person.ID.Eq(val.ID))
		it.Ok(t).
			If(err).Should().Equal(nil).
			IfTrue(got.Address.Zip == nil).
			If(*got).Should().Equal(val)
	})

	//
	t.Run("InsertOneDuplicate", func(t *testing.T) {
		clean(t, db)

		val := fixtureAda()
		err := db.InsertOne(context.TODO(), &val)
		it.Ok(t).IfNil(err)

		err = db.InsertOne(context.TODO(), &val)
		it.Ok(t).
			If(err).ShouldNot().Equal(nil).
			IfTrue(isDuplicateKey(err))
	})

	//
	t.Run("InsertMany", func(t *testing.T) {
		seq := seed(t, db)

		for _, x := range seq {
			it.Ok(t).IfTrue(!x.ID.IsZero())
		}

		n, err := db.CountDocuments(context.TODO(), nil)
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(n).Should().Equal(int64(3))
	})

	//
	t.Run("InsertManyDuplicate", func(t *testing.T) {
		seq := seed(t, db)

		next := []person.Person{
			person.New("Charles Babbage", 79, person.NewAddress("Dorset Street", "London", "W1U")),
			seq[1],
			person.New("Grace Hopper", 85, person.NewAddress("Wall Street", "New York", "10005")),
		}
		err := db.InsertMany(context.TODO(), next)
		it.Ok(t).
			If(err).ShouldNot().Equal(nil).
			IfTrue(isDuplicateKey(err)).
			IfTrue(!next[0].ID.IsZero()).
			IfTrue(next[2].ID.IsZero())

		n, err := db.CountDocuments(context.TODO(), nil)
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(n).Should().Equal(int64(4))
	})
}

func TestFind(t *testing.T, db Storage[person.Person]) {
	t.Helper()

	//
	t.Run("FindAll", func(t *testing.T) {
		seed(t, db)

		seq, err := db.Find(context.TODO(), person.Age.Gt(30), mdb.SortBy(person.Age.Asc()))
		val := collect(t, seq, err)
		it.Ok(t).
			If(len(val)).Should().Equal(2).
			If(val[0].Age).Should().Equal(45).
			If(val[1].Age).Should().Equal(61)
	})

	//
	t.Run("FindAllLimit", func(t *testing.T) {
		seed(t, db)

		seq, err := db.Find(context.TODO(), nil, mdb.SortBy(person.Age.Desc()), mdb.Skip(1), mdb.Limit(1))
		val := collect(t, seq, err)
		it.Ok(t).
			If(len(val)).Should().Equal(1).
			If(val[0].Age).Should().Equal(45)
	})

	//
	t.Run("FindAllEmpty", func(t *testing.T) {
		seed(t, db)

		seq, err := db.Find(context.TODO(), person.Age.Gt(100))
		val := collect(t, seq, err)
		it.Ok(t).If(len(val)).Should().Equal(0)
	})

	//
	t.Run("FindFirst", func(t *testing.T) {
		seq := seed(t, db)

		val, err := db.FindOne(context.TODO(), person.HomeCity.Eq("Wimborne"))
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(*val).Should().Equal(seq[2])
	})

	//
	t.Run("FindFirstNotFound", func(t *testing.T) {
		seed(t, db)

		val, err := db.FindOne(context.TODO(), person.Name.Eq("Grace Hopper"))
		it.Ok(t).
			If(err).Should().Equal(nil).
			IfTrue(val == nil)
	})

	//
	t.Run("FindByExpression", func(t *testing.T) {
		seed(t, db)

		seq, err := db.Find(context.TODO(),
			mdb.Or(person.HomeZip.IsNull(), mdb.And(person.Age.Ge(28), person.Age.Lt(30))),
			mdb.SortBy(person.Age.Asc()),
		)
		val := collect(t, seq, err)
		it.Ok(t).
			If(len(val)).Should().Equal(2).
			If(val[0].Name).Should().Equal("Alan Turing").
			If(val[1].Name).Should().Equal("Timothy Berners-Lee")
	})
}

func TestUpdate(t *testing.T, db Storage[person.Person]) {
	t.Helper()

	//
	t.Run("UpdateOne", func(t *testing.T) {
		seq := seed(t, db)

		n, err := db.UpdateOne(context.TODO(),
			person.ID.Eq(seq[1].ID),
			person.Age.Set(41), person.Name.Set("Alan M. Turing"),
		)
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(n).Should().Equal(int64(1))

		val, err := db.FindOne(context.TODO(), person.ID.Eq(seq[1].ID))
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(val.Age).Should().Equal(41).
			If(val.Name).Should().Equal("Alan M. Turing")
	})

	//
	t.Run("UpdateOneNoMatch", func(t *testing.T) {
		seed(t, db)

		n, err := db.UpdateOne(context.TODO(), person.Name.Eq("Grace Hopper"), person.Age.Inc(1))
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(n).Should().Equal(int64(0))
	})

	//
	t.Run("UpdateMany", func(t *testing.T) {
		seed(t, db)

		n, err := db.UpdateMany(context.TODO(), person.HomeZip.Exists(), person.HomeZip.Unset())
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(n).Should().Equal(int64(2))

		c, err := db.CountDocuments(context.TODO(), person.HomeZip.Exists())
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(c).Should().Equal(int64(0))
	})

	//
	t.Run("ReplaceOne", func(t *testing.T) {
		seq := seed(t, db)

		val := seq[0]
		val.Address = person.NewAddress("Dorset Street", "London", "")
		err := db.ReplaceOne(context.TODO(), person.ID.Eq(val.ID), &val)
		it.Ok(t).IfNil(err)

		got, err := db.FindOne(context.TODO(), person.ID.Eq(val.ID))
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(*got).Should().Equal(val)
	})
}

func TestDelete(t *testing.T, db Storage[person.Person]) {
	t.Helper()

	//
	t.Run("DeleteOne", func(t *testing.T) {
		seed(t, db)

		n, err := db.DeleteOne(context.TODO(), person.HomeCity.Eq("Wimborne"))
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(n).Should().Equal(int64(1))

		n, err = db.DeleteOne(context.TODO(), person.HomeCity.Eq("Wimborne"))
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(n).Should().Equal(int64(0))
	})

	//
	t.Run("DeleteMany", func(t *testing.T) {
		seed(t, db)

		n, err := db.DeleteMany(context.TODO(), person.Age.Lt(50))
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(n).Should().Equal(int64(2))

		seq, err := db.Find(context.TODO(), person.Age.Lt(50))
		val := collect(t, seq, err)
		it.Ok(t).If(len(val)).Should().Equal(0)
	})
}

func TestIndex(t *testing.T, db Storage[person.Person]) {
	t.Helper()

	//
	t.Run("CreateIndex", func(t *testing.T) {
		seed(t, db)

		name, err := db.CreateIndex(context.TODO(), person.Name.Asc(), mdb.Unique(true))
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(name).Should().Equal("name_1")

		// same definition is no-op
		name, err = db.CreateIndex(context.TODO(), person.Name.Asc(), mdb.Unique(true))
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(name).Should().Equal("name_1")

		val := fixtureAda()
		err = db.InsertOne(context.TODO(), &val)
		it.Ok(t).IfTrue(isDuplicateKey(err))
	})

	//
	t.Run("CreateIndexConflict", func(t *testing.T) {
		seed(t, db)

		_, err := db.CreateIndex(context.TODO(), person.Age.Desc(), mdb.IndexName("by_age"))
		it.Ok(t).IfNil(err)

		_, err = db.CreateIndex(context.TODO(), person.Age.Desc(), mdb.IndexName("age_desc"))
		it.Ok(t).
			If(err).ShouldNot().Equal(nil).
			IfTrue(isIndexConflict(err))
	})
}

func TestDocuments(t *testing.T, db Storage[mdb.Document]) {
	t.Helper()

	i := mdb.Key[mdb.Document, int]("i")

	seedN := func(t *testing.T) {
		t.Helper()
		clean(t, db)

		seq := make([]mdb.Document, 100)
		for x := range seq {
			seq[x] = mdb.Document{{Key: "i", Value: x}}
		}
		err := db.InsertMany(context.TODO(), seq)
		it.Ok(t).IfNil(err)
	}

	//
	t.Run("InsertOne", func(t *testing.T) {
		clean(t, db)

		doc := mdb.Document{
			{Key: "name", Value: "MongoDB"},
			{Key: "type", Value: "database"},
			{Key: "count", Value: 1},
			{Key: "info", Value: mdb.Document{{Key: "x", Value: 203}, {Key: "y", Value: 102}}},
		}
		err := db.InsertOne(context.TODO(), &doc)
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(doc[0].Key).Should().Equal("_id")

		x := mdb.Key[mdb.Document, int]("info.x")
		got, err := db.FindOne(context.TODO(), x.Eq(203))
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(len(*got)).Should().Equal(5).
			If((*got)[1].Value).Should().Equal("MongoDB")
	})

	//
	t.Run("FindAll", func(t *testing.T) {
		seedN(t)

		seq, err := db.Find(context.TODO(), mdb.And(i.Gt(50), i.Le(100)))
		val := collect(t, seq, err)
		it.Ok(t).If(len(val)).Should().Equal(49)
	})

	//
	t.Run("UpdateMany", func(t *testing.T) {
		seedN(t)

		n, err := db.UpdateMany(context.TODO(), i.Lt(100), i.Inc(100))
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(n).Should().Equal(int64(100))
	})

	//
	t.Run("DeleteMany", func(t *testing.T) {
		seedN(t)

		n, err := db.DeleteMany(context.TODO(), i.Ge(50))
		it.Ok(t).
			If(err).Should().Equal(nil).
			If(n).Should().Equal(int64(50))

		seq, err := db.Find(context.TODO(), i.Ge(50))
		val := collect(t, seq, err)
		it.Ok(t).If(len(val)).Should().Equal(0)
	})
}
