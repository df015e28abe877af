//
// Copyright (C) 2024 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/docdb
//

package mdb

import (
	"testing"

	"github.com/fogfish/docdb"
	"github.com/fogfish/it/v2"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	dslI    = Key[Document, int]("i")
	dslCity = Key[Document, string]("info.city")
)

func TestFilterCompare(t *testing.T) {
	for expr, expect := range map[*Expr[tPerson]]bson.D{
		ptr(tName.Eq("Alan")):  {{Key: "name", Value: bson.D{{Key: "$eq", Value: "Alan"}}}},
		ptr(tName.Ne("Alan")):  {{Key: "name", Value: bson.D{{Key: "$ne", Value: "Alan"}}}},
		ptr(tAge.Gt(30)):       {{Key: "age", Value: bson.D{{Key: "$gt", Value: 30}}}},
		ptr(tAge.Ge(30)):       {{Key: "age", Value: bson.D{{Key: "$gte", Value: 30}}}},
		ptr(tAge.Lt(30)):       {{Key: "age", Value: bson.D{{Key: "$lt", Value: 30}}}},
		ptr(tAge.Le(30)):       {{Key: "age", Value: bson.D{{Key: "$lte", Value: 30}}}},
		ptr(tAge.In(28, 45)):   {{Key: "age", Value: bson.D{{Key: "$in", Value: bson.A{28, 45}}}}},
		ptr(tName.Exists()):    {{Key: "name", Value: bson.D{{Key: "$exists", Value: true}}}},
		ptr(tName.NotExists()): {{Key: "name", Value: bson.D{{Key: "$exists", Value: false}}}},
		ptr(tHomeZip.IsNull()): {{Key: "address.zip", Value: bson.D{{Key: "$eq", Value: nil}}}},
	} {
		doc, err := expr.BSON()
		it.Then(t).Should(
			it.Nil(err),
			it.Equiv(doc, expect),
		)
	}
}

func TestFilterPath(t *testing.T) {
	doc, err := tHomeStreet.Eq("Colehill").BSON()
	it.Then(t).Should(
		it.Nil(err),
		it.Equal(tHomeStreet.Key(), "address.street"),
		it.Equiv(doc, bson.D{{Key: "address.street", Value: bson.D{{Key: "$eq", Value: "Colehill"}}}}),
	)

	doc, err = dslCity.Eq("Wimborne").BSON()
	it.Then(t).Should(
		it.Nil(err),
		it.Equiv(doc, bson.D{{Key: "info.city", Value: bson.D{{Key: "$eq", Value: "Wimborne"}}}}),
	)
}

func TestFilterEmbedded(t *testing.T) {
	doc, err := tHome.Eq(tAddress{Street: "Colehill"}).BSON()
	it.Then(t).Should(
		it.Nil(err),
		it.Equiv(doc, bson.D{{Key: "address", Value: bson.D{{Key: "$eq", Value: bson.D{{Key: "street", Value: "Colehill"}}}}}}),
	)
}

func TestFilterNot(t *testing.T) {
	doc, err := Not(tHomeZip.IsNull()).BSON()
	it.Then(t).Should(
		it.Nil(err),
		it.Equiv(doc, bson.D{{Key: "address.zip", Value: bson.D{{Key: "$not", Value: bson.D{{Key: "$eq", Value: nil}}}}}}),
	)

	doc, err = Not(And(dslI.Gt(50), dslI.Le(100))).BSON()
	it.Then(t).Should(
		it.Nil(err),
		it.Equiv(doc, bson.D{{Key: "$nor", Value: bson.A{
			bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "i", Value: bson.D{{Key: "$gt", Value: 50}}}},
				bson.D{{Key: "i", Value: bson.D{{Key: "$lte", Value: 100}}}},
			}}},
		}}}),
	)
}

func TestFilterJoin(t *testing.T) {
	doc, err := And(dslI.Gt(50), dslI.Le(100)).BSON()
	it.Then(t).Should(
		it.Nil(err),
		it.Equiv(doc, bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "i", Value: bson.D{{Key: "$gt", Value: 50}}}},
			bson.D{{Key: "i", Value: bson.D{{Key: "$lte", Value: 100}}}},
		}}}),
	)

	doc, err = Or(dslI.Eq(1), dslI.Eq(2)).BSON()
	it.Then(t).Should(
		it.Nil(err),
		it.Equiv(doc, bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "i", Value: bson.D{{Key: "$eq", Value: 1}}}},
			bson.D{{Key: "i", Value: bson.D{{Key: "$eq", Value: 2}}}},
		}}}),
	)

	doc, err = And(dslI.Eq(1)).BSON()
	it.Then(t).Should(
		it.Nil(err),
		it.Equiv(doc, bson.D{{Key: "i", Value: bson.D{{Key: "$eq", Value: 1}}}}),
	)

	doc, err = And[Document]().BSON()
	it.Then(t).Should(
		it.Nil(err),
		it.Equiv(doc, bson.D{}),
	)
}

func TestFilterOf(t *testing.T) {
	doc, err := filterOf[tPerson](nil)
	it.Then(t).Should(
		it.Nil(err),
		it.Equiv(doc, bson.D{}),
	)

	doc, err = filterOf[tPerson](All[tPerson]())
	it.Then(t).Should(
		it.Nil(err),
		it.Equiv(doc, bson.D{}),
	)

	doc, err = filterOf[tPerson](Expr[tPerson]{})
	it.Then(t).Should(
		it.Nil(err),
		it.Equiv(doc, bson.D{}),
	)

	_, err = filterOf[tPerson](tFilter{})
	it.Then(t).Should(it.True(err != nil))
}

type tFilter struct{}

func (tFilter) Filter(tPerson) {}

func TestUpdateOf(t *testing.T) {
	t.Run("Grouped", func(t *testing.T) {
		doc, err := updateOf([]docdb.Update[tPerson]{
			tAge.Set(23),
			tName.Set("Alan"),
			tHomeZip.Unset(),
			tAge.Max(30),
		})
		it.Then(t).Should(
			it.Nil(err),
			it.Equiv(doc, bson.D{
				{Key: "$set", Value: bson.D{{Key: "age", Value: 23}, {Key: "name", Value: "Alan"}}},
				{Key: "$unset", Value: bson.D{{Key: "address.zip", Value: ""}}},
				{Key: "$max", Value: bson.D{{Key: "age", Value: 30}}},
			}),
		)
	})

	t.Run("Increment", func(t *testing.T) {
		doc, err := updateOf([]docdb.Update[Document]{dslI.Inc(100)})
		it.Then(t).Should(
			it.Nil(err),
			it.Equiv(doc, bson.D{{Key: "$inc", Value: bson.D{{Key: "i", Value: 100}}}}),
		)

		doc, err = updateOf([]docdb.Update[Document]{dslI.Min(10)})
		it.Then(t).Should(
			it.Nil(err),
			it.Equiv(doc, bson.D{{Key: "$min", Value: bson.D{{Key: "i", Value: 10}}}}),
		)
	})

	t.Run("Embedded", func(t *testing.T) {
		doc, err := updateOf([]docdb.Update[tPerson]{
			tHome.Set(tAddress{Street: "St James Square", Zip: ptr("W1")}),
		})
		it.Then(t).Should(
			it.Nil(err),
			it.Equiv(doc, bson.D{{Key: "$set", Value: bson.D{
				{Key: "address", Value: bson.D{{Key: "street", Value: "St James Square"}, {Key: "zip", Value: "W1"}}},
			}}}),
		)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := updateOf[tPerson](nil)
		it.Then(t).Should(it.True(err != nil))
	})

	t.Run("Unsupported", func(t *testing.T) {
		_, err := updateOf([]docdb.Update[tPerson]{tUpdate{}})
		it.Then(t).Should(it.True(err != nil))
	})
}

type tUpdate struct{}

func (tUpdate) Update(tPerson) {}

func TestIndexOf(t *testing.T) {
	model, err := indexOf([]docdb.IndexOpt{dslI.Asc(), dslCity.Desc(), Unique(true), IndexName("i_city")})
	it.Then(t).Should(
		it.Nil(err),
		it.Equiv(model.Keys, any(bson.D{{Key: "i", Value: 1}, {Key: "info.city", Value: -1}})),
		it.Equal(*model.Options.Unique, true),
		it.Equal(*model.Options.Name, "i_city"),
	)

	_, err = indexOf([]docdb.IndexOpt{Unique(true)})
	it.Then(t).Should(it.True(err != nil))
}

func TestFindOptions(t *testing.T) {
	req := findOptions([]docdb.FindOpt{Limit(10), Skip(5), SortBy(tAge.Desc(), tName.Asc())})
	it.Then(t).Should(
		it.Equal(*req.Limit, int64(10)),
		it.Equal(*req.Skip, int64(5)),
		it.Equiv(req.Sort, any(bson.D{{Key: "age", Value: -1}, {Key: "name", Value: 1}})),
	)

	one := findOneOptions([]docdb.FindOpt{Limit(10), Skip(5)})
	it.Then(t).Should(
		it.Equal(*one.Skip, int64(5)),
	)
}
