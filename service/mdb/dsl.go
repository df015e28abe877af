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
	"strings"

	"github.com/fogfish/docdb"
	"go.mongodb.org/mongo-driver/bson"
)

//-----------------------------------------------------------------------------
//
// Filter expression
//
//-----------------------------------------------------------------------------

// Expr is filter expression over documents of type T
type Expr[T any] struct {
	doc bson.D
	err error
}

func (Expr[T]) Filter(T) {}

// BSON returns the filter document
func (expr Expr[T]) BSON() (bson.D, error) {
	if expr.doc == nil && expr.err == nil {
		return bson.D{}, nil
	}
	return expr.doc, expr.err
}

// All matches every document
func All[T any]() Expr[T] { return Expr[T]{doc: bson.D{}} }

// Eq matches attribute equal to value
//
//	name.Eq(x) ⟼ { name: { $eq: x } }
func (attr Attribute[T, A]) Eq(val A) Expr[T] { return attr.compare("$eq", val) }

// Ne matches attribute not equal to value
//
//	name.Ne(x) ⟼ { name: { $ne: x } }
func (attr Attribute[T, A]) Ne(val A) Expr[T] { return attr.compare("$ne", val) }

// Gt matches attribute greater than value
//
//	name.Gt(x) ⟼ { name: { $gt: x } }
func (attr Attribute[T, A]) Gt(val A) Expr[T] { return attr.compare("$gt", val) }

// Ge matches attribute greater or equal to value
//
//	name.Ge(x) ⟼ { name: { $gte: x } }
func (attr Attribute[T, A]) Ge(val A) Expr[T] { return attr.compare("$gte", val) }

// Lt matches attribute less than value
//
//	name.Lt(x) ⟼ { name: { $lt: x } }
func (attr Attribute[T, A]) Lt(val A) Expr[T] { return attr.compare("$lt", val) }

// Le matches attribute less or equal to value
//
//	name.Le(x) ⟼ { name: { $lte: x } }
func (attr Attribute[T, A]) Le(val A) Expr[T] { return attr.compare("$lte", val) }

func (attr Attribute[T, A]) compare(op string, val A) Expr[T] {
	v, err := attr.encode(val)
	if err != nil {
		return Expr[T]{err: err}
	}

	return Expr[T]{doc: bson.D{{Key: attr.key, Value: bson.D{{Key: op, Value: v}}}}}
}

// In matches attribute equal to any of values
//
//	name.In(x, y) ⟼ { name: { $in: [x, y] } }
func (attr Attribute[T, A]) In(vals ...A) Expr[T] {
	seq := make(bson.A, 0, len(vals))
	for _, val := range vals {
		v, err := attr.encode(val)
		if err != nil {
			return Expr[T]{err: err}
		}
		seq = append(seq, v)
	}

	return Expr[T]{doc: bson.D{{Key: attr.key, Value: bson.D{{Key: "$in", Value: seq}}}}}
}

// Exists matches documents that contain the attribute
//
//	name.Exists() ⟼ { name: { $exists: true } }
func (attr Attribute[T, A]) Exists() Expr[T] {
	return Expr[T]{doc: bson.D{{Key: attr.key, Value: bson.D{{Key: "$exists", Value: true}}}}}
}

// NotExists matches documents that do not contain the attribute
//
//	name.NotExists() ⟼ { name: { $exists: false } }
func (attr Attribute[T, A]) NotExists() Expr[T] {
	return Expr[T]{doc: bson.D{{Key: attr.key, Value: bson.D{{Key: "$exists", Value: false}}}}}
}

// IsNull matches documents where attribute is null or absent
//
//	name.IsNull() ⟼ { name: { $eq: null } }
func (attr Attribute[T, A]) IsNull() Expr[T] {
	return Expr[T]{doc: bson.D{{Key: attr.key, Value: bson.D{{Key: "$eq", Value: nil}}}}}
}

// Not negates expression
//
//	Not(name.Eq(x)) ⟼ { name: { $not: { $eq: x } } }
//	Not(And(a, b))  ⟼ { $nor: [ { $and: [a, b] } ] }
func Not[T any](expr Expr[T]) Expr[T] {
	if expr.err != nil {
		return expr
	}

	if len(expr.doc) == 1 && !strings.HasPrefix(expr.doc[0].Key, "$") {
		if ops, ok := expr.doc[0].Value.(bson.D); ok && isOperator(ops) {
			return Expr[T]{doc: bson.D{{Key: expr.doc[0].Key, Value: bson.D{{Key: "$not", Value: ops}}}}}
		}
	}

	return Expr[T]{doc: bson.D{{Key: "$nor", Value: bson.A{expr.doc}}}}
}

// And is logical conjunction of expressions
//
//	And(a, b) ⟼ { $and: [a, b] }
func And[T any](exprs ...Expr[T]) Expr[T] { return join("$and", exprs) }

// Or is logical disjunction of expressions
//
//	Or(a, b) ⟼ { $or: [a, b] }
func Or[T any](exprs ...Expr[T]) Expr[T] { return join("$or", exprs) }

func join[T any](op string, exprs []Expr[T]) Expr[T] {
	switch len(exprs) {
	case 0:
		return All[T]()
	case 1:
		return exprs[0]
	}

	seq := make(bson.A, 0, len(exprs))
	for _, expr := range exprs {
		if expr.err != nil {
			return expr
		}
		seq = append(seq, expr.doc)
	}

	return Expr[T]{doc: bson.D{{Key: op, Value: seq}}}
}

func isOperator(doc bson.D) bool {
	if len(doc) == 0 {
		return false
	}

	for _, e := range doc {
		if !strings.HasPrefix(e.Key, "$") {
			return false
		}
	}
	return true
}

// lifts filter to bson document, nil filter matches every document
func filterOf[T any](filter docdb.Filter[T]) (bson.D, error) {
	switch expr := filter.(type) {
	case nil:
		return bson.D{}, nil
	case Expr[T]:
		return expr.BSON()
	case *Expr[T]:
		return expr.BSON()
	default:
		return nil, errInvalidFilter.New(fmt.Errorf("unsupported filter %T", filter))
	}
}

//-----------------------------------------------------------------------------
//
// Update expression
//
//-----------------------------------------------------------------------------

// Mutation of single attribute of documents of type T
type Mutation[T any] struct {
	op  string
	key string
	val any
	err error
}

func (Mutation[T]) Update(T) {}

// Set attribute
//
//	name.Set(x) ⟼ { $set: { name: x } }
func (attr Attribute[T, A]) Set(val A) Mutation[T] { return attr.mutate("$set", val) }

// Inc increments attribute
//
//	name.Inc(x) ⟼ { $inc: { name: x } }
func (attr Attribute[T, A]) Inc(val A) Mutation[T] { return attr.mutate("$inc", val) }

// Min updates attribute if value is less than current one
//
//	name.Min(x) ⟼ { $min: { name: x } }
func (attr Attribute[T, A]) Min(val A) Mutation[T] { return attr.mutate("$min", val) }

// Max updates attribute if value is greater than current one
//
//	name.Max(x) ⟼ { $max: { name: x } }
func (attr Attribute[T, A]) Max(val A) Mutation[T] { return attr.mutate("$max", val) }

// Unset removes attribute
//
//	name.Unset() ⟼ { $unset: { name: "" } }
func (attr Attribute[T, A]) Unset() Mutation[T] {
	return Mutation[T]{op: "$unset", key: attr.key, val: ""}
}

func (attr Attribute[T, A]) mutate(op string, val A) Mutation[T] {
	v, err := attr.encode(val)
	if err != nil {
		return Mutation[T]{err: err}
	}

	return Mutation[T]{op: op, key: attr.key, val: v}
}

// lifts mutations to update document, mutations are grouped per operator
func updateOf[T any](updates []docdb.Update[T]) (bson.D, error) {
	if len(updates) == 0 {
		return nil, errInvalidUpdate.New(fmt.Errorf("no mutations"))
	}

	doc := bson.D{}
	at := map[string]int{}
	for _, update := range updates {
		var m Mutation[T]
		switch v := update.(type) {
		case Mutation[T]:
			m = v
		case *Mutation[T]:
			m = *v
		default:
			return nil, errInvalidUpdate.New(fmt.Errorf("unsupported mutation %T", update))
		}

		if m.err != nil {
			return nil, m.err
		}

		i, has := at[m.op]
		if !has {
			i = len(doc)
			at[m.op] = i
			doc = append(doc, bson.E{Key: m.op, Value: bson.D{}})
		}
		doc[i].Value = append(doc[i].Value.(bson.D), bson.E{Key: m.key, Value: m.val})
	}

	return doc, nil
}

//-----------------------------------------------------------------------------
//
// Find and Index options
//
//-----------------------------------------------------------------------------

// IndexKey is attribute with direction (ascending or descending), it
// defines index key and sort order.
type IndexKey struct {
	key string
	dir int
}

func (IndexKey) IndexOpt() {}

// Asc is ascending order of attribute
func (attr Attribute[T, A]) Asc() IndexKey { return IndexKey{key: attr.key, dir: 1} }

// Desc is descending order of attribute
func (attr Attribute[T, A]) Desc() IndexKey { return IndexKey{key: attr.key, dir: -1} }

func keysOf(keys []IndexKey) bson.D {
	doc := make(bson.D, 0, len(keys))
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k.key, Value: k.dir})
	}
	return doc
}

// Limit number of documents returned by lookup
type Limit int64

func (Limit) FindOpt() {}

// Skip number of documents before returning the result
type Skip int64

func (Skip) FindOpt() {}

// Sort order of documents returned by lookup
type Sort []IndexKey

func (Sort) FindOpt() {}

// SortBy attributes
//
//	mdb.SortBy(Age.Desc(), Name.Asc())
func SortBy(keys ...IndexKey) Sort { return Sort(keys) }

// Unique index rejects duplicate values of index key
type Unique bool

func (Unique) IndexOpt() {}

// IndexName overrides the name of index generated by server
type IndexName string

func (IndexName) IndexOpt() {}

var (
	_ docdb.FindOpt  = Limit(0)
	_ docdb.FindOpt  = Skip(0)
	_ docdb.FindOpt  = Sort{}
	_ docdb.IndexOpt = IndexKey{}
	_ docdb.IndexOpt = Unique(false)
	_ docdb.IndexOpt = IndexName("")
)
