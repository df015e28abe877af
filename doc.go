//
// Copyright (C) 2024 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/docdb
//

/*
Package docdb implements a thin, type-safe CRUD facade over document
databases (MongoDB):

↣ insert one or many records, the storage assigns identity

↣ find the first record or a lazy sequence of matching records

↣ update, replace and delete records matching a filter

↣ create indexes

# Inspiration

The library encourages developers to use Golang struct to define domain
models. Structs are mapped to documents through an explicit mapping table,
declared once per type, instead of runtime reflection over field tags.
The same declaration gives a type-safe filter and update DSL.

	type Person struct {
	  ID   primitive.ObjectID
	  Name string
	  Age  int
	}

	var (
	  ID   = mdb.ID(func(p *Person) *primitive.ObjectID { return &p.ID })
	  Name = mdb.Attr("name", func(p *Person) *string { return &p.Name })
	  Age  = mdb.Attr("age", func(p *Person) *int { return &p.Age })

	  Schema = mdb.Must(mdb.NewSchema[Person](ID, Name, Age))
	)

# Getting started

Open the session with the database server, bind the collection and
release the session on exit.

	client, err := mdb.Open(ctx, mdb.WithHost("127.0.0.1"), mdb.WithPort(27017))
	if err != nil { ... }
	defer client.Close(ctx)

	db := mdb.Collection[Person](client.Database("example"), "people", Schema)

Insert the record, its identity is assigned by the storage.

	val := Person{Name: "Verner Pleishner", Age: 64}
	err := db.InsertOne(ctx, &val)

Lookup records using the filter DSL.

	val, err := db.FindOne(ctx, Name.Eq("Verner Pleishner"))
	if val == nil { ... not found ...}

	seq, err := db.Find(ctx, Age.Gt(30))
	if err != nil { ... }
	defer seq.Close()

	for seq.Next() {
	  seq.Value()
	}

Apply partial updates

	n, err := db.UpdateOne(ctx, Name.Eq("Verner Pleishner"), Age.Inc(1))

# Errors

The library does not retry. Errors are classified with behaviours:

	var e interface{ DuplicateKey() bool }
	if errors.As(err, &e) { ... }

ConnectionFailed() string, MappingFailed() string, DuplicateKey() bool,
IndexConflict() bool and StreamFailed() bool are supported.
*/
package docdb
