//
// Copyright (C) 2024 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/docdb
//

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fogfish/docdb"
	"github.com/fogfish/docdb/service/mdb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/bson"
)

var documentsCmd = &cobra.Command{
	Use:               "documents",
	Short:             "Run the quick tour over schema-less documents",
	PersistentPreRunE: bindFlags,
	RunE:              runDocuments,
}

func init() {
	setupStorageFlags(documentsCmd, "test-xh", "customer")
}

// Documents is collection of schema-less documents
type Documents interface {
	docdb.Collection[mdb.Document]
	Drop(context.Context) error
}

// attribute of the tour documents
var i = mdb.Key[mdb.Document, int]("i")

func runDocuments(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger(viper.GetString("log-level"))
	defer logger.Sync()

	client, err := open(ctx, logger)
	if err != nil {
		return err
	}
	defer client.Close(context.WithoutCancel(ctx))

	db := mdb.Collection[mdb.Document](
		client.Database(viper.GetString("database")),
		viper.GetString("collection"),
		mdb.DocumentCodec{},
	)

	return tourDocuments(ctx, cmd.OutOrStdout(), db)
}

func tourDocuments(ctx context.Context, w io.Writer, db Documents) error {
	if err := db.Drop(ctx); err != nil {
		return err
	}

	doc := mdb.Document{
		{Key: "name", Value: "MongoDB"},
		{Key: "type", Value: "database"},
		{Key: "count", Value: 1},
		{Key: "versions", Value: bson.A{"v3.2", "v3.0", "v2.6"}},
		{Key: "info", Value: mdb.Document{{Key: "x", Value: 203}, {Key: "y", Value: 102}}},
	}
	if err := db.InsertOne(ctx, &doc); err != nil {
		return err
	}
	fmt.Fprintf(w, "inserted: %s\n", extJSON(doc))

	seq := make([]mdb.Document, 100)
	for x := range seq {
		seq[x] = mdb.Document{{Key: "i", Value: x}}
	}
	if err := db.InsertMany(ctx, seq); err != nil {
		return err
	}

	n, err := db.CountDocuments(ctx, nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "total # of documents: %d\n", n)

	first, err := db.FindOne(ctx, nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "first: %s\n", extJSONOf(first))

	fmt.Fprintln(w, "all documents:")
	found, err := db.Find(ctx, nil)
	if err := printDocuments(w, found, err); err != nil {
		return err
	}

	one, err := db.FindOne(ctx, i.Eq(71))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "i == 71: %s\n", extJSONOf(one))

	fmt.Fprintln(w, "i > 50:")
	found, err = db.Find(ctx, i.Gt(50))
	if err := printDocuments(w, found, err); err != nil {
		return err
	}

	fmt.Fprintln(w, "50 < i <= 100:")
	found, err = db.Find(ctx, mdb.And(i.Gt(50), i.Le(100)))
	if err := printDocuments(w, found, err); err != nil {
		return err
	}

	last, err := db.FindOne(ctx, i.Exists(), mdb.SortBy(i.Desc()))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "max i: %s\n", extJSONOf(last))

	n, err = db.UpdateOne(ctx, i.Eq(10), i.Set(110))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "updated: %d\n", n)

	n, err = db.UpdateMany(ctx, i.Lt(100), i.Inc(100))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "updated: %d\n", n)

	n, err = db.DeleteOne(ctx, i.Eq(110))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "deleted: %d\n", n)

	n, err = db.DeleteMany(ctx, i.Ge(100))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "deleted: %d\n", n)

	name, err := db.CreateIndex(ctx, i.Asc())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "index: %s\n", name)

	return nil
}

func printDocuments(w io.Writer, seq docdb.Seq[mdb.Document], err error) error {
	if err != nil {
		return err
	}

	return seq.FMap(func(doc mdb.Document) error {
		_, err := fmt.Fprintln(w, extJSON(doc))
		return err
	})
}

// canonical form of document is relaxed extended JSON
func extJSON(doc mdb.Document) string {
	b, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return fmt.Sprint(doc)
	}
	return string(b)
}

func extJSONOf(doc *mdb.Document) string {
	if doc == nil {
		return "null"
	}
	return extJSON(*doc)
}
