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
	"github.com/fogfish/docdb/person"
	"github.com/fogfish/docdb/service/mdb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var peopleCmd = &cobra.Command{
	Use:               "people",
	Short:             "Run the quick tour over Person records",
	PersistentPreRunE: bindFlags,
	RunE:              runPeople,
}

func init() {
	setupStorageFlags(peopleCmd, "Restaurant_ordering_system", "people")
}

// People is collection of person records
type People interface {
	docdb.Collection[person.Person]
	Drop(context.Context) error
}

func runPeople(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger(viper.GetString("log-level"))
	defer logger.Sync()

	client, err := open(ctx, logger)
	if err != nil {
		return err
	}
	defer client.Close(context.WithoutCancel(ctx))

	db := mdb.Collection[person.Person](
		client.Database(viper.GetString("database")),
		viper.GetString("collection"),
		person.Schema,
	)

	return tourPeople(ctx, cmd.OutOrStdout(), db)
}

func tourPeople(ctx context.Context, w io.Writer, db People) error {
	if err := db.Drop(ctx); err != nil {
		return err
	}

	ada := person.New("Ada Byron", 20, person.NewAddress("St James Square", "London", "W1"))
	if err := db.InsertOne(ctx, &ada); err != nil {
		return err
	}
	fmt.Fprintf(w, "inserted: %s\n", ada)

	seq := []person.Person{
		person.New("Charles Babbage", 45, person.NewAddress("5 Devonshire Street", "London", "W11")),
		person.New("Alan Turing", 28, person.NewAddress("Bletchley Hall", "Bletchley Park", "MK12")),
		person.New("Timothy Berners-Lee", 61, person.NewAddress("Colehill", "Wimborne", "")),
	}
	if err := db.InsertMany(ctx, seq); err != nil {
		return err
	}
	fmt.Fprintf(w, "inserted: %d people\n", len(seq))

	fmt.Fprintln(w, "all people:")
	found, err := db.Find(ctx, nil)
	if err := printAll(w, found, err); err != nil {
		return err
	}

	someone, err := db.FindOne(ctx, person.HomeCity.Eq("Wimborne"))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "living in Wimborne: %v\n", someone)

	fmt.Fprintln(w, "older than 30:")
	found, err = db.Find(ctx, person.Age.Gt(30), mdb.SortBy(person.Age.Asc()))
	if err := printAll(w, found, err); err != nil {
		return err
	}

	n, err := db.UpdateOne(ctx, person.Name.Eq("Ada Byron"),
		person.Age.Set(23),
		person.Name.Set("Ada Lovelace"),
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "updated: %d\n", n)

	n, err = db.UpdateMany(ctx, person.HomeZip.Exists(), person.HomeZip.Unset())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "zip unset: %d\n", n)

	replacement := person.New("Ada Lovelace", 32, person.NewAddress("St James Square", "London", "W1"))
	if err := db.ReplaceOne(ctx, person.Name.Eq("Ada Lovelace"), &replacement); err != nil {
		return err
	}
	fmt.Fprintf(w, "replaced: %s\n", replacement)

	n, err = db.DeleteOne(ctx, person.HomeCity.Eq("Wimborne"))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "deleted: %d\n", n)

	n, err = db.DeleteMany(ctx, person.HomeCity.Eq("London"))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "deleted: %d\n", n)

	return nil
}

// printAll consumes sequence, one element per line
func printAll[T any](w io.Writer, seq docdb.Seq[T], err error) error {
	if err != nil {
		return err
	}

	return seq.FMap(func(x T) error {
		_, err := fmt.Fprintln(w, x)
		return err
	})
}
