//
// Copyright (C) 2024 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/docdb
//

package mdb

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Codec converts records of type T into documents and back.
type Codec[T any] interface {
	// Encode record into document
	Encode(*T) (bson.D, error)
	// Decode document into record
	Decode(bson.Raw, *T) error
	// Identify assigns storage identity to the record
	Identify(*T, any) error
}

// Document is schema-less ordered mapping from key to value,
// value is either primitive, nested Document or bson.A.
type Document = bson.D

// DocumentCodec implements Codec for schema-less documents
type DocumentCodec struct{}

var _ Codec[Document] = DocumentCodec{}

func (DocumentCodec) Encode(doc *Document) (bson.D, error) {
	if doc == nil || *doc == nil {
		return bson.D{}, nil
	}

	return *doc, nil
}

func (DocumentCodec) Decode(raw bson.Raw, doc *Document) error {
	var val bson.D
	if err := bson.Unmarshal(raw, &val); err != nil {
		return errMapping("document", err)
	}

	*doc = val
	return nil
}

// Identify prepends _id to document unless it is defined
func (DocumentCodec) Identify(doc *Document, id any) error {
	for _, e := range *doc {
		if e.Key == keyID {
			return nil
		}
	}

	*doc = append(bson.D{{Key: keyID, Value: id}}, *doc...)
	return nil
}
