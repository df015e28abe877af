//
// Copyright (C) 2024 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/docdb
//

package mdb

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/fogfish/golem/hseq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errMissingField = errors.New("required field is missing")

// Attribute of type T, defined by the document key. The attribute is
// either a mapping of struct field into document (see Attr, Optional,
// Embed, ID) or a plain key of document (see Key and Path). Attributes
// builds filter and update expressions.
type Attribute[T, A any] struct {
	key   string
	field field[T]
	value func(A) (any, error)
}

// Key of attribute at document
func (attr Attribute[T, A]) Key() string { return attr.key }

func (attr Attribute[T, A]) mapping() field[T] { return attr.field }

// encodes value of attribute into document value
func (attr Attribute[T, A]) encode(val A) (any, error) {
	if attr.value == nil {
		return val, nil
	}

	v, err := attr.value(val)
	if err != nil {
		return nil, errMappingAt(attr.key, err)
	}
	return v, nil
}

// Mapping is an entry of the schema mapping table
type Mapping[T any] interface {
	Key() string
	mapping() field[T]
}

// field of the mapping table, it is bound to struct field via lens
type field[T any] interface {
	key() string
	offset() uintptr
	encode(*T, *bson.D) error
	decode(*T, bson.Raw) error
}

// Attr declares required field of type T, the document key must exist.
//
//	Name = mdb.Attr("name", func(p *Person) *string { return &p.Name })
func Attr[T, A any](key string, lens func(*T) *A) Attribute[T, A] {
	return Attribute[T, A]{
		key:   key,
		field: &attrField[T, A]{k: key, lens: lens},
	}
}

type attrField[T, A any] struct {
	k    string
	lens func(*T) *A
}

func (f *attrField[T, A]) key() string     { return f.k }
func (f *attrField[T, A]) offset() uintptr { return offsetOf(f.lens) }

func (f *attrField[T, A]) encode(t *T, doc *bson.D) error {
	*doc = append(*doc, bson.E{Key: f.k, Value: *f.lens(t)})
	return nil
}

func (f *attrField[T, A]) decode(t *T, raw bson.Raw) error {
	val := raw.Lookup(f.k)
	if isAbsent(val) {
		return errMapping(f.k, errMissingField)
	}

	if err := val.Unmarshal(f.lens(t)); err != nil {
		return errMapping(f.k, err)
	}

	return nil
}

// Optional declares nullable field of type T. Absent document key is
// decoded as nil, nil is never written into the document.
//
//	Zip = mdb.Optional("zip", func(a *Address) **string { return &a.Zip })
func Optional[T, A any](key string, lens func(*T) **A) Attribute[T, A] {
	return Attribute[T, A]{
		key:   key,
		field: &optionalField[T, A]{k: key, lens: lens},
	}
}

type optionalField[T, A any] struct {
	k    string
	lens func(*T) **A
}

func (f *optionalField[T, A]) key() string     { return f.k }
func (f *optionalField[T, A]) offset() uintptr { return offsetOf(f.lens) }

func (f *optionalField[T, A]) encode(t *T, doc *bson.D) error {
	if v := *f.lens(t); v != nil {
		*doc = append(*doc, bson.E{Key: f.k, Value: *v})
	}
	return nil
}

func (f *optionalField[T, A]) decode(t *T, raw bson.Raw) error {
	val := raw.Lookup(f.k)
	if isAbsent(val) {
		*f.lens(t) = nil
		return nil
	}

	v := new(A)
	if err := val.Unmarshal(v); err != nil {
		return errMapping(f.k, err)
	}

	*f.lens(t) = v
	return nil
}

// Embed declares nested record, it is mapped through own schema.
//
//	Address = mdb.Embed("address", func(p *Person) *Address { return &p.Address }, AddressSchema)
func Embed[T, A any](key string, lens func(*T) *A, schema *Schema[A]) Attribute[T, A] {
	return Attribute[T, A]{
		key:   key,
		field: &embedField[T, A]{k: key, lens: lens, schema: schema},
		value: func(val A) (any, error) { return schema.Encode(&val) },
	}
}

type embedField[T, A any] struct {
	k      string
	lens   func(*T) *A
	schema *Schema[A]
}

func (f *embedField[T, A]) key() string     { return f.k }
func (f *embedField[T, A]) offset() uintptr { return offsetOf(f.lens) }

func (f *embedField[T, A]) encode(t *T, doc *bson.D) error {
	sub, err := f.schema.Encode(f.lens(t))
	if err != nil {
		return errMappingAt(f.k, err)
	}

	*doc = append(*doc, bson.E{Key: f.k, Value: sub})
	return nil
}

func (f *embedField[T, A]) decode(t *T, raw bson.Raw) error {
	val := raw.Lookup(f.k)
	if isAbsent(val) {
		return errMapping(f.k, errMissingField)
	}

	sub, ok := val.DocumentOK()
	if !ok {
		return errMapping(f.k, fmt.Errorf("cannot decode %s into record", val.Type))
	}

	if err := f.schema.Decode(sub, f.lens(t)); err != nil {
		return errMappingAt(f.k, err)
	}

	return nil
}

// ID declares identity of record. The identity is assigned by storage when
// the record is inserted, zero identity is not written into the document.
//
//	ID = mdb.ID(func(p *Person) *primitive.ObjectID { return &p.ID })
func ID[T any](lens func(*T) *primitive.ObjectID) Attribute[T, primitive.ObjectID] {
	return Attribute[T, primitive.ObjectID]{
		key:   keyID,
		field: &idField[T]{lens: lens},
	}
}

const keyID = "_id"

type idField[T any] struct {
	lens func(*T) *primitive.ObjectID
}

func (f *idField[T]) key() string     { return keyID }
func (f *idField[T]) offset() uintptr { return offsetOf(f.lens) }

func (f *idField[T]) encode(t *T, doc *bson.D) error {
	if id := *f.lens(t); !id.IsZero() {
		*doc = append(*doc, bson.E{Key: keyID, Value: id})
	}
	return nil
}

func (f *idField[T]) decode(t *T, raw bson.Raw) error {
	val := raw.Lookup(keyID)
	if isAbsent(val) {
		return nil
	}

	id, ok := val.ObjectIDOK()
	if !ok {
		return errMapping(keyID, fmt.Errorf("cannot decode %s into identity", val.Type))
	}

	*f.lens(t) = id
	return nil
}

// identity is assigned once
func (f *idField[T]) identify(t *T, id any) error {
	if !f.lens(t).IsZero() {
		return nil
	}

	oid, ok := id.(primitive.ObjectID)
	if !ok {
		return errMapping(keyID, fmt.Errorf("cannot assign %T as identity", id))
	}

	*f.lens(t) = oid
	return nil
}

// Key declares attribute of schema-less document
//
//	I = mdb.Key[mdb.Document, int]("i")
func Key[T, A any](key string) Attribute[T, A] {
	return Attribute[T, A]{key: key}
}

// Path composes attribute of nested record, producing dotted key
//
//	City = mdb.Path(Address, AddressCity) ⟼ "address.city"
func Path[T, B, A any](outer Attribute[T, B], inner Attribute[B, A]) Attribute[T, A] {
	return Attribute[T, A]{
		key:   outer.key + "." + inner.key,
		value: inner.value,
	}
}

//-----------------------------------------------------------------------------
//
// Schema
//
//-----------------------------------------------------------------------------

// Schema is the declared mapping table of type T to document
type Schema[T any] struct {
	fields []field[T]
	id     *idField[T]
}

var _ Codec[struct{}] = (*Schema[struct{}])(nil)

// NewSchema builds mapping table from attributes. Every exported field of
// the struct T has to be declared.
func NewSchema[T any](attrs ...Mapping[T]) (*Schema[T], error) {
	var t T
	name := fmt.Sprintf("%T", t)

	schema := &Schema[T]{fields: make([]field[T], 0, len(attrs))}
	keys := map[string]struct{}{}
	offsets := map[uintptr]struct{}{}

	for _, attr := range attrs {
		f := attr.mapping()
		if f == nil {
			return nil, errInvalidSchema.New(fmt.Errorf("attribute %s is not mappable", attr.Key()), name)
		}

		if _, has := keys[f.key()]; has {
			return nil, errInvalidSchema.New(fmt.Errorf("duplicate key %s", f.key()), name)
		}
		keys[f.key()] = struct{}{}
		offsets[f.offset()] = struct{}{}

		if id, ok := f.(*idField[T]); ok {
			schema.id = id
		}
		schema.fields = append(schema.fields, f)
	}

	for _, x := range hseq.New[T]() {
		if !x.IsExported() || x.Tag.Get("bson") == "-" {
			continue
		}

		if _, has := offsets[x.Offset]; !has {
			return nil, errInvalidSchema.New(fmt.Errorf("field %s is not mapped", x.Name), name)
		}
	}

	return schema, nil
}

// Encode record into document
func (schema *Schema[T]) Encode(t *T) (bson.D, error) {
	doc := make(bson.D, 0, len(schema.fields))
	for _, f := range schema.fields {
		if err := f.encode(t, &doc); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// Decode document into record
func (schema *Schema[T]) Decode(raw bson.Raw, t *T) error {
	for _, f := range schema.fields {
		if err := f.decode(t, raw); err != nil {
			return err
		}
	}

	return nil
}

// Identify assigns identity to record if it has none
func (schema *Schema[T]) Identify(t *T, id any) error {
	if schema.id == nil {
		return nil
	}

	return schema.id.identify(t, id)
}

//-----------------------------------------------------------------------------
//
// Utils
//
//-----------------------------------------------------------------------------

// offset of struct field referenced by lens
func offsetOf[T, A any](lens func(*T) *A) uintptr {
	var x T
	return reflect.ValueOf(lens(&x)).Pointer() - reflect.ValueOf(&x).Pointer()
}

func isAbsent(val bson.RawValue) bool {
	return val.IsZero() || val.Type == bson.TypeNull
}
