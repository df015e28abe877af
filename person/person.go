//
// Copyright (C) 2024 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/docdb
//

// Package person declares Person and Address records, their mapping
// tables and attributes for filter and update expressions.
package person

import (
	"fmt"

	"github.com/fogfish/docdb/service/mdb"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address of person, the zip code is optional
type Address struct {
	Street string
	City   string
	Zip    *string
}

// NewAddress creates address, empty zip code is not defined
func NewAddress(street, city, zip string) Address {
	addr := Address{Street: street, City: city}
	if zip != "" {
		addr.Zip = &zip
	}
	return addr
}

func (a Address) String() string {
	zip := "null"
	if a.Zip != nil {
		zip = "'" + *a.Zip + "'"
	}

	return fmt.Sprintf("Address{street='%s', city='%s', zip=%s}", a.Street, a.City, zip)
}

// Person owns its address, the identity is assigned by storage
type Person struct {
	ID      primitive.ObjectID
	Name    string
	Age     int
	Address Address
}

// New creates person without identity
func New(name string, age int, address Address) Person {
	return Person{Name: name, Age: age, Address: address}
}

func (p Person) String() string {
	return fmt.Sprintf("Person{id=%s, name='%s', age=%d, address=%s}",
		p.ID.Hex(), p.Name, p.Age, p.Address)
}

// Address attributes
var (
	Street = mdb.Attr("street", func(a *Address) *string { return &a.Street })
	City   = mdb.Attr("city", func(a *Address) *string { return &a.City })
	Zip    = mdb.Optional("zip", func(a *Address) **string { return &a.Zip })

	AddressSchema = mdb.Must(mdb.NewSchema[Address](Street, City, Zip))
)

// Person attributes
var (
	ID          = mdb.ID(func(p *Person) *primitive.ObjectID { return &p.ID })
	Name        = mdb.Attr("name", func(p *Person) *string { return &p.Name })
	Age         = mdb.Attr("age", func(p *Person) *int { return &p.Age })
	HomeAddress = mdb.Embed("address", func(p *Person) *Address { return &p.Address }, AddressSchema)

	Schema = mdb.Must(mdb.NewSchema[Person](ID, Name, Age, HomeAddress))
)

// Attributes of nested address
var (
	HomeStreet = mdb.Path(HomeAddress, Street)
	HomeCity   = mdb.Path(HomeAddress, City)
	HomeZip    = mdb.Path(HomeAddress, Zip)
)
