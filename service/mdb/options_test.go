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
	"time"

	"github.com/fogfish/it/v2"
	"github.com/fogfish/opts"
	"go.uber.org/zap"
)

func TestOptions(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		c := optsDefault()
		conf := c.clientOptions()

		it.Then(t).Should(
			it.Equal(c.endpoint(), "127.0.0.1:27017"),
			it.Equal(endpointOf(conf), "127.0.0.1:27017"),
			it.Equal(*conf.ConnectTimeout, 10*time.Second),
			it.Equal(*conf.ServerSelectionTimeout, 10*time.Second),
			it.True(conf.Timeout == nil),
			it.True(c.log() != nil),
		)
	})

	t.Run("HostPort", func(t *testing.T) {
		c := optsDefault()
		err := opts.Apply(&c, []Option{
			WithHost("db.example.com"),
			WithPort(27018),
			WithAppName("docdb"),
			WithTimeout(5 * time.Second),
		})
		conf := c.clientOptions()

		it.Then(t).Should(
			it.Nil(err),
			it.Equal(endpointOf(conf), "db.example.com:27018"),
			it.Equal(*conf.AppName, "docdb"),
			it.Equal(*conf.Timeout, 5*time.Second),
		)
	})

	t.Run("Endpoint", func(t *testing.T) {
		c := optsDefault()
		err := opts.Apply(&c, []Option{WithEndpoint("10.0.0.1:27019")})

		it.Then(t).Should(
			it.Nil(err),
			it.Equal(c.host, "10.0.0.1"),
			it.Equal(c.port, 27019),
		)
	})

	t.Run("InvalidEndpoint", func(t *testing.T) {
		for _, endpoint := range []string{"localhost", "localhost:port"} {
			c := optsDefault()
			err := opts.Apply(&c, []Option{WithEndpoint(endpoint)})
			it.Then(t).Should(it.True(err != nil))
		}
	})

	t.Run("URI", func(t *testing.T) {
		c := optsDefault()
		err := opts.Apply(&c, []Option{
			WithHost("ignored"),
			WithURI("mongodb://user:secret@h1:27017,h2:27017/?replicaSet=rs"),
		})
		conf := c.clientOptions()

		it.Then(t).Should(
			it.Nil(err),
			it.Equal(endpointOf(conf), "h1:27017,h2:27017"),
		)
	})

	t.Run("Logger", func(t *testing.T) {
		logger := zap.NewExample()

		c := optsDefault()
		err := opts.Apply(&c, []Option{WithLogger(logger)})

		it.Then(t).Should(
			it.Nil(err),
			it.True(c.log() == logger),
		)
	})
}
