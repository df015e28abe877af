//
// Copyright (C) 2024 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/docdb
//

package mdb

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/fogfish/opts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Service declares MongoDB collection API used by the library
type Service interface {
	Name() string
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	InsertMany(context.Context, []interface{}, ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) *mongo.SingleResult
	Find(context.Context, interface{}, ...*options.FindOptions) (*mongo.Cursor, error)
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
	UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	UpdateMany(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	ReplaceOne(context.Context, interface{}, interface{}, ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	DeleteOne(context.Context, interface{}, ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteMany(context.Context, interface{}, ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	Drop(context.Context) error
}

// Indexer declares MongoDB index API used by the library
type Indexer interface {
	CreateOne(context.Context, mongo.IndexModel, ...*options.CreateIndexesOptions) (string, error)
}

var (
	_ Service = (*mongo.Collection)(nil)
	_ Indexer = mongo.IndexView{}
)

// Option type to configure the client and storage
type Option = opts.Option[Options]

// Config Options
type Options struct {
	uri            string
	host           string
	port           int
	appName        string
	connectTimeout time.Duration
	timeout        time.Duration
	logger         *zap.Logger
	service        Service
	indexer        Indexer
}

var (
	// Connection string of server, it overrides host and port
	WithURI = opts.ForName[Options, string]("uri")

	// Host of server, default one is 127.0.0.1
	WithHost = opts.ForName[Options, string]("host")

	// Port of server, default one is 27017
	WithPort = opts.ForName[Options, int]("port")

	// Endpoint of server as host:port
	WithEndpoint = opts.FMap(optsFromEndpoint)

	// Name of application reported to server
	WithAppName = opts.ForName[Options, string]("appName")

	// Timeout to establish connection and select server
	WithConnectTimeout = opts.ForName[Options, time.Duration]("connectTimeout")

	// Timeout of each operation, no timeout by default
	WithTimeout = opts.ForName[Options, time.Duration]("timeout")

	// Structured logger, the library is silent by default
	WithLogger = opts.ForType[Options, *zap.Logger]()

	// Set MongoDB collection for the storage
	WithService = opts.ForType[Options, Service]()

	// Set MongoDB index api for the storage
	WithIndexer = opts.ForType[Options, Indexer]()

	// Set MongoDB collection and its indexes for the storage
	WithCollection = opts.FMap(optsFromCollection)
)

func optsDefault() Options {
	return Options{
		host:           "127.0.0.1",
		port:           27017,
		connectTimeout: 10 * time.Second,
		logger:         zap.NewNop(),
	}
}

func optsFromEndpoint(c *Options, endpoint string) error {
	host, port, err := net.SplitHostPort(endpoint)
	if err != nil {
		return errInvalidEndpoint.New(err, endpoint)
	}

	n, err := strconv.Atoi(port)
	if err != nil {
		return errInvalidEndpoint.New(err, endpoint)
	}

	c.host = host
	c.port = n
	return nil
}

func optsFromCollection(c *Options, coll *mongo.Collection) error {
	c.service = coll
	c.indexer = coll.Indexes()
	return nil
}

// endpoint as host:port
func (c *Options) endpoint() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// driver configuration
func (c *Options) clientOptions() *options.ClientOptions {
	conf := options.Client()

	if c.uri != "" {
		conf.ApplyURI(c.uri)
	} else {
		conf.SetHosts([]string{c.endpoint()})
	}

	if c.connectTimeout > 0 {
		conf.SetConnectTimeout(c.connectTimeout)
		conf.SetServerSelectionTimeout(c.connectTimeout)
	}

	if c.timeout > 0 {
		conf.SetTimeout(c.timeout)
	}

	if c.appName != "" {
		conf.SetAppName(c.appName)
	}

	return conf
}

// name of server(s) for diagnostic, credentials are not exposed
func endpointOf(conf *options.ClientOptions) string {
	return strings.Join(conf.Hosts, ",")
}

// logger never nil
func (c *Options) log() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}
