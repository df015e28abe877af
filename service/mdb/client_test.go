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
	"errors"
	"testing"
	"time"

	"github.com/fogfish/it/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func connectionFailed(err error) string {
	var e interface{ ConnectionFailed() string }
	if errors.As(err, &e) {
		return e.ConnectionFailed()
	}
	return ""
}

func TestOpenUnreachable(t *testing.T) {
	client, err := Open(context.Background(),
		WithEndpoint("127.0.0.1:1"),
		WithConnectTimeout(200*time.Millisecond),
	)

	it.Then(t).Should(
		it.True(client == nil),
		it.Equal(connectionFailed(err), "127.0.0.1:1"),
	)
}

func TestOpenInvalidEndpoint(t *testing.T) {
	_, err := Open(context.Background(), WithEndpoint("localhost"))

	it.Then(t).Should(
		it.True(err != nil),
		it.Equal(connectionFailed(err), ""),
	)
}

// session over lazy driver client, no round trips to server
func tClient(t *testing.T) *Client {
	t.Helper()

	c, err := mongo.Connect(context.Background(),
		options.Client().SetHosts([]string{"127.0.0.1:1"}),
	)
	if err != nil {
		t.Fatal(err)
	}

	return &Client{client: c, endpoint: "127.0.0.1:1", logger: zap.NewNop()}
}

func TestClientClose(t *testing.T) {
	client := tClient(t)

	it.Then(t).Should(
		it.Nil(client.Close(context.Background())),
		it.Nil(client.Close(context.Background())),
	)
}

func TestClientBindings(t *testing.T) {
	client := tClient(t)
	defer client.Close(context.Background())

	db := client.Database("test")
	people := Collection[Document](db, "people", DocumentCodec{})

	it.Then(t).Should(
		it.Equal(client.Endpoint(), "127.0.0.1:1"),
		it.Equal(db.Name(), "test"),
		it.Equal(people.Name(), "people"),
		it.True(people.indexer != nil),
		it.Equal(people.endpoint, "127.0.0.1:1"),
	)
}
