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

	"github.com/fogfish/faults"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	errServiceIO        = faults.Type("service i/o failed")
	errUndefinedService = faults.Type("undefined service")
	errUndefinedIndexer = faults.Type("undefined indexer")
	errInvalidUpdate    = faults.Type("invalid update expression")
	errInvalidFilter    = faults.Type("invalid filter expression")
	errInvalidIndex     = faults.Type("invalid index")
	errInvalidEndpoint  = faults.Safe1[string]("invalid endpoint %s")
	errInvalidSchema    = faults.Safe1[string]("invalid schema of %s")
)

// ConnectionError
func errConnection(endpoint string, err error) error {
	return &connectionError{endpoint: endpoint, err: err}
}

type connectionError struct {
	endpoint string
	err      error
}

func (e *connectionError) Error() string {
	return fmt.Sprintf("Connection Failed (%s): %v", e.endpoint, e.err)
}

func (e *connectionError) Unwrap() error { return e.err }

func (e *connectionError) ConnectionFailed() string { return e.endpoint }

// MappingError
func errMapping(key string, err error) error {
	return &mappingError{key: key, err: err}
}

type mappingError struct {
	key string
	err error
}

func (e *mappingError) Error() string {
	return fmt.Sprintf("Mapping Failed (%s): %v", e.key, e.err)
}

func (e *mappingError) Unwrap() error { return e.err }

func (e *mappingError) MappingFailed() string { return e.key }

// nests mapping error under the parent key
func errMappingAt(key string, err error) error {
	var e *mappingError
	if errors.As(err, &e) {
		return errMapping(key+"."+e.key, e.err)
	}
	return errMapping(key, err)
}

// DuplicateKeyError
func errDuplicateKey(err error) error {
	return &duplicateKey{err: err}
}

type duplicateKey struct{ err error }

func (e *duplicateKey) Error() string {
	return fmt.Sprintf("Duplicate Key: %v", e.err)
}

func (e *duplicateKey) Unwrap() error { return e.err }

func (e *duplicateKey) DuplicateKey() bool { return true }

// IndexError
func errIndexConflict(err error) error {
	return &indexConflict{err: err}
}

type indexConflict struct{ err error }

func (e *indexConflict) Error() string {
	return fmt.Sprintf("Index Conflict: %v", e.err)
}

func (e *indexConflict) Unwrap() error { return e.err }

func (e *indexConflict) IndexConflict() bool { return true }

// StreamError
func errStream(err error) error {
	return &streamError{err: err}
}

type streamError struct{ err error }

func (e *streamError) Error() string {
	return fmt.Sprintf("Stream Failed: %v", e.err)
}

func (e *streamError) Unwrap() error { return e.err }

func (e *streamError) StreamFailed() bool { return true }

//
// recover driver errors
//

// server codes IndexOptionsConflict and IndexKeySpecsConflict
const (
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

func recoverIndexConflict(err error) bool {
	var e mongo.ServerError

	ok := errors.As(err, &e)
	return ok && (e.HasErrorCode(codeIndexOptionsConflict) || e.HasErrorCode(codeIndexKeySpecsConflict))
}

func recoverConnectionLost(err error) bool {
	return errors.Is(err, mongo.ErrClientDisconnected) || mongo.IsNetworkError(err)
}

// number of documents persisted by ordered bulk write before the first failure
func recoverInsertedPrefix(err error, n int) int {
	var e mongo.BulkWriteException
	if !errors.As(err, &e) {
		return 0
	}

	if len(e.WriteErrors) == 0 {
		// write concern failure, documents are written
		return n
	}

	at := n
	for _, w := range e.WriteErrors {
		if w.Index < at {
			at = w.Index
		}
	}
	return at
}
