// Package queue defines the asynq task types exchanged between producers and
// the indexing worker, plus the helpers to build and decode them.
//
// The wire payload is the JSON index message: metadata naming the source
// workflow and a list of document events. Producers call NewIndexTask and
// enqueue the result with an asynq.Client; the worker registers a handler for
// TypeIndexPlaintext and decodes with DecodeIndexMessage.
package queue
