// Package dynamo implements the tableapi contract on DynamoDB.
//
// Data tables live in two DynamoDB tables. The meta table (pk/sk) holds one
// record per data table plus one record per attribute; each attribute record
// carries a numeric lock_version that is incremented after every successful
// mutation touching that attribute, which is what makes previously observed
// lock versions stale. A name pointer record written in the same transaction
// as the table record keeps table names unique. The values table holds one
// item per cell, keyed by data-table ID and a derived row key plus the
// attribute name.
//
// Batch value calls validate presented lock versions against the attribute
// records once at call entry, apply conditional writes per item, and report
// per-item failures with the canonical messages tableapi.ClassifyFailure
// recognises. A stale lock version fails with a concurrency-conflict message,
// an update of a missing cell with a value-not-found message, and a create of
// an existing cell with an already-exists message.
package dynamo
