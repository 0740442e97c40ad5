// Package history keeps a local SQLite journal of dispatch attempts.
//
// Each entry records when a notification was sent, which relay it went to,
// how it ended, and the relay-assigned message id. Topic, message text and
// credentials are never written. Schema creation is serialized across
// processes with a lock file next to the database, and schema changes bump
// schemaVersion in schema.go; users delete the database to adopt them.
package history
