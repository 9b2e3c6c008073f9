// Package store provides the local storage abstraction layer for gistvault.
//
// The [Store] interface is a small key/value contract (Get, Set, Delete,
// Keys) so the credential gate and the settings service can be handed any
// backend. Four implementations exist:
//
//   - [Bolt]: BoltDB file, the default durable store
//   - [SQLite]: pure Go SQLite file, selected with storage.driver = sqlite
//   - [FileStore]: one file per key, used for session state in the runtime dir
//   - [Memory]: in-process map, used by tests and storage.driver = memory
//
// # Opening
//
//	db, err := store.Open(store.DriverBolt, appDir, "", application.AppName)
//	if err != nil { ... }
//	defer db.Close()
//
// Missing keys return [ErrNotFound] from Get; Delete of a missing key is a no-op.
package store
