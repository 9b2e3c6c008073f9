// Package model defines the data structures shared by gistvault packages.
//
// # Local records
//
//   - [Credential]: the username and password hash kept by the credential gate
//   - [Portable]: the local pointers written by settings export
//
// # Remote documents
//
//   - [Settings]: the app-level settings.json document with its [GistRef] list
//   - [ItemList]: the example {"items": [...]} document edited by `doc items`
//
// JSON field names match the documents written by the browser app, so
// gists written by either tool stay readable by the other.
package model
