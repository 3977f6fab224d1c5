// Package simpleobjects provides a small library for managing "objects":
// records with a title, a description, and an optional uploaded image, backed
// by pluggable repository and blob storage backends.
//
// It exposes a single Service interface that orchestrates object creation
// (including image upload with a compensating delete when persistence fails),
// lookup, listing, and deletion, and fires events through an optional
// EventSink. Repository implementations (memory, Postgres) and blob store
// backends (memory, S3-compatible) are provided under subpackages.
package simpleobjects
