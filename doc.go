// FILE: chassis/doc.go

// Package chassis is the configuration and stack-assembly layer for a
// generated web application: declarative field descriptors resolved from
// layered sources, and pure assembly of the ordered component lists the
// application boots with.
//
// Features:
//   - Field descriptors with five semantic kinds: string, integer, boolean,
//     ordered list, filesystem path
//   - Layered resolution: environment variable, then configuration document,
//     then declared default, resolved fresh on every read
//   - TOML configuration documents with YAML and JSON supported as well
//   - Ordered component assembly with remove, extend, and feature-driven
//     pruning semantics
//   - Explicit group registry built at startup, enumerable for generated
//     artifacts (.env.example, starter TOML)
//   - Builder pattern with validators, file discovery, and injectable
//     sources for tests
//   - Struct scanning via mapstructure for project-specific sections
//   - Polling file watcher announcing changed fields
//
// Quick Start:
//
//	settings, err := chassis.NewBuilder().
//	    WithFile("chassis.toml").
//	    Build()
//	if err != nil && !errors.Is(err, chassis.ErrConfigNotFound) {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(settings.Server.Addr())
//	fmt.Println(settings.Middleware)
//
// Resolution Precedence (highest to lowest):
//  1. Environment variables (DATABASE_ENGINE=postgres)
//  2. Configuration document ([database] engine = "postgres")
//  3. Declared field defaults
//
// A value found in a higher source is never merged with a lower one. A value
// that cannot be coerced to its field's kind halts startup with a *ValueError
// naming the field; there is no fallback to a lower source or to the default.
//
// Component Assembly:
//
// The four stock lists (applications, middleware, context processors,
// static-file finders) each start from a pre-ordered baseline. Configuration
// may remove entries, prepend extended entries, and disable features; an
// entry owned by a disabled feature drops automatically. Final lists
// preserve first-seen order and contain no duplicates.
//
// Concurrency:
//
// Fields, groups, documents, and source snapshots are immutable after
// construction, so resolution and assembly need no locking. The watcher and
// the registry guard their own internal state.
package chassis
