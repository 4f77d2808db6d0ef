// Package interfaces documents the core abstractions used throughout the application.
//
// It holds no runtime code. checks.go pins every concrete type to the
// interfaces it is wired through, so a drifting method signature breaks the
// build here rather than in the entrypoint.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - catalog.BookRepository, catalog.LocationRepository: catalog CRUD (internal/catalog/catalog.go)
//   - catalog.CopyCounter: total copies for library stats (internal/catalog/catalog.go)
//   - inventory.BookStore, inventory.LocationStore: parent existence checks (internal/inventory/stores.go)
//   - inventory.CopyStore: stock records (internal/inventory/stores.go)
//   - inventory.Transactor: unit of work over all three stores (internal/inventory/stores.go)
//
// ## Notification Interfaces
//
//   - inventory.Observer: committed quantity changes (internal/inventory/observer.go)
//   - catalog.AuditLogger: catalog create/update/delete (internal/catalog/catalog.go)
//
// ## HTTP Interfaces
//
// Controllers depend on the narrow interfaces in internal/http/stores.go:
// BookService, LocationService, StatsProvider, InventoryService,
// HealthChecker and AuditReader.
//
// ## Background Work
//
//   - tasks.AuditEventCleaner: retention cleanup run by the task queue (internal/tasks/cleanup_audit.go)
//   - scheduler.Job: cron-triggered work (internal/scheduler/audit_cleanup.go)
//
// # Adding a New Implementation
//
//  1. Implement the interface in its own package
//  2. Add a compile-time check to checks.go
//  3. Wire it in internal/entrypoint
package interfaces
