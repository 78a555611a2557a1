// Package exporter runs report exports.
//
// A Generator exists per record type and offers three scopes:
//
//	GenerateCurrent   records already loaded by the caller, no fetch
//	GenerateAll       one high-limit fetch
//	GenerateFiltered  a date range or a category filter
//
// Every export follows the same pipeline: resolve scope, fetch, aggregate,
// build the document, serialize, name the file, then hand the artifact to a
// Saver exactly once. Failures come back as *errors.ExportError and nothing
// is saved.
//
// A Trigger wraps a generator call and allows one export at a time:
//
//	trigger := exporter.NewTrigger(domain.RecordTypeUsers, exporter.TriggerOptions{Logger: logger})
//	artifact, err := trigger.Run(ctx, domain.ScopeAllRecords, func(ctx context.Context) (*domain.ExportArtifact, error) {
//		return users.GenerateAll(ctx, saver)
//	})
//
// MonthlyGenerator builds the dashboard summary from an already-fetched
// snapshot and never touches the network.
package exporter
