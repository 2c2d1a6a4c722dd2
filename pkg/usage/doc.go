// Package usage accumulates per-model token usage across adapter calls.
//
// The Tracker is an in-memory aggregate: adapters record one Sample per
// completion call and the Tracker rolls them up by provider and model.
// The Reporter logs a snapshot on a cron schedule so long-running
// processes leave a usage trail without any storage backend.
package usage
