// Package repositories implements the SQLite record store of the job tracker.
//
// The store has three partitions, each a table keyed by its primary key:
//   - [JobRepository] : job records keyed by id, indexed by user, application date, status,
//     job link and the (user, normalized link) pair used for duplicate resolution
//   - [UserRepository] : user profiles keyed by username
//   - [SettingRepository] : global settings keyed by key
//
// Every write is a single statement or runs inside one transaction, so readers never observe a
// partially written record. Missing keys are reported through a boolean, never as an error.
// Driver failures are wrapped in [shared.StorageError].
//
// [JobRepository.WithTx] binds a repository view to one transaction. The tracker runs duplicate
// resolution and the following write through it, making find-or-create atomic.
package repositories
