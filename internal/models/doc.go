// Package models defines the records and partition interfaces of the job application tracker.
//
// The package contains two categories of types:
//
// 1. Stored records, one per partition
//   - [JobRecord] : A tracked job application, owned by a user
//   - [UserProfile] : A bare namespace marker keyed by username
//   - [Setting] : A global key/value preference (theme, currentUser, ...)
//
// 2. Values passed across the store boundary
//   - [Candidate] : The unsaved shape produced by the page scraper or a manual form
//   - [Session] : The active user, passed explicitly to every user-scoped operation
//   - [Query] and [Page] : A search request and its windowed result
//
// Every stored record implements [Model]. [Partition] defines the operations shared by the three
// partitions and [JobStore] adds the indexed lookups and transactions of the jobs partition.
package models
