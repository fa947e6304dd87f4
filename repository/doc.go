// Package repository implements the per-entity repositories of the estate
// store on top of Bun and the Session that stages their writes.
//
// Every read hides logically deleted rows. Writes are staged on the Session
// and applied at flush time inside a working transaction, so reads through
// the same Session observe them before SaveChanges while other connections
// only see them after commit.
package repository
