/*
Package orm provides an easy to use db wrapper.

A ModelBucket keeps all entities of one type under a unique key prefix and
maintains the secondary indexes declared for it. Entities are protobuf
messages and are validated before every write, so an invalid entity never
reaches the store.

Every bucket can register its query handlers on a QueryRouter. The bucket is
exposed under /<name> and each index under /<name>/<index>.
*/
package orm
