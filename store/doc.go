/*
Package store provides the in-memory layers of the custody storage stack.

MemStore is a btree backed KVStore used by tests and by the in-memory daemon
mode. CacheWrap places a btree scratch-pad above any KVStore. Reads see the
pending changes, and Write flushes them to the parent in one batch. Discard
drops them.
*/
package store
