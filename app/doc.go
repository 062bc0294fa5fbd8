/*
Package app contains the ABCI application: the message router, the decorator
chain, the committed store with its check and deliver caches and the query
and genesis handling.
*/
package app
