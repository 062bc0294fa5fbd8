/*
Package sigs provides the authentication middleware. It verifies the
signatures on a transaction, exposes the signers to the handlers and
maintains a nonce per signer for replay protection.
*/
package sigs
