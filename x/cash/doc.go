/*
Package cash implements the native value ledger. Every address holds a
balance of the single native token. Balances move with a signed send and
are created by the configured minter, or from genesis.
*/
package cash
