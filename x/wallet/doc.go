/*
Package wallet implements threshold custody wallets.

A wallet is a shared account controlled by two or three owners. Any change
to the wallet, be it a new owner set, a new threshold or a transfer of the
held value, must first be proposed by one owner and approved by at least
threshold owners. A wallet holds a single proposal at a time.

Every wallet lives at an address derived from the program instance, its
creator and a seed. Each message carries the derivation inputs and the
address is recomputed before the wallet is read, so a message can only ever
act on the wallet produced by its own inputs.
*/
package wallet
