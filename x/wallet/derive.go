package wallet

import (
	"github.com/iov-one/custody"
)

// SeedLength is the size of the seed used to derive a wallet address.
const SeedLength = 32

// DeriveAddress returns the address of the wallet created by given creator
// with given seed, within the program instance. The result depends only on
// the arguments, so anyone can restore a wallet address from public inputs.
func DeriveAddress(program string, creator custody.Address, seed []byte) custody.Address {
	data := make([]byte, 0, len(program)+1+len(creator)+len(seed))
	data = append(data, program...)
	data = append(data, 0)
	data = append(data, creator...)
	data = append(data, seed...)
	return custody.NewCondition("wallet", "derived", data).Address()
}
