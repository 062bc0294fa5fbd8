/*
Package x contains the extensions of the custody application.

Extensions implement common functionality (Handler, Decorator,
Initializer) and are combined together to construct an application.

Note that protobuf types in exported code will be prefixed by
the package, so follow standard go naming conventions and avoid
stutter. Use eg. `wallet.CreateMsg` in place of `wallet.WalletCreateMsg`.
*/
package x
