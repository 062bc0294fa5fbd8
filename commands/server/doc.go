/*
Package server provides the cobra commands shared by custody daemons: init
writes the application state into the tendermint genesis, start serves the
application over ABCI and validate-genesis dry runs a genesis file.

Configuration is read by viper from flags, from CUSTODY_ prefixed
environment variables and from <home>/config/<name>.toml, in that order of
precedence.
*/
package server
