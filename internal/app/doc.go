// Package app wires the wallet front-end's dependencies.
//
// It builds the ledger resolver, keyfile wallet, connection manager, backend
// client and transfer submitter from config, and exposes them through Wire
// for the server and the CLI commands.
package app
