/*
Package crypto provides the ed25519 keys used to sign transactions.

A public key is represented on the ledger as a condition of the form

	sigs/ed25519/<public key bytes>

and its address is the address of that condition.
*/
package crypto
