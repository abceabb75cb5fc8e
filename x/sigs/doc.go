/*
Package sigs provides basic authentication middleware to verify the
signatures on the transaction, and maintain nonces for replay protection.

Every signature carries the public key of the signer and the sequence number
the signer expects. Each public key has a sequence counter stored in the
"sigs" bucket, and a signature is accepted only if it was created for the
current counter value. On success, the counter is incremented.
*/
package sigs
