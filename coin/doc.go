/*
Package coin defines the currency representation used by the ledger.

An Amount is an unsigned 256 bit integer counted in the smallest unit of a
currency. A Coin pairs an amount with the currency ticker. Amounts never go
negative: subtraction that would underflow fails with ErrAmount and addition
that would overflow fails with ErrOverflow.
*/
package coin
