/*
Package cash implements the token component: wallets holding a balance of a
single currency for an address.

A wallet is stored in the "cash" bucket under the owner address followed by
the currency ticker. Other extensions move funds using the Controller,
while users can transfer funds between addresses using SendMsg.
*/
package cash
