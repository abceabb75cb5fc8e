/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* Each object is stored under its primary key.
* Easy queries for one and iteration in key order.

Models are serialized with their own Marshal method. Buckets register
themselves with the query router under their name so that clients can read
stored data.
*/
package orm
