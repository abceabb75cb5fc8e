/*
Package app hosts extensions as a single state machine.

Application executes transactions in blocks. Every block starts with
BeginBlock, which sets the height and the ledger time, continues with any
number of DeliverTx calls and ends with Commit. CheckTx validates a
transaction against the state of the mempool without changing the
delivered state.

All calls are serialized. A transaction that fails leaves no trace in the
state as long as the handler stack is protected by a savepoint decorator.
Events of successful transactions are appended to a persistent event log,
available for indexers under the /events query path.
*/
package app
