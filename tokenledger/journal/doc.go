// Package journal provides the audit trail for committed ledger mutations.
//
// The ledger hands one Entry to a Recorder after each state change commits.
// Recording is best-effort: a failing recorder never rolls back ledger
// state. Memory is the in-process recorder used by tests; the rabbitmq
// subpackage delivers entries to an AMQP broker.
package journal
