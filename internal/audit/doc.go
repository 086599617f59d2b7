// Package audit keeps a history of idresign runs.
//
// Every run that reaches the worker, successful or not, appends one JSON
// object to the audit log in the user's data directory:
//
//	~/.local/share/idresign/audit.jsonl
//
// Entries record the run ID, operation, title, masked identities, input
// and output roots, file counts, and the error for failed runs. Only the
// last four digits of a SteamID are kept. The per-run
// INFO.txt written into the output folder is separate and is part of the
// run itself; this log is only history.
//
// # Failure Handling
//
// Audit logging is best-effort. If the log cannot be written the run still
// reports its own outcome.
//
// # Reading Logs
//
// ReadEntries parses the log for display. Malformed lines are skipped to
// tolerate partial writes.
package audit
