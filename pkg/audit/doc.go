// Package audit persists resolution audit records. Each record captures one
// resolution run: the target, terminal state, the conflict decisions made
// during the merge, and validation counts. Storage backends live in the
// storage subpackage; retention enforcement lives in the retention
// subpackage.
package audit
