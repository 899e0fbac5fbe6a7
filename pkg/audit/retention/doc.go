// Package retention enforces audit record retention policies: age-based and
// count-based pruning, optional JSON archiving before deletion, and a cron
// scheduler for automatic enforcement.
package retention
