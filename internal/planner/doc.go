// Package planner validates envcloak commands and describes the filesystem
// actions they would take, without performing any write.
//
// Build evaluates every precondition in a fixed order and accumulates all
// failures, so a single dry-run reports every problem at once. The same Plan
// drives both the dry-run report (Report) and the real execution in the
// workflows package; real runs refuse a plan that has failed checks and
// return Plan.Err, whose message is the failure reasons verbatim.
//
// Build only touches filesystem metadata (stat, directory listing) and reads
// key files to validate their length. It never opens inputs or writes.
package planner
