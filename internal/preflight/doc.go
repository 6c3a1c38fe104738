// Package preflight provides readiness checks for the directories and
// external binaries a batch run depends on.
//
// The CLI "run" command calls RunAll before starting and refuses to run when
// a check fails; "status" renders the same results alongside CheckSystemDeps.
// Optional checks (color profiles) only run when configured.
package preflight
