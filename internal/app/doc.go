// Package app orchestrates one pipeline invocation. Control flow is
// strictly linear: validate inputs, load the two CSV tables, aggregate
// them into the KPI report, and export the Excel workbook, HTML summary,
// and optional CSV breakdowns. There is no branching state machine and
// no retry policy; any stage error aborts the run.
package app
