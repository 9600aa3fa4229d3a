// Package results persists ABX sessions and scores them.
//
// A completed session produces two CSV files in the results directory, named
// after the session start time and the participant:
//
//	{yy-mm-dd_HH-MM}_{first}_{second}_info.csv
//	{yy-mm-dd_HH-MM}_{first}_{second}_results.csv
//
// plus an optional XLSX workbook with the same content. Files are written
// atomically, so an interrupted save never leaves a truncated table. The
// package also reads and writes prepared trial tables and computes session
// summaries with a one-sided binomial test against chance.
package results
