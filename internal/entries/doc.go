// Package entries loads the spreadsheet that drives the site.
//
// A spreadsheet is a header row followed by one row per entry. Headers are
// matched case-insensitively against a small alias table, so both the German
// column names used by the original workbooks ("ID;Bildernamen;Datum/Jahr;
// Beschreibung;Link") and their English counterparts work. CSV files (with
// the delimiter detected from the header) and the first sheet of an .xlsx
// workbook are supported.
//
// Loading is a pure read: rows come back in spreadsheet order, fully blank
// rows are skipped and every other problem is reported as a typed error from
// package builderr.
package entries
