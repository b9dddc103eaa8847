package constants

// Workbook sheet names. Downstream tooling keys on these, so they are a
// compatibility surface and must not be renamed.
const (
	SheetNumbers = "Phone Numbers"
	SheetUnique  = "Unique Numbers"
	SheetSummary = "Summary"
	SheetAllText = "All Text"
)

// Column headers, same compatibility rule as the sheet names.
const (
	ColImageName    = "Image_Name"
	ColPhoneNumber  = "Phone_Number"
	ColName         = "Name"
	ColTimestamp    = "Timestamp"
	ColNumbersFound = "Numbers_Found"
	ColStatus       = "Status"
	ColText         = "Text"
)
