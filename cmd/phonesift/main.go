// Package main provides the entry point for the phonesift CLI.
//
// phonesift walks a directory of message-screenshot images, OCRs each one
// with tesseract, extracts phone numbers (with optional name/timestamp
// context) from the recognized text, and writes a four-sheet XLSX workbook.
//
// Usage:
//
//	phonesift scan <directory>
//	phonesift history
//
// See --help for all available options.
package main

// main is the entry point for phonesift.
func main() {
	Execute()
}
