package constants

// ScanStatus is the canonical per-image outcome recorded in the Summary sheet
// and in run history.
type ScanStatus string

// Stable values (written to both the workbook and the history DB).
const (
	StatusOK         ScanStatus = "OK"         // image processed; zero matches is still OK
	StatusUnreadable ScanStatus = "UNREADABLE" // OCR could not read the image
	StatusTimeout    ScanStatus = "TIMEOUT"    // OCR exceeded the per-image deadline
)

// RunStatus is the terminal outcome of a whole batch run.
type RunStatus string

const (
	RunStatusOK          RunStatus = "OK"
	RunStatusWriteFailed RunStatus = "WRITE_FAILED" // workbook could not be written
)
