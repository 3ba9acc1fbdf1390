package linconv

// Result describes one finished conversion.
type Result struct {
	// Path is the resolved output file.
	Path string
	// Created is true when Path did not exist before the write.
	Created bool
	// Size is the total byte size of Path after the write.
	Size int64
	// Payload is the decoded LIN text that was written.
	Payload string
	// Records is the number of hand records in Payload.
	Records int
}
