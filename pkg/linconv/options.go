package linconv

// Options tunes a conversion. A nil *Options appends without locking.
type Options struct {
	// Overwrite replaces the file contents instead of appending.
	Overwrite bool
	// LockDir enables advisory write locking with lock files kept here.
	LockDir string
}
