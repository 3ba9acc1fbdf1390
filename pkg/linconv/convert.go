// Package linconv is the embedding API for turning Bridge Base hand viewer
// links and PBN deal files into .lin files.
package linconv

import (
	"bbo2lin/internal/handviewer"
	"bbo2lin/internal/linfile"
	"bbo2lin/internal/pbn"
	"io"
)

// Extract returns the decoded LIN record carried by a hand viewer URL.
func Extract(rawURL string) (string, error) {
	return handviewer.ExtractLIN(rawURL)
}

// Convert extracts the LIN record from rawURL and stores it in output
// (hands.lin when empty, .lin added when it has no extension).
func Convert(rawURL, output string, opts *Options) (*Result, error) {
	payload, err := handviewer.ExtractLIN(rawURL)
	if err != nil {
		return nil, err
	}
	return store(payload, 1, output, opts)
}

// ConvertPBN renders every deal in a PBN stream as a LIN record and stores
// them in output, one record per line, under the same rules as Convert.
func ConvertPBN(r io.Reader, output string, opts *Options) (*Result, error) {
	boards, err := pbn.Parse(r)
	if err != nil {
		return nil, err
	}
	return store(pbn.LINRecords(boards), len(boards), output, opts)
}

func store(payload string, records int, output string, opts *Options) (*Result, error) {
	mode := linfile.ModeAppend
	w := &linfile.Writer{}
	if opts != nil {
		if opts.Overwrite {
			mode = linfile.ModeOverwrite
		}
		w.LockDir = opts.LockDir
	}

	out, err := w.Put(payload, output, mode)
	if err != nil {
		return nil, err
	}

	return &Result{
		Path:    out.Path,
		Created: !out.Existed,
		Size:    out.Size,
		Payload: payload,
		Records: records,
	}, nil
}
