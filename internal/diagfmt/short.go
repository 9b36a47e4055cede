package diagfmt

import (
	"io"

	"pyl/internal/diag"
	"pyl/internal/source"
)

// Short prints one line per diagnostic: `error SEM3005 path:line:col message`.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	out := diag.FormatGoldenDiagnostics(bag.Items(), fs, false)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
