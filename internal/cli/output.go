package cli

import (
	"encoding/json"
	"os"

	"github.com/zomglings/busybody/pkg/errors"
)

// writeJSON serializes v and writes it to path, or to stdout when path
// is empty. Reports and listings always end with a trailing newline so
// shell pipelines behave.
func writeJSON(v any, path string, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "serialize output")
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write output file %s", path)
	}
	return nil
}
