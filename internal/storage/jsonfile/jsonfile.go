// Package jsonfile persists application state to flat JSON files, one file
// per store. Writes go through a temp file followed by an atomic rename so a
// crash mid-write never leaves a torn file behind.
package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
)

// readFile decodes the JSON file at path into v. A missing file is treated as
// an empty store: v is left untouched and no error is returned.
func readFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "read %s", path)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}

// writeFile encodes v as indented JSON and atomically replaces the file at
// path via a same-directory temp file and rename.
func writeFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "close %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "rename %s", tmpName)
	}
	return nil
}
