package vmlib

import (
	"os"

	"github.com/yasniy-lang/yasniy/internal/errors"
	"github.com/yasniy-lang/yasniy/internal/value"
)

// ReadFile implements `read_file(path)`.
func ReadFile(path value.Value) (value.Value, error) {
	data, err := os.ReadFile(path.AsString())
	if err != nil {
		return value.Value{}, errors.RuntimeError("read_file: "+err.Error(), err)
	}
	return value.StringValue(string(data)), nil
}

// WriteFile implements `write_file(path, contents)`.
func WriteFile(path, contents value.Value) (value.Value, error) {
	if err := os.WriteFile(path.AsString(), []byte(contents.AsString()), 0o644); err != nil {
		return value.Value{}, errors.RuntimeError("write_file: "+err.Error(), err)
	}
	return value.NullValue(), nil
}

// FileExists implements `file_exists(path)`.
func FileExists(path value.Value) (value.Value, error) {
	_, err := os.Stat(path.AsString())
	return value.BoolValue(err == nil), nil
}

// DeleteFile implements `delete_file(path)`.
func DeleteFile(path value.Value) (value.Value, error) {
	if err := os.Remove(path.AsString()); err != nil && !os.IsNotExist(err) {
		return value.Value{}, errors.RuntimeError("delete_file: "+err.Error(), err)
	}
	return value.NullValue(), nil
}
