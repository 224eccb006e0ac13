package storage

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := NewError("read", "/tmp/x/42", fs.ErrNotExist)

	msg := err.Error()
	if !strings.Contains(msg, "read") {
		t.Errorf("expected operation in message, got %q", msg)
	}
	if !strings.Contains(msg, "/tmp/x/42") {
		t.Errorf("expected key in message, got %q", msg)
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := NewError("delete", "k", fs.ErrNotExist)

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected errors.Is to find the cause")
	}

	var se *Error
	if !errors.As(error(err), &se) {
		t.Error("expected errors.As to match *Error")
	}
	if se.Op != "delete" || se.Key != "k" {
		t.Errorf("unexpected fields: op=%s key=%s", se.Op, se.Key)
	}
}
