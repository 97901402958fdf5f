package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/tree"
)

// ReadJSON decodes one nested tree document from r.
//
// The input must be a single JSON object:
//
//	{"firstName": "A", "lastName": "X", "children": [{"firstName": "B", "lastName": "Y"}]}
//
// Unknown fields are ignored. ReadJSON returns an INVALID_INPUT error if the
// document is not an object, if any children entry is null, or if trailing
// data follows the object. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*tree.Record, error) {
	dec := json.NewDecoder(r)
	var rec *tree.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode tree")
	}
	if dec.More() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "trailing data after tree document")
	}
	if err := Validate(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DecodeJSON decodes a tree document held in memory.
func DecodeJSON(data []byte) (*tree.Record, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads a JSON file at path and returns the decoded tree.
func ImportJSON(path string) (*tree.Record, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Validate checks that rec is a well-formed tree: a non-nil root and no nil
// children entries.
func Validate(rec *tree.Record) error {
	if rec == nil {
		return errors.New(errors.ErrCodeInvalidInput, "tree document is null")
	}
	stack := []*tree.Record{rec}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i, c := range r.Children {
			if c == nil {
				return errors.New(errors.ErrCodeInvalidInput, "child %d of %q is null", i, tree.FullName(r.FirstName, r.LastName))
			}
			stack = append(stack, c)
		}
	}
	return nil
}
