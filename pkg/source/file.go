package source

import (
	"context"

	"github.com/matzehuels/kintree/pkg/io"
	"github.com/matzehuels/kintree/pkg/tree"
)

// File loads a JSON document from the local filesystem.
type File struct {
	Path string
}

func (f *File) Load(ctx context.Context) (*tree.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.ImportJSON(f.Path)
}

func (f *File) String() string { return f.Path }
