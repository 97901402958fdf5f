package source

import (
	"context"
	"net/http"
	"net/url"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/httputil"
	"github.com/matzehuels/kintree/pkg/io"
	"github.com/matzehuels/kintree/pkg/tree"
)

// HTTP loads a JSON document over HTTP(S).
type HTTP struct {
	URL      string
	Client   *http.Client
	Attempts int
}

func (h *HTTP) Load(ctx context.Context) (*tree.Record, error) {
	data, err := httputil.Fetch(ctx, h.URL, httputil.FetchOptions{
		Client:   h.Client,
		Attempts: h.Attempts,
		Accept:   "application/json",
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", h)
	}
	return io.DecodeJSON(data)
}

func (h *HTTP) String() string {
	if u, err := url.Parse(h.URL); err == nil {
		return u.Redacted()
	}
	return h.URL
}
