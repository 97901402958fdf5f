package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/io"
	"github.com/matzehuels/kintree/pkg/observability"
	"github.com/matzehuels/kintree/pkg/tree"
)

// Scheme names reported to hooks and logs.
const (
	SchemeFile   = "file"
	SchemeHTTP   = "http"
	SchemeMongo  = "mongodb"
	SchemeSQLite = "sqlite"
)

// Source loads one tree document.
type Source interface {
	Load(ctx context.Context) (*tree.Record, error)
	// String returns the source URI with credentials redacted.
	String() string
}

// Options configures the sources returned by [Open].
type Options struct {
	// Timeout bounds a single Load. Zero means no limit beyond ctx.
	Timeout time.Duration

	// Retries is the number of attempts for HTTP sources.
	Retries int

	HTTPClient *http.Client

	// Cache enables cache-first loading of remote sources.
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration

	Logger *log.Logger
}

// Open parses uri and returns the matching source.
func Open(uri string, opts Options) (Source, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, errors.New(errors.ErrCodeInvalidSource, "empty source")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}

	scheme, inner, err := parse(uri, opts)
	if err != nil {
		return nil, err
	}
	s := &loader{inner: inner, scheme: scheme, uri: uri, opts: opts}
	return s, nil
}

func parse(uri string, opts Options) (string, Source, error) {
	i := strings.Index(uri, "://")
	if i < 0 {
		if err := errors.ValidatePath(uri); err != nil {
			return "", nil, err
		}
		return SchemeFile, &File{Path: uri}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "parse source")
	}
	switch u.Scheme {
	case "file":
		if err := errors.ValidatePath(u.Path); err != nil {
			return "", nil, err
		}
		return SchemeFile, &File{Path: u.Path}, nil
	case "http", "https":
		if err := errors.ValidateURL(uri); err != nil {
			return "", nil, err
		}
		return SchemeHTTP, &HTTP{URL: uri, Client: opts.HTTPClient, Attempts: opts.Retries}, nil
	case "mongodb", "mongodb+srv":
		m, err := parseMongo(u)
		return SchemeMongo, m, err
	case "sqlite":
		s, err := parseSQLite(u)
		return SchemeSQLite, s, err
	}
	return "", nil, errors.New(errors.ErrCodeInvalidSource, "unsupported source scheme %q", u.Scheme)
}

// loader adds timeouts, caching, hooks and error wrapping to a source.
type loader struct {
	inner  Source
	scheme string
	uri    string
	opts   Options
}

func (l *loader) String() string { return l.inner.String() }

// Scheme returns the source kind.
func (l *loader) Scheme() string { return l.scheme }

func (l *loader) Load(ctx context.Context) (*tree.Record, error) {
	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	rec, err := l.load(ctx)
	count := 0
	if err == nil {
		count = rec.Count()
	}
	observability.Diagram().OnLoad(ctx, l.scheme, count, time.Since(start), err)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "load %s", l.inner)
		}
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "load %s", l.inner)
	}

	l.opts.Logger.Debug("loaded tree", "source", l.inner.String(), "people", count, "duration", time.Since(start))
	return rec, nil
}

func (l *loader) load(ctx context.Context) (*tree.Record, error) {
	if l.opts.Cache == nil || l.scheme == SchemeFile {
		return l.inner.Load(ctx)
	}

	key := l.opts.Keyer.DocumentKey(l.uri)
	hooks := observability.Cache()
	if data, hit, err := l.opts.Cache.Get(ctx, key); err == nil && hit {
		if rec, err := io.DecodeJSON(data); err == nil {
			hooks.OnCacheHit(ctx, "document")
			l.opts.Logger.Debug("cache hit", "source", l.inner.String())
			return rec, nil
		}
	} else if err != nil {
		l.opts.Logger.Warn("cache read failed", "error", err)
	}
	hooks.OnCacheMiss(ctx, "document")

	rec, err := l.inner.Load(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(rec); err == nil {
		if err := l.opts.Cache.Set(ctx, key, data, l.opts.TTL); err != nil {
			l.opts.Logger.Warn("cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, "document", len(data))
		}
	}
	return rec, nil
}

// Load opens uri and loads it in one step.
func Load(ctx context.Context, uri string, opts Options) (*tree.Record, error) {
	s, err := Open(uri, opts)
	if err != nil {
		return nil, err
	}
	return s.Load(ctx)
}

// Scheme reports the kind of a source returned by [Open].
func Scheme(s Source) string {
	if l, ok := s.(*loader); ok {
		return l.scheme
	}
	return ""
}
