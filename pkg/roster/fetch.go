package roster

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgchart/pkg/buildinfo"
	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/observability"
)

// maxBodySize caps remote roster downloads.
const maxBodySize = 32 << 20

// Fetcher retrieves raw roster bytes from a URL or a local path.
type Fetcher struct {
	HTTP   *http.Client
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger

	// MaxBytes caps a download; larger bodies fail instead of being cut.
	MaxBytes int64
}

// NewFetcher creates a fetcher. Nil arguments select a 30s HTTP client,
// a [cache.NullCache] and the default logger.
func NewFetcher(c cache.Cache, logger *log.Logger) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		Cache:    c,
		Keyer:    cache.NewDefaultKeyer(),
		TTL:      cache.TTLRoster,
		Logger:   logger,
		MaxBytes: maxBodySize,
	}
}

// Fetch returns the bytes behind source. URLs are served from cache when
// possible unless refresh is set; files are always read from disk.
func (f *Fetcher) Fetch(ctx context.Context, source string, refresh bool) ([]byte, error) {
	data, _, err := f.FetchCached(ctx, source, refresh)
	return data, err
}

// FetchCached is Fetch that also reports whether the bytes came from cache.
func (f *Fetcher) FetchCached(ctx context.Context, source string, refresh bool) ([]byte, bool, error) {
	if err := errors.ValidateSource(source); err != nil {
		return nil, false, err
	}
	if !errors.IsURL(source) {
		data, err := readFile(source)
		return data, false, err
	}

	key := f.Keyer.RosterKey(source)
	if !refresh {
		data, hit, err := f.Cache.Get(ctx, key)
		if err != nil {
			f.Logger.Warn("cache read failed", "source", source, "error", err)
		}
		if hit {
			observability.Cache().OnCacheHit(ctx, "roster")
			f.Logger.Debug("roster cache hit", "source", source, "bytes", len(data))
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "roster")
	}

	data, err := f.download(ctx, source)
	if err != nil {
		return nil, false, err
	}
	if err := f.Cache.Set(ctx, key, data, f.TTL); err != nil {
		f.Logger.Warn("cache write failed", "source", source, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "roster", len(data))
	}
	return data, false, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "build request")
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	req.Header.Set("Accept", "text/csv, text/tab-separated-values, text/plain;q=0.9, */*;q=0.5")

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := f.HTTP.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	limit := f.MaxBytes
	if limit <= 0 {
		limit = maxBodySize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read %s", url)
	}
	if int64(len(data)) > limit {
		return nil, errors.New(errors.ErrCodeInvalidRoster, "roster exceeds %d bytes", limit)
	}
	f.Logger.Debug("fetched roster", "url", url, "bytes", len(data))
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeRosterNotFound, "roster not found (status %d)", code)
	default:
		return errors.Wrap(errors.ErrCodeNetwork, fmt.Errorf("status %d", code), "fetch roster")
	}
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeRosterNotFound, err, "roster file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "read %s", path)
	}
	return data, nil
}
