package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/soundboard/internal/blobs"
	"github.com/zjrosen/soundboard/internal/log"
	"github.com/zjrosen/soundboard/internal/sound"
	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

// Resolver defaults.
const (
	DefaultFetchTimeout  = 15 * time.Second
	DefaultMaxFetchBytes = 20 << 20
)

// ErrTooLarge is returned when a remote source exceeds the size limit.
var ErrTooLarge = errors.New("source exceeds size limit")

// BlobSource looks up session blobs.
type BlobSource interface {
	Get(ref string) (blobs.Blob, error)
}

// ResolverConfig configures a Resolver. Zero fields take defaults.
type ResolverConfig struct {
	FetchTimeout  time.Duration
	MaxFetchBytes int64
	Client        *http.Client
}

// Resolver turns a sound's src into raw audio bytes.
type Resolver struct {
	blobs    BlobSource
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

// NewResolver creates a resolver. b may be nil when blob refs are unsupported.
func NewResolver(b BlobSource, cfg ResolverConfig) *Resolver {
	r := &Resolver{
		blobs:    b,
		client:   cfg.Client,
		timeout:  cfg.FetchTimeout,
		maxBytes: cfg.MaxFetchBytes,
	}
	if r.client == nil {
		r.client = http.DefaultClient
	}
	if r.timeout <= 0 {
		r.timeout = DefaultFetchTimeout
	}
	if r.maxBytes <= 0 {
		r.maxBytes = DefaultMaxFetchBytes
	}
	return r
}

var tracer = otel.Tracer("github.com/zjrosen/soundboard/internal/playback")

// Fetch returns the bytes behind src. Every failure is a PlaybackLoadError.
func (r *Resolver) Fetch(ctx context.Context, src string) ([]byte, error) {
	kind := domain.KindOf(src)
	ctx, span := tracer.Start(ctx, "resolver.fetch",
		trace.WithAttributes(attribute.String("sound.source_kind", kind.String())))
	defer span.End()

	data, err := r.fetch(ctx, src)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &domain.PlaybackLoadError{Src: src, Err: err}
	}
	span.SetAttributes(attribute.Int("sound.bytes", len(data)))
	return data, nil
}

func (r *Resolver) fetch(ctx context.Context, src string) ([]byte, error) {
	switch domain.KindOf(src) {
	case domain.SourceBuiltin:
		return sound.ReadClip(src)
	case domain.SourceBlob:
		if r.blobs == nil {
			return nil, blobs.ErrNotFound
		}
		b, err := r.blobs.Get(src)
		if err != nil {
			return nil, err
		}
		return b.Data, nil
	case domain.SourceRemote:
		return r.fetchRemote(ctx, src)
	default:
		return os.ReadFile(src) //nolint:gosec // G304: user-chosen sound file
	}
}

func (r *Resolver) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	if resp.ContentLength > r.maxBytes {
		return nil, ErrTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > r.maxBytes {
		return nil, ErrTooLarge
	}
	log.Debug(log.CatAudio, "Fetched remote sound", "url", url, "bytes", len(data), "elapsed", time.Since(start))
	return data, nil
}
