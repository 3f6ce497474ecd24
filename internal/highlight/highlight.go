// Package highlight runs a lexer over a document and feeds the tokens to a
// formatter.
package highlight

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/hilite/internal/cachemanager"
	"github.com/zjrosen/hilite/internal/formatter"
	"github.com/zjrosen/hilite/internal/lexer"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/option"
	"github.com/zjrosen/hilite/internal/registry"
	"github.com/zjrosen/hilite/internal/theme"
	"github.com/zjrosen/hilite/internal/tracing"
)

// CacheKey identifies a rendering: lexer configuration, formatter
// configuration and a hash of the source.
type CacheKey string

// Key returns the cache key of rendering src with lx and f.
func Key(lx *lexer.Lexer, f *formatter.Formatter, src []byte) CacheKey {
	return CacheKey(fmt.Sprintf("%s|%s|%016x", lx.Fingerprint(), f.Fingerprint(), xxhash.Sum64(src)))
}

// Result is the outcome of Highlight. Stats is zero when the output came
// from the cache, since no scan ran.
type Result struct {
	Output    []byte
	Stats     lexer.Stats
	Cached    bool
	SessionID string
}

// Resolver resolves theme names through the theme registry and lexer names
// through a lexer registry. It satisfies option.Resolver.
type Resolver struct {
	Lexers *registry.Registry
}

var _ option.Resolver = Resolver{}

func (Resolver) ResolveTheme(name string) (any, bool) {
	return theme.Resolve(name)
}

func (r Resolver) ResolveLexer(name string) (any, bool) {
	if r.Lexers == nil {
		return nil, false
	}
	return r.Lexers.ResolveLexer(name)
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithTracer records a span per highlight run.
func WithTracer(t trace.Tracer) Option {
	return func(h *Highlighter) { h.tracer = t }
}

// WithCache memoizes Highlight output in cache for ttl.
func WithCache(cache cachemanager.CacheManager[CacheKey, []byte], ttl time.Duration) Option {
	return func(h *Highlighter) {
		h.cache = cachemanager.NewReadThroughCache(cache, h.render, false)
		h.ttl = ttl
	}
}

// WithEngineOptions passes options to the lexer engine.
func WithEngineOptions(opts ...lexer.EngineOption) Option {
	return func(h *Highlighter) { h.engineOpts = append(h.engineOpts, opts...) }
}

// Highlighter renders documents. It is safe for concurrent use.
type Highlighter struct {
	registry   *registry.Registry
	engine     *lexer.Engine
	engineOpts []lexer.EngineOption
	tracer     trace.Tracer
	cache      *cachemanager.ReadThroughCache[CacheKey, []byte, request]
	ttl        time.Duration
}

type request struct {
	lx  *lexer.Lexer
	f   *formatter.Formatter
	src []byte

	// stats receives the scan statistics when the loader runs.
	stats *lexer.Stats
}

// New creates a Highlighter resolving delegations through reg, which may be
// nil.
func New(reg *registry.Registry, opts ...Option) *Highlighter {
	h := &Highlighter{registry: reg}
	for _, opt := range opts {
		opt(h)
	}
	engineOpts := h.engineOpts
	if reg != nil {
		engineOpts = append([]lexer.EngineOption{lexer.WithResolver(reg)}, engineOpts...)
	}
	h.engine = lexer.NewEngine(engineOpts...)
	return h
}

// Registry returns the lexer registry, possibly nil.
func (h *Highlighter) Registry() *registry.Registry {
	return h.registry
}

// Resolver returns the resolver for option strings naming themes or lexers.
func (h *Highlighter) Resolver() Resolver {
	return Resolver{Lexers: h.registry}
}

// Highlight renders src, answering from the cache when one is configured.
func (h *Highlighter) Highlight(ctx context.Context, lx *lexer.Lexer, f *formatter.Formatter, src []byte) (Result, error) {
	ctx, id := tracing.EnsureSessionID(ctx)
	res := Result{SessionID: id}

	err := tracing.Run(ctx, h.tracer, tracing.SpanHighlight, func(ctx context.Context, span trace.Span) error {
		if h.cache == nil {
			out, err := h.renderStats(ctx, request{lx: lx, f: f, src: src}, &res.Stats)
			res.Output = out
			return err
		}
		key := Key(lx, f, src)
		out, hit, err := h.cache.Get(ctx, key, request{lx: lx, f: f, src: src, stats: &res.Stats}, h.ttl)
		if err != nil {
			return err
		}
		res.Output, res.Cached = out, hit
		span.SetAttributes(attribute.Bool(tracing.AttrCacheHit, hit))
		if hit {
			log.Debug(log.CatCache, "render cache hit", "session", id, "key", string(key))
		}
		return nil
	}, spanAttributes(lx, f, src)...)
	if err != nil {
		return Result{SessionID: id}, err
	}
	return res, nil
}

// render is the read-through loader of the cache.
func (h *Highlighter) render(ctx context.Context, req request) ([]byte, error) {
	stats := req.stats
	if stats == nil {
		stats = new(lexer.Stats)
	}
	return h.renderStats(ctx, req, stats)
}

func (h *Highlighter) renderStats(ctx context.Context, req request, stats *lexer.Stats) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(req.src) * 2)
	s, err := h.stream(ctx, &buf, req)
	*stats = s
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Stream renders src to w without caching. Output written before an error
// is not retracted.
func (h *Highlighter) Stream(ctx context.Context, w io.Writer, lx *lexer.Lexer, f *formatter.Formatter, src []byte) (lexer.Stats, error) {
	ctx, _ = tracing.EnsureSessionID(ctx)
	var stats lexer.Stats
	err := tracing.Run(ctx, h.tracer, tracing.SpanHighlight, func(ctx context.Context, _ trace.Span) error {
		bw := bufio.NewWriter(w)
		s, err := h.stream(ctx, bw, request{lx: lx, f: f, src: src})
		stats = s
		if err != nil {
			return err
		}
		return bw.Flush()
	}, spanAttributes(lx, f, src)...)
	return stats, err
}

func (h *Highlighter) stream(ctx context.Context, w io.Writer, req request) (lexer.Stats, error) {
	id := tracing.SessionIDFromContext(ctx)
	log.Debug(log.CatFormat, "highlight started",
		"session", id, "lexer", req.lx.Fingerprint(), "formatter", req.f.Fingerprint(), "bytes", len(req.src))

	var stats lexer.Stats
	err := tracing.Run(ctx, h.tracer, tracing.SpanScan, func(ctx context.Context, span trace.Span) error {
		r := req.f.Renderer(w)
		sink := bridge(r, span)
		s, err := h.engine.Run(ctx, req.lx, req.src, sink)
		stats = s
		span.SetAttributes(
			attribute.Int(tracing.AttrScanSteps, s.Steps),
			attribute.Int(tracing.AttrScanTokens, s.Tokens),
			attribute.Int(tracing.AttrScanDelegations, s.Delegations),
			attribute.Int(tracing.AttrScanFallbacks, s.Fallbacks),
			attribute.Int(tracing.AttrScanMaxDepth, s.MaxDepth),
		)
		return err
	}, attribute.String(tracing.AttrLexer, req.lx.Name()))
	if err != nil {
		log.ErrorErr(log.CatFormat, "highlight failed", err, "session", id, "lexer", req.lx.Name())
		return stats, fmt.Errorf("highlight %s as %s: %w", req.lx.Name(), req.f.Name(), err)
	}

	log.Debug(log.CatFormat, "highlight finished",
		"session", id, "tokens", stats.Tokens, "steps", stats.Steps,
		"delegations", stats.Delegations, "fallbacks", stats.Fallbacks, "max_depth", stats.MaxDepth)
	return stats, nil
}

// bridge forwards engine events to r. Changes of delegation depth become
// events on span when it is recording.
func bridge(r formatter.Renderer, span trace.Span) lexer.Sink {
	depth := 1
	recording := span.IsRecording()
	return func(ev lexer.Event) error {
		switch ev.Kind {
		case lexer.EventStartDocument:
			return r.StartDocument()
		case lexer.EventEndDocument:
			return r.EndDocument()
		}

		if recording && ev.Depth != depth {
			name := tracing.EventDelegated
			if ev.Depth < depth {
				name = tracing.EventReturned
			}
			span.AddEvent(name, trace.WithAttributes(
				attribute.String(tracing.AttrLexer, ev.Lexer),
				attribute.Int(tracing.AttrDepth, ev.Depth),
				attribute.Int(tracing.AttrStart, ev.Start),
			))
			depth = ev.Depth
		}

		if err := r.StartToken(ev.Class); err != nil {
			return err
		}
		if err := r.WriteToken(ev.Text); err != nil {
			return err
		}
		return r.EndToken(ev.Class)
	}
}

func spanAttributes(lx *lexer.Lexer, f *formatter.Formatter, src []byte) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(tracing.AttrLexer, lx.Name()),
		attribute.String(tracing.AttrFormatter, f.Name()),
		attribute.Int(tracing.AttrSourceBytes, len(src)),
	}
	if name := f.Str("theme"); name != "" {
		attrs = append(attrs, attribute.String(tracing.AttrTheme, name))
	}
	return attrs
}
