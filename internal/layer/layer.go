package layer

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"

	"splinemap/internal/geom"
)

// Base references the collection generated features are merged into: an
// inline collection (compared by identity) or a URL fetched once.
type Base struct {
	Collection *geom.FeatureCollection
	URL        string
}

// RemoteBase returns a Base for ref, or the zero Base when ref is empty.
func RemoteBase(ref string) Base { return Base{URL: ref} }

// InlineBase returns a Base over fc.
func InlineBase(fc *geom.FeatureCollection) Base { return Base{Collection: fc} }

// IsRemote reports whether the base must be fetched.
func (b Base) IsRemote() bool { return b.Collection == nil && b.URL != "" }

func (b Base) identity() string {
	switch {
	case b.Collection != nil:
		return fmt.Sprintf("inline:%p", b.Collection)
	case b.URL != "":
		return "url:" + b.URL
	}
	return "none"
}

// Inputs is everything a recomputation depends on.
type Inputs struct {
	Base     Base
	Segments []geom.Segment
	Config   Config
}

// Key hashes the inputs. Equal keys mean the cached result is still valid.
func (in Inputs) Key() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s\x00%+v\x00", in.Base.identity(), in.Config)
	for _, s := range in.Segments {
		fmt.Fprintf(h, "%v>%v:", s.From, s.To)
		if b, err := json.Marshal(s.Properties); err == nil {
			h.Write(b)
		} else {
			fmt.Fprintf(h, "%#v", s.Properties)
		}
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// Result is the outcome of one recomputation. While a remote base is being
// fetched Pending is set and Collection holds the generated features only.
type Result struct {
	Collection *geom.FeatureCollection
	Pending    bool
	Err        error
}

// Job is one remote fetch, tagged with the generation that started it.
type Job struct {
	Gen uint64
	URL string

	ctx     context.Context
	cancel  context.CancelFunc
	fetcher Fetcher
}

// Fetched carries a job's outcome back to the Layer.
type Fetched struct {
	Gen        uint64
	URL        string
	Collection *geom.FeatureCollection
	Err        error
}

// Run performs the fetch. It does not touch the Layer and may run on any
// goroutine; hand the result to Layer.Complete.
func (j *Job) Run() Fetched {
	fc, err := j.fetcher.Fetch(j.ctx, j.URL)
	if err == nil && fc == nil {
		err = fmt.Errorf("empty response")
	}
	if err != nil {
		return Fetched{Gen: j.Gen, URL: j.URL, Err: fmt.Errorf("%w: %s: %w", ErrFetchFailed, j.URL, err)}
	}
	return Fetched{Gen: j.Gen, URL: j.URL, Collection: fc}
}

// Layer memoizes Compose over its inputs and owns the fetch of a remote
// base. It is not safe for concurrent use: one goroutine calls Update,
// Complete and Invalidate, only Job.Run may run elsewhere.
type Layer struct {
	fetcher Fetcher

	gen     uint64
	cancel  context.CancelFunc
	pending bool

	hasKey bool
	key    uint64
	in     Inputs
	result Result

	baseURL string
	base    *geom.FeatureCollection
	baseErr error
}

// New returns a Layer fetching remote bases with f. A nil f uses HTTPFetcher.
func New(f Fetcher) *Layer {
	if f == nil {
		f = HTTPFetcher{}
	}
	return &Layer{fetcher: f}
}

// Gen returns the current fetch generation.
func (l *Layer) Gen() uint64 { return l.gen }

// Result returns the last computed result.
func (l *Layer) Result() Result { return l.result }

// Update recomputes for in unless the inputs are unchanged. A non-nil Job
// means a remote base must be fetched: run it and pass its outcome to
// Complete.
func (l *Layer) Update(in Inputs) (Result, *Job) {
	k := in.Key()
	if l.hasKey && k == l.key {
		return l.result, nil
	}
	l.hasKey, l.key, l.in = true, k, in

	if !in.Base.IsRemote() {
		if l.pending {
			l.abort()
		}
		l.result = Result{Collection: Compose(in.Base.Collection, in.Segments, in.Config)}
		return l.result, nil
	}

	if in.Base.URL == l.baseURL {
		switch {
		case l.base != nil:
			l.result = Result{Collection: Compose(l.base, in.Segments, in.Config)}
			return l.result, nil
		case l.pending:
			l.result = Result{Collection: Compose(nil, in.Segments, in.Config), Pending: true}
			return l.result, nil
		case l.baseErr != nil:
			l.result = Result{Collection: Compose(nil, in.Segments, in.Config), Err: l.baseErr}
			return l.result, nil
		}
	}
	return l.start(in)
}

func (l *Layer) start(in Inputs) (Result, *Job) {
	l.abort()
	l.baseURL, l.base, l.baseErr = in.Base.URL, nil, nil
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel, l.pending = cancel, true
	job := &Job{Gen: l.gen, URL: in.Base.URL, ctx: ctx, cancel: cancel, fetcher: l.fetcher}
	slog.Debug("layer: fetching base", "url", job.URL, "gen", job.Gen)
	l.result = Result{Collection: Compose(nil, in.Segments, in.Config), Pending: true}
	return l.result, job
}

// abort cancels any in-flight job and moves to a new generation so its
// result is ignored.
func (l *Layer) abort() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.pending = false
	l.gen++
}

// Complete applies a fetch outcome. It reports false, leaving the state
// alone, when the job belongs to a superseded generation.
func (l *Layer) Complete(f Fetched) (Result, bool) {
	if f.Gen != l.gen || !l.pending {
		slog.Debug("layer: dropping stale fetch", "url", f.URL, "gen", f.Gen, "current", l.gen)
		return l.result, false
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.pending = false
	if f.Err != nil {
		slog.Warn("layer: base fetch failed", "url", f.URL, "err", f.Err)
		l.baseErr = f.Err
		l.result = Result{Collection: Compose(nil, l.in.Segments, l.in.Config), Err: f.Err}
		return l.result, true
	}
	l.base = f.Collection
	l.result = Result{Collection: Compose(l.base, l.in.Segments, l.in.Config)}
	return l.result, true
}

// Invalidate forgets the cached base and result so the next Update fetches
// again.
func (l *Layer) Invalidate() {
	l.abort()
	l.hasKey = false
	l.baseURL, l.base, l.baseErr = "", nil, nil
}

// Resolve runs Update and, when needed, the fetch inline. Cancelling ctx
// cancels the fetch.
func (l *Layer) Resolve(ctx context.Context, in Inputs) (*geom.FeatureCollection, error) {
	res, job := l.Update(in)
	if job == nil {
		return res.Collection, res.Err
	}
	stop := context.AfterFunc(ctx, job.cancel)
	defer stop()
	res, _ = l.Complete(job.Run())
	return res.Collection, res.Err
}
