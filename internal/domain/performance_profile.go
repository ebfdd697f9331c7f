package domain

import (
	"context"
	"encoding/json"
	"time"
)

type profileCtxKey struct{}

// Profile times the stages of one report request. It is created per
// request and passed through context - never stored in a package-level
// variable, so nothing leaks across requests.
type Profile struct {
	Spans   []*ProfileSpan `json:"spans"`
	TotalMs *int64         `json:"totalMs"`
	startTs time.Time
}

type ProfileSpan struct {
	Name      string `json:"name"`
	ElapsedMs *int64 `json:"elapsedMs"`
	startTs   time.Time
}

func NewProfile() (*Profile, func()) {
	p := &Profile{
		Spans:   []*ProfileSpan{},
		startTs: time.Now(),
	}
	return p, p.End
}

func (p *Profile) End() {
	if p.TotalMs == nil {
		t := time.Since(p.startTs).Milliseconds()
		p.TotalMs = &t
	}
}

func (s *ProfileSpan) End() {
	if s.ElapsedMs == nil {
		t := time.Since(s.startTs).Milliseconds()
		s.ElapsedMs = &t
	}
}

// StartNewSpan ends the previous span and begins a new one.
// Not thread safe; call only from the orchestrating goroutine.
func (p *Profile) StartNewSpan(name string) (*ProfileSpan, func()) {
	span := &ProfileSpan{
		Name:    name,
		startTs: time.Now(),
	}
	if len(p.Spans) > 0 {
		p.Spans[len(p.Spans)-1].End()
	}
	p.Spans = append(p.Spans, span)
	return span, span.End
}

func (p *Profile) ToJsonBytes() ([]byte, error) {
	return json.Marshal(p)
}

func NewCtxWithProfile(ctx context.Context, p *Profile) context.Context {
	return context.WithValue(ctx, profileCtxKey{}, p)
}

// GetProfile returns the request's profile, or a throwaway one when the
// caller didn't attach any (tests, CLI one-shots).
func GetProfile(ctx context.Context) *Profile {
	if p, ok := ctx.Value(profileCtxKey{}).(*Profile); ok {
		return p
	}
	p, _ := NewProfile()
	return p
}
