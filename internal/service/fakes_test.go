package service

import (
	"context"
	"database/sql"
	"errors"
	"maps"
	"sort"
	"time"

	"github.com/rize-social/rize/internal/model"
)

// memDB is an in-memory stand-in for the tables touched by post creation
// and the section registry. memTx restores a snapshot when fn fails, which
// gives tests real rollback semantics.
type memDB struct {
	posts    map[string]model.Post
	links    map[string]model.PostLink
	events   []string
	sections map[string]model.Section // keyed by slug, single profile
	likes    map[[2]string]bool
}

func newMemDB() *memDB {
	return &memDB{
		posts:    map[string]model.Post{},
		links:    map[string]model.PostLink{},
		sections: map[string]model.Section{},
		likes:    map[[2]string]bool{},
	}
}

func (db *memDB) snapshot() memDB {
	return memDB{
		posts:    maps.Clone(db.posts),
		links:    maps.Clone(db.links),
		events:   append([]string(nil), db.events...),
		sections: maps.Clone(db.sections),
		likes:    maps.Clone(db.likes),
	}
}

type memTx struct{ db *memDB }

func (m *memTx) WithTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	snap := m.db.snapshot()
	if err := fn(ctx, nil); err != nil {
		*m.db = snap
		return err
	}
	return nil
}

type memOutbox struct{ db *memDB }

func (o *memOutbox) InsertTx(_ context.Context, _ *sql.Tx, _, _, eventType string, _ any) error {
	o.db.events = append(o.db.events, eventType)
	return nil
}

// memPosts implements PostStore over memDB. Listing queries are not needed
// by these tests.
type memPosts struct {
	PostStore
	db *memDB
}

func (s *memPosts) Insert(_ context.Context, _ *sql.Tx, p *model.Post) error {
	p.CreatedAt = time.Now()
	s.db.posts[p.ID] = *p
	return nil
}

func (s *memPosts) InsertLink(_ context.Context, _ *sql.Tx, l *model.PostLink) error {
	s.db.links[l.PostID] = *l
	return nil
}

func (s *memPosts) View(_ context.Context, viewer model.Principal, id string) (*model.PostView, error) {
	p, ok := s.db.posts[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	v := &model.PostView{Post: p}
	if l, ok := s.db.links[id]; ok {
		v.Link = &l
	}
	for k := range s.db.likes {
		if k[1] == id {
			v.LikeCount++
			if k[0] == viewer.ProfileID {
				v.ViewerLiked = true
			}
		}
	}
	return v, nil
}

// memEngagement stores likes as a set, like the likes table's primary key.
type memEngagement struct {
	EngagementStore
	db *memDB
}

func (e *memEngagement) Like(_ context.Context, profileID, postID string) error {
	if _, ok := e.db.posts[postID]; !ok {
		return model.ErrNotFound
	}
	e.db.likes[[2]string{profileID, postID}] = true
	return nil
}

func (e *memEngagement) Unlike(_ context.Context, profileID, postID string) error {
	delete(e.db.likes, [2]string{profileID, postID})
	return nil
}

// memSections implements SectionStore for a single profile. drafts holds
// sections whose only content is unpublished.
type memSections struct {
	db      *memDB
	content map[model.SectionSlug]bool
	drafts  map[model.SectionSlug]bool
}

func (s *memSections) InsertDefaults(_ context.Context, _ *sql.Tx, sections []model.Section) error {
	for _, sec := range sections {
		if _, ok := s.db.sections[string(sec.Slug)]; ok {
			return model.ErrSectionsExist
		}
		s.db.sections[string(sec.Slug)] = sec
	}
	return nil
}

func (s *memSections) List(_ context.Context, _ string) ([]model.Section, error) {
	out := make([]model.Section, 0, len(s.db.sections))
	for _, sec := range s.db.sections {
		out = append(out, sec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *memSections) ListForUpdate(ctx context.Context, _ *sql.Tx, profileID string) ([]model.Section, error) {
	return s.List(ctx, profileID)
}

func (s *memSections) SetOrder(_ context.Context, _ *sql.Tx, _ string, ordered []model.SectionSlug) error {
	for i, slug := range ordered {
		sec := s.db.sections[string(slug)]
		sec.Order = i
		s.db.sections[string(slug)] = sec
	}
	return nil
}

func (s *memSections) Toggle(_ context.Context, _ *sql.Tx, _ string, slugs []model.SectionSlug) error {
	for _, slug := range slugs {
		sec := s.db.sections[string(slug)]
		sec.Enabled = !sec.Enabled
		s.db.sections[string(slug)] = sec
	}
	return nil
}

func (s *memSections) ContentPresence(_ context.Context, _ string, includeDrafts bool) (map[model.SectionSlug]bool, error) {
	out := make(map[model.SectionSlug]bool, len(s.content))
	for slug, ok := range s.content {
		out[slug] = ok
	}
	if includeDrafts {
		for slug, ok := range s.drafts {
			out[slug] = out[slug] || ok
		}
	}
	return out, nil
}

// noCache always misses.
type noCache struct{}

func (noCache) Get(context.Context, string) ([]model.Section, error) { return nil, errMiss }
func (noCache) Set(context.Context, string, []model.Section) error   { return nil }
func (noCache) Delete(context.Context, string) error                 { return nil }

var errMiss = errors.New("miss")
