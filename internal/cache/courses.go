// Package cache holds the in-process caches for server-fetched reference
// data. Every cache here is constructed explicitly and handed to its
// consumers, so lifetime and invalidation are visible at the call site.
package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"wolfgoatpig/internal/api"
)

// DefaultCourseCapacity bounds the course cache. Course catalogs are small;
// the bound exists so a misbehaving server cannot grow the cache unbounded.
const DefaultCourseCapacity = 32

// CourseCache is a capacity-bounded store of course cards keyed by course
// name. Entries never expire on their own; staleness is handled by explicit
// Invalidate and Purge calls.
type CourseCache struct {
	entries *lru.Cache[string, api.Course]
}

// NewCourseCache creates a course cache holding at most capacity entries.
func NewCourseCache(capacity int) (*CourseCache, error) {
	entries, err := lru.New[string, api.Course](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create course cache: %w", err)
	}
	return &CourseCache{entries: entries}, nil
}

// Get returns the cached course card for name, if present.
func (c *CourseCache) Get(name string) (api.Course, bool) {
	return c.entries.Get(name)
}

// Put stores one course card.
func (c *CourseCache) Put(course api.Course) {
	c.entries.Add(course.Name, course)
}

// PutAll stores a fetched catalog.
func (c *CourseCache) PutAll(courses []api.Course) {
	for _, course := range courses {
		c.entries.Add(course.Name, course)
	}
}

// Invalidate drops one course by name.
func (c *CourseCache) Invalidate(name string) {
	c.entries.Remove(name)
}

// Purge drops every cached course.
func (c *CourseCache) Purge() {
	c.entries.Purge()
}

// Len reports the number of cached courses.
func (c *CourseCache) Len() int {
	return c.entries.Len()
}

// CourseFetcher fetches the course catalog from the server. *api.Client
// implements it.
type CourseFetcher interface {
	Courses(ctx context.Context) ([]api.Course, error)
}

// CourseStore is the data-access layer for courses: reads go through the
// injected cache, misses fall back to the server catalog.
type CourseStore struct {
	fetcher CourseFetcher
	cache   *CourseCache
}

// NewCourseStore creates a store over the given fetcher and cache.
func NewCourseStore(fetcher CourseFetcher, cache *CourseCache) *CourseStore {
	return &CourseStore{fetcher: fetcher, cache: cache}
}

// All fetches the full catalog from the server and refreshes the cache.
func (s *CourseStore) All(ctx context.Context) ([]api.Course, error) {
	courses, err := s.fetcher.Courses(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.PutAll(courses)
	return courses, nil
}

// Course returns one course card, from cache when possible. A miss fetches
// the whole catalog once and fills the cache.
func (s *CourseStore) Course(ctx context.Context, name string) (api.Course, error) {
	if course, ok := s.cache.Get(name); ok {
		return course, nil
	}
	courses, err := s.fetcher.Courses(ctx)
	if err != nil {
		return api.Course{}, err
	}
	s.cache.PutAll(courses)
	if course, ok := s.cache.Get(name); ok {
		return course, nil
	}
	return api.Course{}, fmt.Errorf("course %q not found", name)
}

// Refresh purges the cache and refetches the catalog.
func (s *CourseStore) Refresh(ctx context.Context) ([]api.Course, error) {
	s.cache.Purge()
	return s.All(ctx)
}
