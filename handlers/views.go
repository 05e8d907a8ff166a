package handlers

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ViewCache keeps rendered view models keyed by path and query until the
// path is invalidated. Each path has a generation that Invalidate bumps;
// a view built before the bump is never stored.
type ViewCache struct {
	entries *lru.Cache[string, any]

	mu          sync.Mutex
	generations map[string]uint64
}

func NewViewCache(size int) (*ViewCache, error) {
	entries, err := lru.New[string, any](size)
	if err != nil {
		return nil, err
	}
	return &ViewCache{entries: entries, generations: map[string]uint64{}}, nil
}

func viewKey(r *http.Request) string {
	return r.URL.Path + "?" + r.URL.RawQuery
}

func (v *ViewCache) Get(r *http.Request) (any, bool) {
	return v.entries.Get(viewKey(r))
}

// Generation returns the current generation of the request's path. Read it
// before fetching the data a view is built from.
func (v *ViewCache) Generation(r *http.Request) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.generations[r.URL.Path]
}

// Put stores view unless the path was invalidated after generation was read.
func (v *ViewCache) Put(r *http.Request, generation uint64, view any) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.generations[r.URL.Path] != generation {
		return false
	}
	v.entries.Add(viewKey(r), view)
	return true
}

// Invalidate drops every cached variant of viewPath.
func (v *ViewCache) Invalidate(viewPath string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generations[viewPath]++
	for _, key := range v.entries.Keys() {
		if path, _, _ := strings.Cut(key, "?"); path == viewPath {
			v.entries.Remove(key)
		}
	}
}

func (v *ViewCache) Len() int {
	return v.entries.Len()
}

// requestSignal invalidates through the view cache and navigates the
// current request with a 303, so the browser follows up with a GET.
type requestSignal struct {
	c     *gin.Context
	views *ViewCache
}

func (s requestSignal) Invalidate(viewPath string) {
	s.views.Invalidate(viewPath)
}

func (s requestSignal) NavigateTo(path string) {
	s.c.Redirect(http.StatusSeeOther, path)
}
