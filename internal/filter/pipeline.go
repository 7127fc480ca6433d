package filter

import (
	"sync"

	"asset-inventory/internal/models"
)

// View is the derived list state for one collection snapshot
type View struct {
	Filtered    []models.Asset
	Page        []models.Asset
	CurrentPage int
	TotalPages  int
}

// Pipeline holds the search term, selected category and current page.
// Changing the term or the category moves back to page 1.
type Pipeline struct {
	mu       sync.Mutex
	term     string
	category models.Category
	page     int
	size     int
}

// NewPipeline returns a pipeline on page 1 with no filters
func NewPipeline() *Pipeline {
	return &Pipeline{page: 1, size: PageSize}
}

// SearchTerm returns the current search term
func (p *Pipeline) SearchTerm() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.term
}

// SelectedCategory returns the selected category, "" when none
func (p *Pipeline) SelectedCategory() models.Category {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.category
}

// CurrentPage returns the 1-based page
func (p *Pipeline) CurrentPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// SetSearchTerm replaces the term and resets to page 1
func (p *Pipeline) SetSearchTerm(term string) *Pipeline {
	p.mu.Lock()
	defer p.mu.Unlock()
	if term != p.term {
		p.term = term
		p.page = 1
	}
	return p
}

// ToggleCategory selects c, or clears the selection when c is already selected
func (p *Pipeline) ToggleCategory(c models.Category) *Pipeline {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.category == c {
		p.category = ""
	} else {
		p.category = c
	}
	p.page = 1
	return p
}

// ClearFilters drops the term and the category selection
func (p *Pipeline) ClearFilters() *Pipeline {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.term != "" || p.category != "" {
		p.page = 1
	}
	p.term = ""
	p.category = ""
	return p
}

// SetCurrentPage moves to page n. It is not clamped; an out of range page
// renders empty.
func (p *Pipeline) SetCurrentPage(n int) *Pipeline {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = n
	return p
}

// View filters assets and cuts the current page
func (p *Pipeline) View(assets []models.Asset) View {
	p.mu.Lock()
	term, category, page, size := p.term, p.category, p.page, p.size
	p.mu.Unlock()

	filtered := Apply(assets, term, category)
	return View{
		Filtered:    filtered,
		Page:        Paginate(filtered, page, size),
		CurrentPage: page,
		TotalPages:  TotalPages(len(filtered), size),
	}
}
