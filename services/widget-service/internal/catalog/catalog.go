// Package catalog holds the immutable service and staff datasets the widget
// renders. The catalog is loaded once at startup and never mutated.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ServicesPerPage is the fixed page size of the service browser.
const ServicesPerPage = 6

// CategoryAll matches every category.
const CategoryAll = "all"

type Service struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Price           int    `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
	Category        string `json:"category"`
	Popular         bool   `json:"popular,omitempty"`
}

type Staff struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type Catalog struct {
	services  []Service
	staff     []Staff
	serviceBy map[string]Service
	staffBy   map[string]Staff
}

func New(services []Service, staff []Staff) (*Catalog, error) {
	c := &Catalog{
		services:  services,
		staff:     staff,
		serviceBy: make(map[string]Service, len(services)),
		staffBy:   make(map[string]Staff, len(staff)),
	}
	for _, s := range services {
		if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.Title) == "" {
			return nil, fmt.Errorf("service needs id and title (got id=%q)", s.ID)
		}
		if _, dup := c.serviceBy[s.ID]; dup {
			return nil, fmt.Errorf("duplicate service id %q", s.ID)
		}
		c.serviceBy[s.ID] = s
	}
	for _, st := range staff {
		if strings.TrimSpace(st.ID) == "" || strings.TrimSpace(st.Name) == "" {
			return nil, fmt.Errorf("staff needs id and name (got id=%q)", st.ID)
		}
		if _, dup := c.staffBy[st.ID]; dup {
			return nil, fmt.Errorf("duplicate staff id %q", st.ID)
		}
		c.staffBy[st.ID] = st
	}
	return c, nil
}

type catalogFile struct {
	Services []Service `json:"services"`
	Staff    []Staff   `json:"staff"`
}

// LoadFile reads a catalog override from a JSON file.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f catalogFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return New(f.Services, f.Staff)
}

func (c *Catalog) ServiceByID(id string) (Service, bool) {
	s, ok := c.serviceBy[id]
	return s, ok
}

func (c *Catalog) StaffByID(id string) (Staff, bool) {
	st, ok := c.staffBy[id]
	return st, ok
}

func (c *Catalog) StaffList() []Staff {
	out := make([]Staff, len(c.staff))
	copy(out, c.staff)
	return out
}

// ListServices filters by a case-insensitive substring over title+description
// and by category ("all" is a wildcard), then returns the requested fixed-size
// page. The page argument is clamped into [1, pageCount], so a stale page
// after a filter change lands on the last valid page instead of an empty one.
func (c *Catalog) ListServices(filterText, category string, page int) (items []Service, pageCount int) {
	search := strings.ToLower(strings.TrimSpace(filterText))

	filtered := make([]Service, 0, len(c.services))
	for _, s := range c.services {
		if category != "" && category != CategoryAll && s.Category != category {
			continue
		}
		if search != "" {
			haystack := strings.ToLower(s.Title + " " + s.Description)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		filtered = append(filtered, s)
	}

	pageCount = (len(filtered) + ServicesPerPage - 1) / ServicesPerPage
	if pageCount < 1 {
		pageCount = 1
	}
	page = ClampPage(page, pageCount)

	start := (page - 1) * ServicesPerPage
	if start >= len(filtered) {
		return []Service{}, pageCount
	}
	end := start + ServicesPerPage
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], pageCount
}

func ClampPage(page, pageCount int) int {
	if page < 1 {
		return 1
	}
	if page > pageCount {
		return pageCount
	}
	return page
}
