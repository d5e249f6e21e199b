package book

import (
	"cmp"
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

const (
	OrderTitle           = "title"
	OrderPublicationYear = "publication_year"

	msgNotANumber    = "Enter a number."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

type Ordering struct {
	Field string
	Desc  bool
}

// DefaultOrdering applies when the request names no usable ordering key.
var DefaultOrdering = []Ordering{{Field: OrderTitle}}

// Query is a parsed list request: filters, then search, then ordering.
type Query struct {
	Title           *string
	AuthorID        *int64
	PublicationYear *int
	// Search terms; a book matches when every term is found in its title
	// or its author's name.
	Search   []string
	Ordering []Ordering
}

// ParseQuery reads the list parameters. Empty values mean no constraint.
// Non-numeric author or publication_year values, and years outside the
// int32 range, yield a ValidationError.
func ParseQuery(v url.Values) (Query, error) {
	q := Query{Ordering: DefaultOrdering}
	verr := &ValidationError{Fields: map[string][]string{}}

	if s := v.Get("title"); s != "" {
		q.Title = &s
	}
	if s := strings.TrimSpace(v.Get("author")); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			verr.Fields["author"] = []string{msgInvalidChoice}
		} else {
			q.AuthorID = &id
		}
	}
	if s := strings.TrimSpace(v.Get("publication_year")); s != "" {
		// Years are stored as INTEGER, so anything outside int32 is not a year.
		year, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			verr.Fields["publication_year"] = []string{msgNotANumber}
		} else {
			y := int(year)
			q.PublicationYear = &y
		}
	}
	q.Search = SearchTerms(v.Get("search"))
	if ord := ParseOrdering(v.Get("ordering")); len(ord) > 0 {
		q.Ordering = ord
	}

	if len(verr.Fields) > 0 {
		return Query{}, verr
	}
	return q, nil
}

// SearchTerms splits a search parameter on whitespace and commas. Terms are
// matched independently, so word order in the parameter does not matter.
func SearchTerms(s string) []string {
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

// ParseOrdering keeps the recognised keys of a comma-separated ordering
// parameter. Repeated fields keep their first position.
func ParseOrdering(s string) []Ordering {
	var out []Ordering
	seen := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		o := Ordering{Field: strings.TrimPrefix(part, "-"), Desc: strings.HasPrefix(part, "-")}
		if o.Field != OrderTitle && o.Field != OrderPublicationYear {
			continue
		}
		if seen[o.Field] {
			continue
		}
		seen[o.Field] = true
		out = append(out, o)
	}
	return out
}

// Matches reports whether b, written by authorName, passes the filters and
// the search.
func (q Query) Matches(b Book, authorName string) bool {
	if q.Title != nil && b.Title != *q.Title {
		return false
	}
	if q.AuthorID != nil && b.AuthorID != *q.AuthorID {
		return false
	}
	if q.PublicationYear != nil && b.PublicationYear != *q.PublicationYear {
		return false
	}
	title := strings.ToLower(b.Title)
	name := strings.ToLower(authorName)
	for _, term := range q.Search {
		t := strings.ToLower(term)
		if !strings.Contains(title, t) && !strings.Contains(name, t) {
			return false
		}
	}
	return true
}

// Less orders a before b by the query's ordering, then by id.
func (q Query) Less(a, b Book) bool {
	ordering := q.Ordering
	if len(ordering) == 0 {
		ordering = DefaultOrdering
	}
	for _, o := range ordering {
		c := 0
		switch o.Field {
		case OrderTitle:
			c = strings.Compare(a.Title, b.Title)
		case OrderPublicationYear:
			c = cmp.Compare(a.PublicationYear, b.PublicationYear)
		}
		if c == 0 {
			continue
		}
		if o.Desc {
			return c > 0
		}
		return c < 0
	}
	return a.ID < b.ID
}
