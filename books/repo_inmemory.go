package books

import (
	"sort"
	"sync"

	apperrors "github.com/dstrand/go-auth-strategies/internal/errors"
)

// InMemoryRepo is a thread-safe in-memory implementation of Repo.
// IDs are assigned sequentially and never reused, even after deletes.
type InMemoryRepo struct {
	mu     sync.RWMutex
	books  map[int]Book
	nextID int
}

var _ Repo = (*InMemoryRepo)(nil)

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		books:  make(map[int]Book),
		nextID: 1,
	}
}

// NewSeededRepo returns a repo pre-populated with a small catalogue,
// so the demo server has something worth guarding.
func NewSeededRepo() *InMemoryRepo {
	repo := NewInMemoryRepo()
	seed := []Book{
		{Title: "The Go Programming Language", Author: "Alan A. A. Donovan", Genre: "Programming"},
		{Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Genre: "Databases"},
		{Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Genre: "Programming"},
		{Title: "Snow Crash", Author: "Neal Stephenson", Genre: "Science Fiction"},
		{Title: "The Name of the Wind", Author: "Patrick Rothfuss", Genre: "Fantasy"},
	}
	for _, book := range seed {
		if _, err := repo.Create(book); err != nil {
			panic(err) // unreachable: in-memory create cannot fail
		}
	}
	return repo
}

func (r *InMemoryRepo) List() ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Book, 0, len(r.books))
	for _, book := range r.books {
		list = append(list, book)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *InMemoryRepo) GetByID(id int) (*Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	book, ok := r.books[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &book, nil
}

func (r *InMemoryRepo) Create(book Book) (*Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book.ID = r.nextID
	r.nextID++
	r.books[book.ID] = book
	return &book, nil
}

func (r *InMemoryRepo) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.books, id)
	return nil
}
