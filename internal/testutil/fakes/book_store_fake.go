package fakes

import (
	"context"
	"sort"
	"sync"

	"github.com/dhima/bookshelf-api/internal/models"
	"github.com/dhima/bookshelf-api/internal/storage"
)

// FakeBookStore is an in-memory implementation of the BookStore interface.
// Ids are assigned monotonically and never reused, like an autoincrement key.
type FakeBookStore struct {
	mu     sync.Mutex
	books  map[int64]models.Book
	nextID int64

	// Err, when set, is returned by every operation.
	Err error
	// Calls counts store operations, so tests can assert that none happened.
	Calls int
}

func NewFakeBookStore() *FakeBookStore {
	return &FakeBookStore{
		books:  make(map[int64]models.Book),
		nextID: 1,
	}
}

func (f *FakeBookStore) InsertBook(_ context.Context, title, author string, publicationYear int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return 0, f.Err
	}
	id := f.nextID
	f.nextID++
	f.books[id] = models.Book{ID: id, Title: title, Author: author, PublicationYear: publicationYear}
	return id, nil
}

func (f *FakeBookStore) ListBooks(_ context.Context) ([]models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	list := make([]models.Book, 0, len(f.books))
	for _, b := range f.books {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (f *FakeBookStore) GetBook(_ context.Context, id int64) (*models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	b, ok := f.books[id]
	if !ok {
		return nil, storage.ErrBookNotFound
	}
	return &b, nil
}

func (f *FakeBookStore) UpdateBook(_ context.Context, id int64, title, author string, publicationYear int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return false, f.Err
	}
	if _, ok := f.books[id]; !ok {
		return false, nil
	}
	f.books[id] = models.Book{ID: id, Title: title, Author: author, PublicationYear: publicationYear}
	return true, nil
}

func (f *FakeBookStore) DeleteBook(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return false, f.Err
	}
	if _, ok := f.books[id]; !ok {
		return false, nil
	}
	delete(f.books, id)
	return true, nil
}

func (f *FakeBookStore) CountBooks(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return 0, f.Err
	}
	return int64(len(f.books)), nil
}

// Len returns the number of stored books without counting as a call.
func (f *FakeBookStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.books)
}
