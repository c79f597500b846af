// Package library manages each user's saved-books collection on top of
// the key-value store.
package library

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/entities"
	"github.com/openshelf/openshelf/internal/kvstore"
)

var ErrAlreadyInLibrary = errors.New("book already in library")

const namespaceKind = "library"

// CatalogClient is the subset of the catalog client the library needs
// for metadata refreshes.
type CatalogClient interface {
	GetBook(ctx context.Context, bookID string) (*catalog.Book, error)
}

type Store struct {
	kv      *kvstore.Store
	catalog CatalogClient
}

func NewStore(kv *kvstore.Store, catalog CatalogClient) *Store {
	return &Store{kv: kv, catalog: catalog}
}

// Add saves a book to the user's library. Adding a book that is
// already saved returns ErrAlreadyInLibrary.
func (s *Store) Add(userID uint, entry entities.LibraryEntry) error {
	if entry.BookID == "" {
		return errors.New("book id is required")
	}
	ns := kvstore.Namespace(namespaceKind, userID)

	_, err := s.kv.Get(ns, entry.BookID)
	if err == nil {
		return ErrAlreadyInLibrary
	}
	if !errors.Is(err, kvstore.ErrNotFound) {
		return err
	}

	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now()
	}
	return s.kv.PutJSON(ns, entry.BookID, entry)
}

// Remove drops a book from the user's library. When the last entry is
// removed the whole namespace is dropped so abandoned libraries leave
// no rows behind. Removing an absent book is not an error.
func (s *Store) Remove(userID uint, bookID string) error {
	ns := kvstore.Namespace(namespaceKind, userID)
	if err := s.kv.Delete(ns, bookID); err != nil {
		return err
	}
	n, err := s.kv.Count(ns)
	if err != nil {
		return err
	}
	if n == 0 {
		return s.kv.DeleteNamespace(ns)
	}
	return nil
}

// Contains reports whether a book is in the user's library.
func (s *Store) Contains(userID uint, bookID string) (bool, error) {
	_, err := s.kv.Get(kvstore.Namespace(namespaceKind, userID), bookID)
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns the user's library ordered by the time each book was
// added, oldest first.
func (s *Store) List(userID uint) ([]entities.LibraryEntry, error) {
	recs, err := s.kv.List(kvstore.Namespace(namespaceKind, userID))
	if err != nil {
		return nil, err
	}

	entries := make([]entities.LibraryEntry, 0, len(recs))
	for _, rec := range recs {
		var entry entities.LibraryEntry
		if err := s.kv.GetJSON(rec.Namespace, rec.Key, &entry); err != nil {
			// A corrupt record should not hide the rest of the library.
			log.Printf("Skipping unreadable library entry %s/%s: %v", rec.Namespace, rec.Key, err)
			continue
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AddedAt.Before(entries[j].AddedAt)
	})
	return entries, nil
}

// Refresh re-fetches catalog metadata for every book in the user's
// library and updates stored titles, authors and URLs in place. Books
// the catalog no longer knows are kept as-is.
func (s *Store) Refresh(ctx context.Context, userID uint) error {
	entries, err := s.List(userID)
	if err != nil {
		return err
	}
	ns := kvstore.Namespace(namespaceKind, userID)

	for _, entry := range entries {
		book, err := s.catalog.GetBook(ctx, entry.BookID)
		if errors.Is(err, catalog.ErrBookNotFound) {
			log.Printf("Book %s no longer in catalog, keeping stored metadata", entry.BookID)
			continue
		}
		if err != nil {
			return fmt.Errorf("refresh book %s: %w", entry.BookID, err)
		}

		entry.Title = book.Title
		entry.Author = book.Author()
		entry.CoverURL = book.CoverURL()
		entry.TextURL = book.PlainTextURL()
		if err := s.kv.PutJSON(ns, entry.BookID, entry); err != nil {
			return err
		}
	}
	return nil
}

// EntryFromBook builds a library entry from catalog metadata.
func EntryFromBook(book *catalog.Book) entities.LibraryEntry {
	return entities.LibraryEntry{
		BookID:   book.ID,
		Title:    book.Title,
		Author:   book.Author(),
		CoverURL: book.CoverURL(),
		TextURL:  book.PlainTextURL(),
		AddedAt:  time.Now(),
	}
}
