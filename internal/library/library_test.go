package library

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/entities"
	"github.com/openshelf/openshelf/internal/kvstore"
)

type fakeCatalog struct {
	books map[string]*catalog.Book
}

func (f *fakeCatalog) GetBook(_ context.Context, bookID string) (*catalog.Book, error) {
	book, ok := f.books[bookID]
	if !ok {
		return nil, catalog.ErrBookNotFound
	}
	return book, nil
}

func newTestStore(t *testing.T) (*Store, *fakeCatalog) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.KVRecord{}))

	fake := &fakeCatalog{books: map[string]*catalog.Book{}}
	return NewStore(kvstore.New(db), fake), fake
}

func entry(bookID, title string, added time.Time) entities.LibraryEntry {
	return entities.LibraryEntry{BookID: bookID, Title: title, AddedAt: added}
}

func TestAddAndList(t *testing.T) {
	store, _ := newTestStore(t)
	now := time.Now()

	require.NoError(t, store.Add(7, entry("1342", "Pride and Prejudice", now)))
	require.NoError(t, store.Add(7, entry("84", "Frankenstein", now.Add(time.Minute))))

	entries, err := store.List(7)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1342", entries[0].BookID)
	assert.Equal(t, "84", entries[1].BookID)
}

func TestAddDuplicate(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Add(7, entry("1342", "Pride and Prejudice", time.Now())))
	err := store.Add(7, entry("1342", "Pride and Prejudice", time.Now()))
	assert.ErrorIs(t, err, ErrAlreadyInLibrary)

	entries, err := store.List(7)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLibrariesArePerUser(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Add(1, entry("1342", "Pride and Prejudice", time.Now())))
	require.NoError(t, store.Add(2, entry("84", "Frankenstein", time.Now())))

	first, err := store.List(1)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "1342", first[0].BookID)

	second, err := store.List(2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "84", second[0].BookID)
}

func TestRemove(t *testing.T) {
	store, _ := newTestStore(t)
	now := time.Now()

	require.NoError(t, store.Add(7, entry("1342", "Pride and Prejudice", now)))
	require.NoError(t, store.Add(7, entry("84", "Frankenstein", now)))
	require.NoError(t, store.Remove(7, "1342"))

	entries, err := store.List(7)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "84", entries[0].BookID)

	// Removing an absent book is a no-op.
	require.NoError(t, store.Remove(7, "missing"))
}

func TestRemoveLastEntryDropsNamespace(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Add(7, entry("1342", "Pride and Prejudice", time.Now())))
	require.NoError(t, store.Remove(7, "1342"))

	entries, err := store.List(7)
	require.NoError(t, err)
	assert.Empty(t, entries)

	ok, err := store.Contains(7, "1342")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRefresh(t *testing.T) {
	store, fake := newTestStore(t)
	require.NoError(t, store.Add(7, entities.LibraryEntry{
		BookID:  "1342",
		Title:   "Stale Title",
		Author:  "Unknown",
		AddedAt: time.Now(),
	}))
	require.NoError(t, store.Add(7, entry("999999", "Gone From Catalog", time.Now())))

	fake.books["1342"] = &catalog.Book{
		ID:      "1342",
		Title:   "Pride and Prejudice",
		Authors: []string{"Austen, Jane"},
		Formats: map[string]string{
			"image/jpeg":                   "https://example.com/cover.jpg",
			"text/plain; charset=us-ascii": "https://example.com/1342.txt",
		},
	}

	require.NoError(t, store.Refresh(context.Background(), 7))

	entries, err := store.List(7)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Pride and Prejudice", entries[0].Title)
	assert.Equal(t, "Austen, Jane", entries[0].Author)
	assert.Equal(t, "https://example.com/1342.txt", entries[0].TextURL)
	// Books the catalog dropped keep their stored metadata.
	assert.Equal(t, "Gone From Catalog", entries[1].Title)
}
