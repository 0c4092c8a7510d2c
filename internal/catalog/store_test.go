package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/models"
)

func ptr[T any](v T) *T { return &v }

func book(id int, cat models.Category) models.Book {
	return models.Book{ID: id, Title: "t", Author: "a", Price: 100, Category: cat, Rating: 4}
}

func validDraft() Draft {
	return Draft{
		Title:    ptr("Siddhartha"),
		Author:   ptr("Hermann Hesse"),
		Price:    ptr(int64(290)),
		Category: ptr("Novels & Fiction"),
		Rating:   ptr(4.5),
	}
}

func TestStore_Create_AssignsMaxPlusOneAndPrepends(t *testing.T) {
	s, err := NewStore([]models.Book{book(5, "Poem"), book(2, "Poem")})
	require.NoError(t, err)

	b, err := s.Create(validDraft())
	require.NoError(t, err)
	assert.Equal(t, 6, b.ID)

	list := s.List("")
	require.Len(t, list, 3)
	assert.Equal(t, 6, list[0].ID)
}

func TestStore_Create_EmptyCatalogStartsAtOne(t *testing.T) {
	s, err := NewStore(nil)
	require.NoError(t, err)

	b, err := s.Create(validDraft())
	require.NoError(t, err)
	assert.Equal(t, 1, b.ID)

	b2, err := s.Create(validDraft())
	require.NoError(t, err)
	assert.Greater(t, b2.ID, b.ID)
}

func TestStore_Create_Validation(t *testing.T) {
	s, err := NewStore(nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		edit  func(d *Draft)
		field string
	}{
		{name: "missing title", edit: func(d *Draft) { d.Title = nil }, field: "title"},
		{name: "blank author", edit: func(d *Draft) { d.Author = ptr("  ") }, field: "author"},
		{name: "negative price", edit: func(d *Draft) { d.Price = ptr(int64(-1)) }, field: "price"},
		{name: "free text category", edit: func(d *Draft) { d.Category = ptr("Cookbooks") }, field: "category"},
		{name: "all is not a category", edit: func(d *Draft) { d.Category = ptr(models.CategoryAll) }, field: "category"},
		{name: "rating above five", edit: func(d *Draft) { d.Rating = ptr(5.5) }, field: "rating"},
		{name: "negative original price", edit: func(d *Draft) { d.OriginalPrice = ptr(int64(-5)) }, field: "original_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.edit(&d)
			_, err := s.Create(d)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tt.field, domain.FieldOf(err))
		})
	}
	assert.Equal(t, 0, s.Len())
}

func TestStore_Update(t *testing.T) {
	s, err := NewStore([]models.Book{book(1, "Poem")})
	require.NoError(t, err)

	b := book(1, "Poem")
	b.Title = "new"
	_, err = s.Update(b)
	require.NoError(t, err)

	got, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)

	_, err = s.Update(book(42, "Poem"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, s.Len())
}

func TestStore_Delete(t *testing.T) {
	s, err := NewStore([]models.Book{book(1, "Poem"), book(2, "Poem")})
	require.NoError(t, err)

	require.NoError(t, s.Delete(1))
	assert.False(t, s.Exists(1))
	assert.ErrorIs(t, s.Delete(1), domain.ErrNotFound)
}

func TestStore_ListAndRelated(t *testing.T) {
	s, err := NewStore([]models.Book{
		book(1, "Poem"), book(2, "Comics & Manga"), book(3, "Poem"), book(4, "Poem"),
	})
	require.NoError(t, err)

	assert.Len(t, s.List(models.CategoryAll), 4)
	assert.Len(t, s.List("Poem"), 3)
	assert.Empty(t, s.List("Magazines"))

	related := s.Related(1, 1)
	require.Len(t, related, 1)
	assert.Equal(t, 3, related[0].ID)
	assert.Nil(t, s.Related(99, 3))

	assert.Len(t, s.Featured(2), 2)
	assert.Len(t, s.Featured(10), 4)
}

func TestStore_ReturnsCopies(t *testing.T) {
	b := book(1, "Poem")
	b.PreviewPages = []string{"p1"}
	s, err := NewStore([]models.Book{b})
	require.NoError(t, err)

	got, _ := s.Get(1)
	got.PreviewPages[0] = "mutated"

	again, _ := s.Get(1)
	assert.Equal(t, "p1", again.PreviewPages[0])
}

func TestNewStore_RejectsDuplicates(t *testing.T) {
	_, err := NewStore([]models.Book{book(1, "Poem"), book(1, "Poem")})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

type recordingPublisher struct{ events []map[string]any }

func (p *recordingPublisher) Publish(_ context.Context, _, _ string, event any) error {
	p.events = append(p.events, event.(map[string]any))
	return nil
}

type recordingIndex struct {
	indexed []int
	deleted []int
}

func (r *recordingIndex) IndexBook(_ context.Context, b models.Book) error {
	r.indexed = append(r.indexed, b.ID)
	return nil
}

func (r *recordingIndex) DeleteBook(_ context.Context, id int) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func TestService_FansOutMutations(t *testing.T) {
	store, err := NewStore([]models.Book{book(1, "Poem")})
	require.NoError(t, err)
	pub := &recordingPublisher{}
	idx := &recordingIndex{}
	svc := &Service{Store: store, Publisher: pub, Index: idx}
	ctx := context.Background()

	created, err := svc.Create(ctx, validDraft())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, Draft{Price: ptr(int64(10))})
	require.NoError(t, err)
	assert.EqualValues(t, 10, updated.Price)
	assert.Equal(t, "Siddhartha", updated.Title)

	require.NoError(t, svc.Delete(ctx, 1))

	require.Len(t, pub.events, 3)
	assert.Equal(t, "book_created", pub.events[0]["type"])
	assert.Equal(t, "book_updated", pub.events[1]["type"])
	assert.Equal(t, "book_deleted", pub.events[2]["type"])
	assert.Equal(t, []int{2, 2}, idx.indexed)
	assert.Equal(t, []int{1}, idx.deleted)
}

func TestService_UpdateUnknownID(t *testing.T) {
	store, err := NewStore(nil)
	require.NoError(t, err)
	svc := &Service{Store: store}

	_, err = svc.Update(context.Background(), 7, validDraft())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_UpdateClearsOriginalPrice(t *testing.T) {
	b := book(1, "Poem")
	b.OriginalPrice = ptr(int64(150))
	store, err := NewStore([]models.Book{b})
	require.NoError(t, err)
	svc := &Service{Store: store}
	ctx := context.Background()

	kept, err := svc.Update(ctx, 1, Draft{Price: ptr(int64(90))})
	require.NoError(t, err)
	require.NotNil(t, kept.OriginalPrice)
	assert.EqualValues(t, 150, *kept.OriginalPrice)

	cleared, err := svc.Update(ctx, 1, Draft{ClearOriginalPrice: true, OriginalPrice: ptr(int64(200))})
	require.NoError(t, err)
	assert.Nil(t, cleared.OriginalPrice)
	assert.EqualValues(t, 90, cleared.Price)
}
