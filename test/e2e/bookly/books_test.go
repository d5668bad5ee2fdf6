package bookly_test

import (
	"testing"

	"github.com/aussiebroadwan/bookly/pkg/booklysdk"
	"github.com/stretchr/testify/require"
)

func TestBookLifecycle(t *testing.T) {
	a := setupApp(t, nil)
	ctx := t.Context()

	ada := a.verifiedUser(t, "ada@example.com")
	bob := a.verifiedUser(t, "bob@example.com")

	book, err := ada.CreateBook(ctx, booklysdk.BookCreateRequest{
		Title:         "Sketch of the Analytical Engine",
		Author:        "L. F. Menabrea",
		Publisher:     "Taylor",
		PublishedDate: "1843-10-01",
		PageCount:     66,
		Language:      "en",
	})
	require.NoError(t, err)
	require.Equal(t, ada.User().UID, book.UserUID)

	review, err := bob.CreateReview(ctx, book.UID, booklysdk.ReviewCreateRequest{Rating: 5, ReviewText: "Visionary"})
	require.NoError(t, err)

	err = ada.DeleteReview(ctx, review.UID)
	requireAPIError(t, err, booklysdk.ErrorCodeForbidden)

	detail, err := ada.AddTagsToBook(ctx, book.UID, "computing", "history")
	require.NoError(t, err)
	require.Len(t, detail.Tags, 2)
	require.Len(t, detail.Reviews, 1)

	books, err := bob.ListUserBooks(ctx, ada.User().UID)
	require.NoError(t, err)
	require.Len(t, books, 1)

	require.NoError(t, ada.DeleteBook(ctx, book.UID))

	_, err = bob.GetBook(ctx, book.UID)
	requireAPIError(t, err, booklysdk.ErrorCodeBookNotFound)

	_, err = bob.GetReview(ctx, review.UID)
	requireAPIError(t, err, booklysdk.ErrorCodeReviewNotFound)
}
