package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBatchResult_AddAndFinalize(t *testing.T) {
	var b BatchResult
	b.Add(Record{SubjectID: "1", Category: CategoryMovies})
	b.Add(Record{SubjectID: "2", Category: CategoryTV})
	b.Add(Record{SubjectID: "3", Category: CategoryDocumentary})
	b.Add(Record{SubjectID: "4", Category: CategoryBooks})
	b.Add(Record{SubjectID: "5"}) // 未知分类回退 movies
	b.Failures = append(b.Failures, ItemFailure{ID: "6", ErrorCode: ErrCodeFetchFailed})

	b.Finalize()
	require.Equal(t, 5, b.Succeeded)
	require.Equal(t, 1, b.Failed)
	require.Equal(t, 6, b.Total)
	require.Len(t, b.Movies, 2)
	require.Len(t, b.TV, 1)
	require.Len(t, b.Documentaries, 1)
	require.Len(t, b.Books, 1)

	// Finalize 幂等。
	b.Finalize()
	require.Equal(t, 6, b.Total)
}

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"books", CategoryBooks, true},
		{"MOVIES", CategoryMovies, true},
		{" tv ", CategoryTV, true},
		{"documentary", CategoryDocumentary, true},
		{"music", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseCategory(tc.in)
		require.Equal(t, tc.ok, ok, "输入 %q", tc.in)
		require.Equal(t, tc.want, got, "输入 %q", tc.in)
	}
}

func TestCategory_DomainClass(t *testing.T) {
	require.Equal(t, DomainBook, CategoryBooks.DomainClass())
	require.Equal(t, DomainMovie, CategoryMovies.DomainClass())
	require.Equal(t, DomainMovie, CategoryTV.DomainClass())
	require.Equal(t, DomainMovie, CategoryDocumentary.DomainClass())
}
