package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/user/fletnix/internal/model"
	"github.com/user/fletnix/internal/repository"
)

func seedStore(t *testing.T, shows ...model.Show) *repository.MemoryShowStore {
	t.Helper()
	store := repository.NewMemoryShowStore()
	if _, err := store.InsertBatch(context.Background(), shows); err != nil {
		t.Fatalf("InsertBatch() error = %v", err)
	}
	return store
}

func sampleCatalog() []model.Show {
	return []model.Show{
		{ShowID: "s1", Type: "Movie", Title: "Show A", Rating: "R", ListedIn: pq.StringArray{"Dramas"}},
		{ShowID: "s2", Type: "TV Show", Title: "The Office", Rating: "TV-14", ListedIn: pq.StringArray{"TV Comedies"}, Cast: pq.StringArray{"Steve Carell"}},
		{ShowID: "s3", Type: "Movie", Title: "Big", Rating: "PG", ListedIn: pq.StringArray{"Comedies", "Dramas"}, Cast: pq.StringArray{"Tom Hanks"}},
		{ShowID: "s4", Type: "Movie", Title: "Heat", Rating: "R", ListedIn: pq.StringArray{"Action & Adventure", "Dramas"}},
		{ShowID: "s5", Type: "Movie", Title: "Untitled", Rating: "", ListedIn: nil},
	}
}

func titles(shows []model.Show) []string {
	out := make([]string, len(shows))
	for i, s := range shows {
		out[i] = s.Title
	}
	return out
}

func TestListShowsPagination(t *testing.T) {
	var shows []model.Show
	for i := 1; i <= 16; i++ {
		shows = append(shows, model.Show{ShowID: fmt.Sprintf("s%d", i), Type: "Movie", Title: fmt.Sprintf("T%d", i)})
	}
	svc := NewCatalogService(seedStore(t, shows...))
	ctx := context.Background()

	first, err := svc.ListShows(ctx, ListQuery{UserAge: 30, Page: 1})
	if err != nil {
		t.Fatalf("ListShows() error = %v", err)
	}
	if len(first.Shows) != 15 {
		t.Errorf("page 1 len = %d, want 15", len(first.Shows))
	}
	want := Pagination{Page: 1, Limit: 15, Total: 16, Pages: 2}
	if first.Pagination != want {
		t.Errorf("pagination = %+v, want %+v", first.Pagination, want)
	}

	second, err := svc.ListShows(ctx, ListQuery{UserAge: 30, Page: 2})
	if err != nil {
		t.Fatalf("ListShows() error = %v", err)
	}
	if len(second.Shows) != 1 || second.Shows[0].Title != "T16" {
		t.Errorf("page 2 = %v, want [T16]", titles(second.Shows))
	}

	beyond, err := svc.ListShows(ctx, ListQuery{UserAge: 30, Page: 5})
	if err != nil {
		t.Fatalf("ListShows() error = %v", err)
	}
	if beyond.Shows == nil || len(beyond.Shows) != 0 {
		t.Errorf("page 5 shows = %v, want empty non-nil", beyond.Shows)
	}
	if beyond.Pagination.Total != 16 || beyond.Pagination.Pages != 2 {
		t.Errorf("page 5 pagination = %+v", beyond.Pagination)
	}
}

func TestListShowsHugePage(t *testing.T) {
	var shows []model.Show
	for i := 1; i <= 16; i++ {
		shows = append(shows, model.Show{ShowID: fmt.Sprintf("s%d", i), Title: fmt.Sprintf("T%d", i)})
	}
	svc := NewCatalogService(seedStore(t, shows...))

	for _, page := range []int{700000000000000000, maxPage, maxPage + 1, math.MaxInt} {
		list, err := svc.ListShows(context.Background(), ListQuery{UserAge: 30, Page: page})
		if err != nil {
			t.Fatalf("ListShows(page %d) error = %v", page, err)
		}
		if list.Shows == nil || len(list.Shows) != 0 {
			t.Errorf("page %d returned %v, want empty", page, titles(list.Shows))
		}
		want := Pagination{Page: page, Limit: PageSize, Total: 16, Pages: 2}
		if list.Pagination != want {
			t.Errorf("page %d pagination = %+v, want %+v", page, list.Pagination, want)
		}
	}
}

func TestListShowsEmptyCatalog(t *testing.T) {
	svc := NewCatalogService(repository.NewMemoryShowStore())
	list, err := svc.ListShows(context.Background(), ListQuery{UserAge: 30, Page: 1})
	if err != nil {
		t.Fatalf("ListShows() error = %v", err)
	}
	if list.Shows == nil || len(list.Shows) != 0 {
		t.Errorf("shows = %v, want empty", list.Shows)
	}
	if list.Pagination.Total != 0 || list.Pagination.Pages != 0 {
		t.Errorf("pagination = %+v, want zero total and pages", list.Pagination)
	}
}

func TestListShowsInvalidPage(t *testing.T) {
	svc := NewCatalogService(repository.NewMemoryShowStore())
	_, err := svc.ListShows(context.Background(), ListQuery{UserAge: 30, Page: 0})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ListShows(page 0) error = %v, want ErrInvalidInput", err)
	}
}

func TestListShowsFilters(t *testing.T) {
	svc := NewCatalogService(seedStore(t, sampleCatalog()...))
	ctx := context.Background()

	tests := []struct {
		name string
		q    ListQuery
		want []string
	}{
		{"minor hides R", ListQuery{UserAge: 16, Page: 1}, []string{"The Office", "Big", "Untitled"}},
		{"adult sees all", ListQuery{UserAge: 18, Page: 1}, []string{"Show A", "The Office", "Big", "Heat", "Untitled"}},
		{"genre substring", ListQuery{UserAge: 30, Page: 1, Genre: "com"}, []string{"The Office", "Big"}},
		{"search title", ListQuery{UserAge: 30, Page: 1, Search: "office"}, []string{"The Office"}},
		{"search cast", ListQuery{UserAge: 30, Page: 1, Search: "hanks"}, []string{"Big"}},
		{"type filter", ListQuery{UserAge: 30, Page: 1, Type: "TV Show"}, []string{"The Office"}},
		{"unknown type ignored", ListQuery{UserAge: 30, Page: 1, Type: "Podcast"}, []string{"Show A", "The Office", "Big", "Heat", "Untitled"}},
		{"combined filters", ListQuery{UserAge: 16, Page: 1, Type: "Movie", Genre: "drama"}, []string{"Big"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := svc.ListShows(ctx, tt.q)
			if err != nil {
				t.Fatalf("ListShows() error = %v", err)
			}
			got := titles(list.Shows)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("titles = %v, want %v", got, tt.want)
			}
			if list.Pagination.Total != int64(len(tt.want)) {
				t.Errorf("total = %d, want %d", list.Pagination.Total, len(tt.want))
			}
		})
	}
}

func TestGetShow(t *testing.T) {
	svc := NewCatalogService(seedStore(t, sampleCatalog()...))
	ctx := context.Background()

	// 主键
	show, err := svc.GetShow(ctx, 30, "2")
	if err != nil || show.Title != "The Office" {
		t.Fatalf("GetShow(2) = %v, %v", show, err)
	}
	// show_id
	show, err = svc.GetShow(ctx, 30, "s3")
	if err != nil || show.Title != "Big" {
		t.Fatalf("GetShow(s3) = %v, %v", show, err)
	}

	if _, err := svc.GetShow(ctx, 16, "s1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("GetShow(minor, R) error = %v, want ErrForbidden", err)
	}
	if show, err := svc.GetShow(ctx, 21, "s1"); err != nil || show.Title != "Show A" {
		t.Errorf("GetShow(adult, R) = %v, %v", show, err)
	}
	if show, err := svc.GetShow(ctx, 10, "s5"); err != nil || show.Rating != "" {
		t.Errorf("GetShow(minor, unrated) = %v, %v", show, err)
	}

	for _, key := range []string{"999", "nope", "", "  ", "-1"} {
		if _, err := svc.GetShow(ctx, 30, key); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetShow(%q) error = %v, want ErrNotFound", key, err)
		}
	}
}

func TestGetShowPrimaryKeyWins(t *testing.T) {
	// show_id "1" 属于第二条记录，主键 1 优先
	svc := NewCatalogService(seedStore(t,
		model.Show{ShowID: "x1", Title: "Primary"},
		model.Show{ShowID: "1", Title: "ByShowID"},
	))
	show, err := svc.GetShow(context.Background(), 30, "1")
	if err != nil {
		t.Fatalf("GetShow() error = %v", err)
	}
	if show.Title != "Primary" {
		t.Errorf("GetShow(1) = %q, want Primary", show.Title)
	}
}

func TestRecommend(t *testing.T) {
	svc := NewCatalogService(seedStore(t, sampleCatalog()...))
	ctx := context.Background()

	recs, err := svc.Recommend(ctx, 30, "s3")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := strings.Join(titles(recs), "|"); got != "Show A|Heat" {
		t.Errorf("Recommend(adult, s3) = %v, want [Show A Heat]", got)
	}

	recs, err = svc.Recommend(ctx, 16, "s3")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Recommend(minor, s3) = %v, want empty", titles(recs))
	}
	if recs == nil {
		t.Error("Recommend() returned nil slice")
	}

	if _, err := svc.Recommend(ctx, 16, "s4"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Recommend(minor, R target) error = %v, want ErrForbidden", err)
	}
	if _, err := svc.Recommend(ctx, 30, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Recommend(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRecommendLimitAndExclusion(t *testing.T) {
	var shows []model.Show
	for i := 1; i <= 15; i++ {
		shows = append(shows, model.Show{
			ShowID:   fmt.Sprintf("s%d", i),
			Title:    fmt.Sprintf("T%d", i),
			ListedIn: pq.StringArray{"Dramas"},
		})
	}
	shows = append(shows, model.Show{ShowID: "other", Title: "Other", ListedIn: pq.StringArray{"Horror"}})
	svc := NewCatalogService(seedStore(t, shows...))

	recs, err := svc.Recommend(context.Background(), 30, "1")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(recs) != RecommendationLimit {
		t.Fatalf("len = %d, want %d", len(recs), RecommendationLimit)
	}
	for _, r := range recs {
		if r.ID == 1 {
			t.Error("target included in recommendations")
		}
		if r.Title == "Other" {
			t.Error("show without shared genre included")
		}
	}
}

func TestRecommendTargetWithoutGenres(t *testing.T) {
	svc := NewCatalogService(seedStore(t, sampleCatalog()...))
	recs, err := svc.Recommend(context.Background(), 16, "s5")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := strings.Join(titles(recs), "|"); got != "The Office|Big" {
		t.Errorf("Recommend(no genres) = %v, want [The Office Big]", got)
	}
}

type failingStore struct{}

var errStoreDown = errors.New("connection refused")

func (failingStore) Find(context.Context, model.ShowFilter, int, int) ([]model.Show, error) {
	return nil, errStoreDown
}

func (failingStore) Count(context.Context, model.ShowFilter) (int64, error) {
	return 0, errStoreDown
}

func (failingStore) FindByID(context.Context, int) (*model.Show, error) {
	return nil, errStoreDown
}

func (failingStore) FindByShowID(context.Context, string) (*model.Show, error) {
	return nil, errStoreDown
}

func TestStoreFailure(t *testing.T) {
	svc := NewCatalogService(failingStore{})
	ctx := context.Background()

	check := func(name string, err error) {
		t.Helper()
		if !errors.Is(err, errStoreDown) {
			t.Errorf("%s error = %v, want wrapped store error", name, err)
		}
		for _, e := range []error{ErrNotFound, ErrForbidden, ErrInvalidInput} {
			if errors.Is(err, e) {
				t.Errorf("%s error = %v, must not match %v", name, err, e)
			}
		}
	}

	_, err := svc.ListShows(ctx, ListQuery{UserAge: 30, Page: 1})
	check("ListShows", err)
	_, err = svc.GetShow(ctx, 30, "1")
	check("GetShow", err)
	_, err = svc.Recommend(ctx, 30, "s1")
	check("Recommend", err)
}
