package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/user/fletnix/internal/model"
	"golang.org/x/sync/errgroup"
)

const (
	// PageSize 列表每页固定条数
	PageSize = 15
	// RecommendationLimit 推荐结果上限
	RecommendationLimit = 10
)

// maxPage 偏移量不溢出 int 的最大页码
const maxPage = math.MaxInt/PageSize + 1

// ShowStore 节目存储（只读部分）
type ShowStore interface {
	Find(ctx context.Context, f model.ShowFilter, offset, limit int) ([]model.Show, error)
	Count(ctx context.Context, f model.ShowFilter) (int64, error)
	FindByID(ctx context.Context, id int) (*model.Show, error)
	FindByShowID(ctx context.Context, showID string) (*model.Show, error)
}

// ListQuery 列表查询参数
type ListQuery struct {
	UserAge int
	Page    int
	Search  string
	Type    string
	Genre   string
}

// Pagination 分页信息
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// ShowList 列表结果
type ShowList struct {
	Shows      []model.Show `json:"shows"`
	Pagination Pagination   `json:"pagination"`
}

// CatalogService 节目目录服务
type CatalogService struct {
	store ShowStore
}

// NewCatalogService 创建目录服务
func NewCatalogService(store ShowStore) *CatalogService {
	return &CatalogService{store: store}
}

// ListShows 分页查询节目列表
func (s *CatalogService) ListShows(ctx context.Context, q ListQuery) (*ShowList, error) {
	if q.Page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1", ErrInvalidInput)
	}

	filter := BuildShowFilter(q.UserAge, q.Type, q.Genre, q.Search)

	// 页码过大时偏移量会溢出，这样的页一定在末尾之后，只查总数
	pageInRange := q.Page <= maxPage
	offset := 0
	if pageInRange {
		offset = (q.Page - 1) * PageSize
	}

	// 列表和总数并发查询，总数与分页无关
	var (
		shows []model.Show
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	if pageInRange {
		g.Go(func() error {
			var err error
			shows, err = s.store.Find(gctx, filter, offset, PageSize)
			if err != nil {
				return fmt.Errorf("查询节目列表失败: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		var err error
		total, err = s.store.Count(gctx, filter)
		if err != nil {
			return fmt.Errorf("统计节目数量失败: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if shows == nil {
		shows = []model.Show{}
	}

	return &ShowList{
		Shows: shows,
		Pagination: Pagination{
			Page:  q.Page,
			Limit: PageSize,
			Total: total,
			Pages: (total + PageSize - 1) / PageSize,
		},
	}, nil
}

// GetShow 获取节目详情，id 可以是主键或 show_id
func (s *CatalogService) GetShow(ctx context.Context, userAge int, idOrShowID string) (*model.Show, error) {
	show, err := s.resolve(ctx, idOrShowID)
	if err != nil {
		return nil, err
	}
	if IsRestricted(userAge, show.Rating) {
		return nil, ErrForbidden
	}
	return show, nil
}

// Recommend 基于类型重合推荐节目，不排序，最多 RecommendationLimit 条
func (s *CatalogService) Recommend(ctx context.Context, userAge int, idOrShowID string) ([]model.Show, error) {
	show, err := s.GetShow(ctx, userAge, idOrShowID)
	if err != nil {
		return nil, err
	}

	filter := BuildShowFilter(userAge, "", "", "")
	filter.ExcludeID = show.ID
	if len(show.ListedIn) > 0 {
		filter.AnyGenres = show.ListedIn
	}

	shows, err := s.store.Find(ctx, filter, 0, RecommendationLimit)
	if err != nil {
		return nil, fmt.Errorf("查询推荐节目失败: %w", err)
	}
	if shows == nil {
		shows = []model.Show{}
	}
	return shows, nil
}

// resolve 先按主键查找，找不到再按 show_id 查找
func (s *CatalogService) resolve(ctx context.Context, idOrShowID string) (*model.Show, error) {
	key := strings.TrimSpace(idOrShowID)
	if key == "" {
		return nil, ErrNotFound
	}

	if id, err := strconv.Atoi(key); err == nil && id > 0 {
		show, err := s.store.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("按主键查询节目失败: %w", err)
		}
		if show != nil {
			return show, nil
		}
	}

	show, err := s.store.FindByShowID(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("按 show_id 查询节目失败: %w", err)
	}
	if show == nil {
		return nil, ErrNotFound
	}
	return show, nil
}
