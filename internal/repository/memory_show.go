package repository

import (
	"context"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/user/fletnix/internal/model"
)

// MemoryShowStore 内存节目仓库，用于测试和导入预演（dry-run）
type MemoryShowStore struct {
	mu     sync.RWMutex
	shows  []model.Show // 按 ID 升序
	byKey  map[string]int
	nextID int
}

func NewMemoryShowStore() *MemoryShowStore {
	return &MemoryShowStore{
		byKey:  make(map[string]int),
		nextID: 1,
	}
}

// Find 按条件分页查询
func (s *MemoryShowStore) Find(ctx context.Context, f model.ShowFilter, offset, limit int) ([]model.Show, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Show, 0, limit)
	skipped := 0
	for i := range s.shows {
		if !f.Match(&s.shows[i]) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, cloneShow(s.shows[i]))
	}
	return out, nil
}

// Count 统计满足条件的节目数量
func (s *MemoryShowStore) Count(ctx context.Context, f model.ShowFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for i := range s.shows {
		if f.Match(&s.shows[i]) {
			n++
		}
	}
	return n, nil
}

// FindByID 根据主键查找节目
func (s *MemoryShowStore) FindByID(ctx context.Context, id int) (*model.Show, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findLocked(id), nil
}

// FindByShowID 根据数据集 show_id 查找节目
func (s *MemoryShowStore) FindByShowID(ctx context.Context, showID string) (*model.Show, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byKey[showID]
	if !ok {
		return nil, nil
	}
	return s.findLocked(id), nil
}

// InsertBatch 批量插入，show_id 重复的记录跳过
func (s *MemoryShowStore) InsertBatch(ctx context.Context, shows []model.Show) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var inserted int64
	for _, show := range shows {
		if _, exists := s.byKey[show.ShowID]; exists {
			continue
		}
		show = cloneShow(show)
		show.ID = s.nextID
		show.CreatedAt = now
		show.UpdatedAt = now
		s.nextID++
		s.byKey[show.ShowID] = show.ID
		s.shows = append(s.shows, show)
		inserted++
	}
	return inserted, nil
}

func (s *MemoryShowStore) findLocked(id int) *model.Show {
	for i := range s.shows {
		if s.shows[i].ID == id {
			show := cloneShow(s.shows[i])
			return &show
		}
	}
	return nil
}

// cloneShow 复制切片字段，避免调用方修改仓库内数据
func cloneShow(s model.Show) model.Show {
	if s.Cast != nil {
		s.Cast = append(pq.StringArray{}, s.Cast...)
	}
	if s.ListedIn != nil {
		s.ListedIn = append(pq.StringArray{}, s.ListedIn...)
	}
	return s
}
