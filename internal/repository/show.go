package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/user/fletnix/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShowRepository 节目仓库（PostgreSQL）
type ShowRepository struct {
	db *gorm.DB
}

func NewShowRepository(db *gorm.DB) *ShowRepository {
	return &ShowRepository{db: db}
}

// Find 按条件分页查询，按主键升序保证翻页稳定
func (r *ShowRepository) Find(ctx context.Context, f model.ShowFilter, offset, limit int) ([]model.Show, error) {
	var shows []model.Show
	err := pageQuery(r.db.WithContext(ctx), f, offset, limit).Find(&shows).Error
	return shows, err
}

// Count 统计满足条件的节目数量
func (r *ShowRepository) Count(ctx context.Context, f model.ShowFilter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Show{}).Scopes(filterScope(f)).Count(&count).Error
	return count, err
}

// FindByID 根据主键查找节目
func (r *ShowRepository) FindByID(ctx context.Context, id int) (*model.Show, error) {
	var show model.Show
	err := r.db.WithContext(ctx).First(&show, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &show, nil
}

// FindByShowID 根据数据集 show_id 查找节目
func (r *ShowRepository) FindByShowID(ctx context.Context, showID string) (*model.Show, error) {
	var show model.Show
	err := r.db.WithContext(ctx).Where("show_id = ?", showID).First(&show).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &show, nil
}

// InsertBatch 批量插入，show_id 冲突的记录直接跳过
func (r *ShowRepository) InsertBatch(ctx context.Context, shows []model.Show) (int64, error) {
	if len(shows) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "show_id"}},
			DoNothing: true,
		}).
		Create(&shows)
	return result.RowsAffected, result.Error
}

func pageQuery(tx *gorm.DB, f model.ShowFilter, offset, limit int) *gorm.DB {
	return tx.Model(&model.Show{}).
		Scopes(filterScope(f)).
		Order("id ASC").
		Offset(offset).
		Limit(limit)
}

// filterScope 把 ShowFilter 转换为 SQL 条件
func filterScope(f model.ShowFilter) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if f.ExcludeRating != "" {
			tx = tx.Where("(rating IS NULL OR rating <> ?)", f.ExcludeRating)
		}
		if f.Type != "" {
			tx = tx.Where("type = ?", f.Type)
		}
		if f.ExcludeID != 0 {
			tx = tx.Where("id <> ?", f.ExcludeID)
		}
		if f.Genre != "" {
			tx = tx.Where("EXISTS (SELECT 1 FROM unnest(listed_in) AS g WHERE g ILIKE ?)", likePattern(f.Genre))
		}
		if f.Search != "" {
			p := likePattern(f.Search)
			tx = tx.Where("(title ILIKE ? OR EXISTS (SELECT 1 FROM unnest(cast_members) AS c WHERE c ILIKE ?))", p, p)
		}
		if len(f.AnyGenres) > 0 {
			tx = tx.Where("listed_in && ?", pq.StringArray(f.AnyGenres))
		}
		return tx
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern 生成包含匹配的 LIKE 模式，用户输入按字面量处理
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
