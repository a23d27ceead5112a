package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/user/fletnix/internal/model"
)

// DefaultImportBatchSize 每批插入条数
const DefaultImportBatchSize = 1000

// ShowWriter 导入所需的存储能力
type ShowWriter interface {
	Count(ctx context.Context, f model.ShowFilter) (int64, error)
	InsertBatch(ctx context.Context, shows []model.Show) (int64, error)
}

// ImportResult 导入结果
type ImportResult struct {
	Parsed   int   `json:"parsed"`
	Inserted int64 `json:"inserted"`
	Skipped  int   `json:"skipped"` // 缺少 show_id 的行
	Batches  int   `json:"batches"`
}

// Importer CSV 节目导入器
type Importer struct {
	store     ShowWriter
	batchSize int
}

// NewImporter 创建导入器
func NewImporter(store ShowWriter) *Importer {
	return &Importer{store: store, batchSize: DefaultImportBatchSize}
}

// SeedIfEmpty 仓库为空时从 CSV 文件导入
func (i *Importer) SeedIfEmpty(ctx context.Context, path string) (*ImportResult, error) {
	count, err := i.store.Count(ctx, model.ShowFilter{})
	if err != nil {
		return nil, fmt.Errorf("统计节目数量失败: %w", err)
	}
	if count > 0 {
		log.Info().Int64("count", count).Msg("数据库已有节目数据，跳过导入")
		return &ImportResult{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("CSV 文件不存在: %s: %w", path, err)
	}
	defer f.Close()

	log.Info().Str("path", path).Msg("开始从 CSV 导入节目")
	return i.Import(ctx, f)
}

// Import 解析 CSV 并分批写入
func (i *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &ImportResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取 CSV 表头失败: %w", err)
	}
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = idx
	}
	if _, ok := columns["show_id"]; !ok {
		return nil, fmt.Errorf("%w: CSV 缺少 show_id 列", ErrInvalidInput)
	}

	result := &ImportResult{}
	batch := make([]model.Show, 0, i.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := i.store.InsertBatch(ctx, batch)
		if err != nil {
			return fmt.Errorf("批量插入节目失败: %w", err)
		}
		result.Inserted += n
		result.Batches++
		log.Info().Int("batch", result.Batches).Int64("inserted", n).Msg("已插入一批节目")
		batch = batch[:0]
		return nil
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("解析 CSV 失败: %w", err)
		}
		if isBlankRecord(record) {
			continue
		}

		get := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		show, ok := recordToShow(get)
		if !ok {
			result.Skipped++
			continue
		}
		result.Parsed++
		batch = append(batch, show)

		if len(batch) >= i.batchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	log.Info().
		Int("parsed", result.Parsed).
		Int64("inserted", result.Inserted).
		Int("skipped", result.Skipped).
		Msg("节目导入完成")
	return result, nil
}

// recordToShow 把一行 CSV 转换为节目，缺少 show_id 时返回 false
func recordToShow(get func(string) string) (model.Show, bool) {
	showID := get("show_id")
	if showID == "" {
		return model.Show{}, false
	}

	showType := get("type")
	if !model.IsValidShowType(showType) {
		showType = model.ShowTypeMovie
	}
	year, err := strconv.Atoi(get("release_year"))
	if err != nil {
		year = 0
	}

	return model.Show{
		ShowID:      showID,
		Type:        showType,
		Title:       get("title"),
		Director:    get("director"),
		Cast:        splitList(get("cast")),
		Country:     get("country"),
		DateAdded:   get("date_added"),
		ReleaseYear: year,
		Rating:      get("rating"),
		Duration:    get("duration"),
		ListedIn:    splitList(get("listed_in")),
		Description: get("description"),
	}, true
}

// splitList 逗号分隔并去掉空项
func splitList(s string) pq.StringArray {
	out := pq.StringArray{}
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
