package model

import "strings"

// ShowFilter 节目查询条件，所有非零字段之间为 AND 关系
type ShowFilter struct {
	ExcludeRating string   // 排除该分级（为空不限制）
	Type          string   // 精确匹配类型
	Genre         string   // listed_in 任一项包含该子串（忽略大小写）
	Search        string   // 标题或任一演员包含该子串（忽略大小写）
	ExcludeID     int      // 排除该主键
	AnyGenres     []string // listed_in 与其至少有一项完全相同
}

// Match 在内存中判断节目是否满足条件
func (f ShowFilter) Match(s *Show) bool {
	if f.ExcludeRating != "" && s.Rating == f.ExcludeRating {
		return false
	}
	if f.Type != "" && s.Type != f.Type {
		return false
	}
	if f.ExcludeID != 0 && s.ID == f.ExcludeID {
		return false
	}
	if f.Genre != "" && !anyContainsFold(s.ListedIn, f.Genre) {
		return false
	}
	if f.Search != "" && !containsFold(s.Title, f.Search) && !anyContainsFold(s.Cast, f.Search) {
		return false
	}
	if len(f.AnyGenres) > 0 && !sharesAny(s.ListedIn, f.AnyGenres) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func anyContainsFold(list []string, sub string) bool {
	for _, v := range list {
		if containsFold(v, sub) {
			return true
		}
	}
	return false
}

func sharesAny(list, wanted []string) bool {
	for _, v := range list {
		for _, w := range wanted {
			if v == w {
				return true
			}
		}
	}
	return false
}
