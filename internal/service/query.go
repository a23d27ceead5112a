package service

import (
	"strings"

	"github.com/user/fletnix/internal/model"
)

// BuildShowFilter 根据用户年龄和查询参数构建节目过滤条件
// 空参数和非法类型不产生任何约束
func BuildShowFilter(userAge int, showType, genre, search string) model.ShowFilter {
	var f model.ShowFilter

	// 年龄限制：未成年隐藏 R 级
	if userAge < AdultAge {
		f.ExcludeRating = RestrictedRating
	}

	if model.IsValidShowType(showType) {
		f.Type = showType
	}

	f.Genre = strings.TrimSpace(genre)
	f.Search = strings.TrimSpace(search)

	return f
}
