package service

// 年龄限制
const (
	AdultAge         = 18
	RestrictedRating = "R"
)

// IsRestricted 未成年用户不能观看 R 级内容
func IsRestricted(userAge int, rating string) bool {
	return userAge < AdultAge && rating == RestrictedRating
}
