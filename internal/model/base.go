package model

import (
	"time"
)

// DateLayout 活动日期的统一格式
const DateLayout = "2006-01-02"

// FormatDate 输出 YYYY-MM-DD，零值返回空串
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatDateTime 输出 YYYY-MM-DD HH:MM:SS，零值返回空串
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
