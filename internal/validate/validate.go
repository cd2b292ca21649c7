// Package validate 提交字段的领域校验，纯函数，不触碰存储
package validate

import (
	"encoding/base64"
	"fmt"
	"time"
	"unicode"

	"teacourse_backend/internal/model"
	"teacourse_backend/internal/util"
)

// 有效年级的封闭集合
var validGrades = []string{"高一", "高二"}

// School 学校名称：非空且不超过100字符
func School(school string) error {
	if school == "" {
		return util.NewValidationError("school", "学校名称不能为空")
	}
	if len([]rune(school)) > 100 {
		return util.NewValidationError("school", "学校名称过长")
	}
	return nil
}

// Grade 年级必须属于固定集合，缺失与非法给出可区分的原因
func Grade(grade string) error {
	if grade == "" {
		return util.NewValidationError("grade", "年级不能为空")
	}
	for _, g := range validGrades {
		if grade == g {
			return nil
		}
	}
	return util.NewValidationError("grade", fmt.Sprintf("无效的年级: %s", grade))
}

// ClassNumber 班级号：非空且只含数字
func ClassNumber(classNumber string) error {
	if classNumber == "" {
		return util.NewValidationError("classNumber", "班级号不能为空")
	}
	for _, r := range classNumber {
		if r < '0' || r > '9' {
			return util.NewValidationError("classNumber", "班级号只能包含数字")
		}
	}
	return nil
}

// Date 活动日期必须是 YYYY-MM-DD 格式的合法日期
func Date(dateStr string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, dateStr)
	if err != nil {
		return time.Time{}, util.NewValidationError("date", fmt.Sprintf("无效的日期格式: %s", dateStr))
	}
	return d, nil
}

// MemberCount 成员人数在 [1, 10] 之间
func MemberCount(count int) error {
	if count < 1 || count > 10 {
		return util.NewValidationError("memberCount", "成员人数必须在1到10之间")
	}
	return nil
}

// MemberName 成员姓名：非空、不超过50字符、至少包含一个汉字
func MemberName(name string) error {
	if name == "" {
		return util.NewValidationError("memberName", "成员姓名不能为空")
	}
	if len([]rune(name)) > 50 {
		return util.NewValidationError("memberName", fmt.Sprintf("成员姓名过长: %s", name))
	}
	for _, r := range name {
		if unicode.Is(unicode.Han, r) {
			return nil
		}
	}
	return util.NewValidationError("memberName", fmt.Sprintf("成员姓名必须包含汉字: %s", name))
}

// PhotoPayload Base64 照片数据，解码失败判为无效
func PhotoPayload(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, util.NewValidationError("photo", "照片数据为空")
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, util.NewValidationError("photo", "照片数据不是有效的Base64编码")
	}
	return data, nil
}
