package validate

import (
	"strings"
	"testing"
	"time"

	"teacourse_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchool(t *testing.T) {
	assert.NoError(t, School("杭州第一中学"))

	err := School("")
	require.Error(t, err)
	var verr *util.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "school", verr.Field)

	assert.Error(t, School(strings.Repeat("校", 101)))
	assert.NoError(t, School(strings.Repeat("校", 100)))
}

func TestGrade(t *testing.T) {
	assert.NoError(t, Grade("高一"))
	assert.NoError(t, Grade("高二"))

	// 缺失与非法是两种不同的提示
	err := Grade("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "不能为空")

	err = Grade("高三")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "无效的年级")
}

func TestClassNumber(t *testing.T) {
	assert.NoError(t, ClassNumber("3"))
	assert.NoError(t, ClassNumber("12"))
	assert.Error(t, ClassNumber(""))
	assert.Error(t, ClassNumber("三班"))
	assert.Error(t, ClassNumber("3a"))
	assert.Error(t, ClassNumber("-1"))
}

func TestDate(t *testing.T) {
	d, err := Date("2026-04-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC), d)

	_, err = Date("2026/04/12")
	assert.Error(t, err)
	_, err = Date("2026-13-01")
	assert.Error(t, err)
	_, err = Date("")
	assert.Error(t, err)
}

func TestMemberCount(t *testing.T) {
	assert.Error(t, MemberCount(0))
	assert.NoError(t, MemberCount(1))
	assert.NoError(t, MemberCount(10))
	assert.Error(t, MemberCount(11))
	assert.Error(t, MemberCount(-1))
}

func TestMemberName(t *testing.T) {
	assert.NoError(t, MemberName("张三"))
	assert.NoError(t, MemberName("欧阳修2号"))

	assert.Error(t, MemberName(""))
	assert.Error(t, MemberName("Tom"))
	assert.Error(t, MemberName("123"))
	assert.Error(t, MemberName(strings.Repeat("张", 51)))
	assert.NoError(t, MemberName(strings.Repeat("张", 50)))
}

func TestPhotoPayload(t *testing.T) {
	data, err := PhotoPayload("aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	_, err = PhotoPayload("")
	require.Error(t, err)
	var verr *util.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = PhotoPayload("not base64!!!")
	assert.Error(t, err)
}
