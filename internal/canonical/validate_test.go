package canonical

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/John-Robertt/DBMC/internal/domain"
)

func TestValidateSelectField_Idempotent(t *testing.T) {
	// 规范值必须映射到自身：二次应用结果不变。
	for _, s := range screenStatuses {
		got, ok := validateSelectField(domain.CategoryMovies, s)
		require.True(t, ok)
		require.Equal(t, s, got)

		again, ok := validateSelectField(domain.CategoryMovies, got)
		require.True(t, ok)
		require.Equal(t, got, again)
	}
	for _, s := range bookStatuses {
		got, ok := validateSelectField(domain.CategoryBooks, s)
		require.True(t, ok)
		require.Equal(t, s, got)
	}
}

func TestValidateSelectField_Aliases(t *testing.T) {
	cases := []struct {
		category domain.Category
		in       string
		want     string
		ok       bool
	}{
		{domain.CategoryMovies, "wish", "想看", true},
		{domain.CategoryMovies, "do", "在看", true},
		{domain.CategoryMovies, "collect", "看过", true},
		{domain.CategoryMovies, "COLLECT", "看过", true}, // 别名大小写不敏感
		{domain.CategoryTV, "看過", "看过", true},
		{domain.CategoryDocumentary, "watching", "在看", true},
		{domain.CategoryBooks, "wish", "想读", true},
		{domain.CategoryBooks, "讀過", "读过", true},
		{domain.CategoryBooks, "read", "读过", true},

		// 词表外的值一律拒绝（置空由调用方负责）。
		{domain.CategoryBooks, "finished reading", "", false},
		{domain.CategoryMovies, "想读", "", false}, // 图书词表的值不能混进影视
		{domain.CategoryBooks, "看过", "", false},
		{domain.CategoryMovies, "", "", false},
		{domain.CategoryMovies, "  ", "", false},
	}

	for _, tc := range cases {
		got, ok := validateSelectField(tc.category, tc.in)
		require.Equal(t, tc.ok, ok, "输入 %q（%s）", tc.in, tc.category)
		require.Equal(t, tc.want, got, "输入 %q（%s）", tc.in, tc.category)
	}
}

func TestValidateRatingField_Total(t *testing.T) {
	// 全函数：任何输入都有确定结果，不 panic。
	cases := []struct {
		in   any
		want int
		ok   bool
	}{
		{1, 1, true},
		{5, 5, true},
		{int64(3), 3, true},
		{float64(4), 4, true},
		{"4", 4, true},
		{" 2 ", 2, true},

		{0, 0, false},
		{6, 0, false},
		{-1, 0, false},
		{3.5, 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{nil, 0, false},
		{map[string]any{"value": 4}, 0, false},
		{[]any{4}, 0, false},
		{true, 0, false},
	}

	for _, tc := range cases {
		got, ok := validateRatingField(tc.in)
		require.Equal(t, tc.ok, ok, "输入 %v", tc.in)
		require.Equal(t, tc.want, got, "输入 %v", tc.in)
	}
}

func TestValidateDateField(t *testing.T) {
	cases := []struct {
		in   any
		want string
		ok   bool
	}{
		{"2023-05-01", "2023-05-01", true},
		{" 2023-05-01 ", "2023-05-01", true},

		// 必须补零、分隔符固定、且是真实历法日期。
		{"2023-5-1", "", false},
		{"2023/05/01", "", false},
		{"2023-02-30", "", false},
		{"2023-13-01", "", false},
		{"05-01-2023", "", false},
		{"", "", false},
		{nil, "", false},
		{20230501, "", false},
	}

	for _, tc := range cases {
		got, ok := validateDateField(tc.in)
		require.Equal(t, tc.ok, ok, "输入 %v", tc.in)
		require.Equal(t, tc.want, got, "输入 %v", tc.in)
	}
}
