package service

import (
	"testing"

	"go.uber.org/zap"
)

func TestCatalogSheetParser_Fields(t *testing.T) {
	rows := [][]string{
		{"전필", "공과대학", "컴퓨터공학부", "학사", "3", "4190.310", "001",
			"운영체제", "", "3", "김교수", "월(10:00~11:50)/수(10:00~11:50)", "301-101/ 301-102 "},
		{"전선", "자연과학대학", "null", "석사", "", "3341.501", "002",
			"특강", "머신러닝", "x", "이교수", "", ""},
		{"교양", "인문대학", "nullnull", "박사", "1", "0001", "003",
			"세미나", "", "-2", "", "목(18:30~21:00)", ""},
	}
	p := NewCatalogSheetParser(zap.NewNop())

	result, err := p.Parse(buildWorkbook(t, testHeader, rows), 2025, 1)
	if err != nil {
		t.Fatalf("Parse 应成功: %v", err)
	}
	if !result.HeaderFound {
		t.Fatal("应找到表头")
	}
	if len(result.Courses) != 3 {
		t.Fatalf("期望 3 行，实际 %d", len(result.Courses))
	}

	osCourse := result.Courses[0]
	if osCourse.Course.CourseNumber != "4190.310" || osCourse.Course.SectionNumber != "001" || osCourse.Course.Title != "운영체제" {
		t.Errorf("基础字段错误: %+v", osCourse.Course)
	}
	if osCourse.Course.Department != "컴퓨터공학부" || osCourse.Course.AcademicYear != "3" {
		t.Errorf("学士课程学院/学年错误: %q %q", osCourse.Course.Department, osCourse.Course.AcademicYear)
	}
	if osCourse.Course.Subtitle != nil {
		t.Error("空副标题应为 nil")
	}
	if len(osCourse.Slots) != 2 {
		t.Fatalf("期望 2 个时段，实际 %d", len(osCourse.Slots))
	}
	if osCourse.Slots[1].Day != 2 || osCourse.Slots[1].Location == nil || *osCourse.Slots[1].Location != "301-102" {
		t.Errorf("第二个时段错误: %+v", osCourse.Slots[1])
	}

	special := result.Courses[1]
	if special.Course.Department != "자연과학대학" {
		t.Errorf("学科为 null 时应回退为学院，实际 %q", special.Course.Department)
	}
	if special.Course.AcademicYear != "석사" {
		t.Errorf("非学士课程学年应为이수과정，实际 %q", special.Course.AcademicYear)
	}
	if special.Course.Subtitle == nil || *special.Course.Subtitle != "머신러닝" {
		t.Error("副标题解析错误")
	}
	if special.Course.Credit != 0 || len(special.Slots) != 0 {
		t.Errorf("非法学分应为 0 且无时段: %+v", special)
	}

	seminar := result.Courses[2]
	if seminar.Course.Department != "인문대학" {
		t.Errorf("学科全部为 null 时应回退为学院，实际 %q", seminar.Course.Department)
	}
	if seminar.Course.Credit != 0 {
		t.Errorf("负学分应为 0，实际 %d", seminar.Course.Credit)
	}
	if len(seminar.Slots) != 1 || seminar.Slots[0].Start != 18*60+30 || seminar.Slots[0].End != 21*60 {
		t.Errorf("夜间时段错误: %+v", seminar.Slots)
	}
}

func TestCatalogSheetParser_ColumnOrderIndependent(t *testing.T) {
	header := []string{"교과목번호", "교과목명", "학점", "수업교시"}
	rows := [][]string{{"M1", "수학", "2", "금(09:00~10:00)"}}
	p := NewCatalogSheetParser(zap.NewNop())

	result, err := p.Parse(buildWorkbook(t, header, rows), 2024, 3)
	if err != nil {
		t.Fatalf("Parse 应成功: %v", err)
	}
	if len(result.Courses) != 1 {
		t.Fatalf("期望 1 行，实际 %d", len(result.Courses))
	}
	c := result.Courses[0].Course
	if c.CourseNumber != "M1" || c.Title != "수학" || c.Credit != 2 {
		t.Errorf("字段错误: %+v", c)
	}
	if c.Instructor != "" || c.College != "" {
		t.Error("缺失列应为空字符串")
	}
	if c.Year != 2024 || c.Semester != 3 {
		t.Errorf("学年学期错误: %d-%d", c.Year, c.Semester)
	}
}

func TestCatalogSheetParser_MissingHeader(t *testing.T) {
	p := NewCatalogSheetParser(zap.NewNop())

	result, err := p.Parse(buildWorkbook(t, nil, nil), 2025, 1)
	if err != nil {
		t.Fatalf("缺少表头不应返回错误: %v", err)
	}
	if result.HeaderFound || len(result.Courses) != 0 {
		t.Errorf("期望 HeaderFound=false 且无数据: %+v", result)
	}
}

func TestCatalogSheetParser_InvalidDocument(t *testing.T) {
	p := NewCatalogSheetParser(zap.NewNop())
	if _, err := p.Parse([]byte("not a workbook"), 2025, 1); err == nil {
		t.Error("非 Excel 内容应返回错误")
	}
}

func TestParseCredit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"3", 3},
		{"0", 0},
		{"", 0},
		{"3.5", 0},
		{"abc", 0},
		{"-1", 0},
	}
	for _, tt := range tests {
		if got := parseCredit(tt.raw); got != tt.want {
			t.Errorf("parseCredit(%q) = %d, 期望 %d", tt.raw, got, tt.want)
		}
	}
}
