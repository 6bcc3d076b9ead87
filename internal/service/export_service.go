package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"coursebook/internal/classtime"
	"coursebook/internal/dto"
	"coursebook/internal/model"
	"coursebook/internal/repository"
)

const (
	exportTimezone     = "Asia/Seoul"
	defaultExportWeeks = 16
	gridStepMinutes    = 30
	gridDefaultStart   = 9 * 60
	gridDefaultEnd     = 18 * 60
)

// ExportService 课表导出业务接口
//
// 设计说明：
//   - Excel (.xlsx)：Sheet "시간표" 为周视图（列=星期，行=30 分钟格），Sheet "과목 목록" 为课程清单
//   - iCalendar (.ics)：每个上课时段一条 VEVENT，以 RRULE 按周重复
//   - 导出以字节返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportXLSX 导出课表为 Excel
	ExportXLSX(ctx context.Context, timetableID int64, userID string) (*bytes.Buffer, string, error)
	// ExportICS 导出课表为 iCalendar，start 为学期首日，weeks 为重复周数
	ExportICS(ctx context.Context, timetableID int64, userID string, req *dto.ExportICSRequest) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// exportCourse 导出用的课程 + 时段
type exportCourse struct {
	course model.Course
	slots  []classtime.Slot
}

func (s *exportService) load(ctx context.Context, timetableID int64, userID string) (*model.Timetable, []exportCourse, error) {
	timetable, err := loadOwnedTimetable(ctx, s.repo, timetableID, userID)
	if err != nil {
		return nil, nil, err
	}

	courses, slotsByCourse, err := loadTimetableCourses(ctx, s.repo, timetable.ID)
	if err != nil {
		s.logger.Error("加载课表课程失败", zap.Int64("timetable_id", timetableID), zap.Error(err))
		return nil, nil, err
	}

	result := make([]exportCourse, 0, len(courses))
	for _, c := range courses {
		result = append(result, exportCourse{course: c, slots: toClassSlots(slotsByCourse[c.ID])})
	}
	return timetable, result, nil
}

// ═══════════════════════════════════════════════════════════
// ExportXLSX — 导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 周视图：
//   - 列头：월 ~ 금（有周末课程时追加 토 / 일）
//   - 行头：30 分钟一格，默认 09:00 ~ 18:00，按课程实际时间扩展
//   - 单元格：课程名 (教室)，同一时段跨多格时纵向合并

func (s *exportService) ExportXLSX(ctx context.Context, timetableID int64, userID string) (*bytes.Buffer, string, error) {
	timetable, courses, err := s.load(ctx, timetableID, userID)
	if err != nil {
		return nil, "", err
	}

	// 1. 计算网格范围
	days := 5
	gridStart, gridEnd := gridDefaultStart, gridDefaultEnd
	for _, ec := range courses {
		for _, sl := range ec.slots {
			if !sl.Valid() {
				continue
			}
			if sl.Day+1 > days {
				days = sl.Day + 1
			}
			if sl.Start < gridStart {
				gridStart = sl.Start / gridStepMinutes * gridStepMinutes
			}
			if sl.End > gridEnd {
				gridEnd = (sl.End + gridStepMinutes - 1) / gridStepMinutes * gridStepMinutes
			}
		}
	}
	rowOf := func(minute int) int { return 3 + (minute-gridStart)/gridStepMinutes }

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "시간표"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	courseStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})

	// 2. 标题与表头
	title := fmt.Sprintf("%s (%d %s)", timetable.Name, timetable.Year, model.SemesterName(timetable.Semester))
	f.SetCellValue(sheetName, "A1", title)
	f.MergeCell(sheetName, "A1", cell(colName(days), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetCellValue(sheetName, cell("A", 2), "시간")
	for d := 0; d < days; d++ {
		col := colName(d + 1)
		f.SetColWidth(sheetName, col, col, 18)
		f.SetCellValue(sheetName, cell(col, 2), classtime.DayName(d))
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(days), 2), headerStyle)

	for m := gridStart; m < gridEnd; m += gridStepMinutes {
		f.SetCellValue(sheetName, cell("A", rowOf(m)), classtime.FormatMinutes(m))
	}

	// 3. 填充课程
	for _, ec := range courses {
		for _, sl := range ec.slots {
			if !sl.Valid() || sl.Day >= days {
				continue
			}
			col := colName(sl.Day + 1)
			top := cell(col, rowOf(sl.Start))
			bottom := cell(col, rowOf(sl.End-1))

			text := ec.course.Title
			if sl.Location != nil {
				text += "\n(" + *sl.Location + ")"
			}
			f.SetCellValue(sheetName, top, text)
			if top != bottom {
				f.MergeCell(sheetName, top, bottom)
			}
			f.SetCellStyle(sheetName, top, bottom, courseStyle)
		}
	}

	// 4. 课程清单
	if err := s.writeCourseList(f, courses, headerStyle); err != nil {
		s.logger.Error("写入课程清单失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail.WithCause(err)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail.WithCause(err)
	}

	filename := fmt.Sprintf("시간표_%d-%d_%s.xlsx", timetable.Year, timetable.Semester, timetable.Name)
	return buf, filename, nil
}

func (s *exportService) writeCourseList(f *excelize.File, courses []exportCourse, headerStyle int) error {
	sheetName := "과목 목록"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	headers := []string{"교과목번호", "강좌번호", "교과목명", "주담당교수", "학점", "수업교시"}
	widths := []float64{16, 10, 30, 14, 8, 40}
	for i, h := range headers {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, widths[i])
		f.SetCellValue(sheetName, cell(col, 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	total := 0
	for i, ec := range courses {
		row := i + 2
		times := make([]string, 0, len(ec.slots))
		for _, sl := range ec.slots {
			times = append(times, sl.String())
		}
		values := []interface{}{
			ec.course.CourseNumber,
			ec.course.SectionNumber,
			ec.course.Title,
			ec.course.Instructor,
			ec.course.Credit,
			strings.Join(times, "/"),
		}
		for j, v := range values {
			if err := f.SetCellValue(sheetName, cell(colName(j), row), v); err != nil {
				return err
			}
		}
		total += ec.course.Credit
	}

	sumRow := len(courses) + 2
	f.SetCellValue(sheetName, cell("D", sumRow), "총 학점")
	return f.SetCellValue(sheetName, cell("E", sumRow), total)
}

// ═══════════════════════════════════════════════════════════
// ExportICS — 导出为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个上课时段生成一个 VEVENT：
//   - DTSTART 为 start 当天或之后第一个对应星期
//   - RRULE:FREQ=WEEKLY;COUNT=weeks

func (s *exportService) ExportICS(ctx context.Context, timetableID int64, userID string, req *dto.ExportICSRequest) ([]byte, string, error) {
	loc, err := time.LoadLocation(exportTimezone)
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}
	start, err := time.ParseInLocation("2006-01-02", req.Start, loc)
	if err != nil {
		return nil, "", ErrExportParamInvalid.WithCause(err)
	}
	weeks := req.Weeks
	if weeks <= 0 {
		weeks = defaultExportWeeks
	}

	timetable, courses, err := s.load(ctx, timetableID, userID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//coursebook//timetable//KO")
	cal.SetXWRCalName(timetable.Name)
	cal.SetXWRTimezone(exportTimezone)

	now := time.Now().UTC()
	for _, ec := range courses {
		for i, sl := range ec.slots {
			if !sl.Valid() {
				continue
			}
			first := firstOccurrence(start, sl)

			rule, err := weeklyRule(first, weeks)
			if err != nil {
				s.logger.Error("生成 RRULE 失败", zap.Error(err))
				return nil, "", ErrExportGenerateFail.WithCause(err)
			}

			event := cal.AddEvent(fmt.Sprintf("timetable-%d-course-%d-slot-%d@coursebook", timetable.ID, ec.course.ID, i))
			event.SetDtStampTime(now)
			event.SetSummary(ec.course.Title)
			event.SetStartAt(first)
			event.SetEndAt(first.Add(time.Duration(sl.End-sl.Start) * time.Minute))
			if sl.Location != nil {
				event.SetLocation(*sl.Location)
			}
			if ec.course.Instructor != "" {
				event.SetDescription(ec.course.Instructor)
			}
			event.AddRrule(rule)
		}
	}

	filename := fmt.Sprintf("timetable_%d-%d_%d.ics", timetable.Year, timetable.Semester, timetable.ID)
	return []byte(cal.Serialize()), filename, nil
}

// firstOccurrence start 当天或之后第一个与时段星期相同的日期，时间取时段开始时刻
func firstOccurrence(start time.Time, sl classtime.Slot) time.Time {
	// time.Weekday: 0=Sunday；时段星期: 0=월
	startDay := (int(start.Weekday()) + 6) % 7
	offset := (sl.Day - startDay + 7) % 7
	d := start.AddDate(0, 0, offset)
	return time.Date(d.Year(), d.Month(), d.Day(), sl.Start/60, sl.Start%60, 0, 0, start.Location())
}

// weeklyRule 生成按周重复 count 次的 RRULE 值（不含 DTSTART）
func weeklyRule(first time.Time, count int) (string, error) {
	opt := rrule.ROption{
		Freq:    rrule.WEEKLY,
		Count:   count,
		Dtstart: first,
	}
	if _, err := rrule.NewRRule(opt); err != nil {
		return "", err
	}
	return opt.RRuleString(), nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
