//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"coursebook/internal/model"
	"coursebook/internal/repository"
	"coursebook/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=coursebook password=coursebook_password dbname=coursebook_test sslmode=disable TimeZone=Asia/Seoul"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// uniqueYear 每个测试使用独立学年，避免相互干扰
func uniqueYear() int {
	return 3000 + int(time.Now().UnixNano()%100000)
}

func cleanupTerm(t *testing.T, year int) {
	t.Helper()
	testDB.Where("year = ?", year).Delete(&model.Timetable{})
	testDB.Where("year = ?", year).Delete(&model.Course{})
}

func createCourse(t *testing.T, repo *repository.Repository, year int, title, instructor string) *model.Course {
	t.Helper()
	c := &model.Course{
		Year:         year,
		Semester:     1,
		CourseNumber: "M1522.000600",
		Title:        title,
		Instructor:   instructor,
	}
	if err := repo.Course.Create(context.Background(), c); err != nil {
		t.Fatalf("创建课程失败: %v", err)
	}
	return c
}

// ═══════════════════════════════════════════════════════════
// Test: Course Search
// ═══════════════════════════════════════════════════════════

func TestCourseSearch_KeysetPagination(t *testing.T) {
	year := uniqueYear()
	defer cleanupTerm(t, year)

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		createCourse(t, repo, year, fmt.Sprintf("자료구조 %d", i), "김교수")
	}
	createCourse(t, repo, year, "100% 확률론", "이교수")

	page, err := repo.Course.Search(ctx, repository.CourseSearchParams{Year: year, Semester: 1, Keyword: "자료", Limit: 3})
	if err != nil {
		t.Fatalf("Search 失败: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("期望 3 条，实际 %d", len(page))
	}

	cursor := page[len(page)-1].ID
	rest, err := repo.Course.Search(ctx, repository.CourseSearchParams{Year: year, Semester: 1, Keyword: "자료", Cursor: &cursor, Limit: 10})
	if err != nil {
		t.Fatalf("Search 失败: %v", err)
	}
	if len(rest) != 2 {
		t.Errorf("期望剩余 2 条，实际 %d", len(rest))
	}
	for _, c := range rest {
		if c.ID <= cursor {
			t.Errorf("游标之后的结果 id 应大于 %d，实际 %d", cursor, c.ID)
		}
	}

	// 关键字中的 % 按字面匹配
	pct, err := repo.Course.Search(ctx, repository.CourseSearchParams{Year: year, Semester: 1, Keyword: "0%", Limit: 10})
	if err != nil {
		t.Fatalf("Search 失败: %v", err)
	}
	if len(pct) != 1 {
		t.Errorf("期望 1 条，实际 %d", len(pct))
	}

	// 按教授名检索
	byInstructor, _ := repo.Course.Search(ctx, repository.CourseSearchParams{Year: year, Semester: 1, Keyword: "이교", Limit: 10})
	if len(byInstructor) != 1 {
		t.Errorf("按教授检索期望 1 条，实际 %d", len(byInstructor))
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction Rollback / Commit
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	year := uniqueYear()
	defer cleanupTerm(t, year)

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	boom := errors.New("boom")

	var createdID int64
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		c := createCourse(t, txRepo, year, "롤백 과목", "")
		createdID = c.ID
		if err := txRepo.MeetingSlot.BatchCreate(ctx, []model.MeetingSlot{{CourseID: c.ID, DayOfWeek: 0, StartMinute: 600, EndMinute: 710}}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("期望返回 boom，实际: %v", err)
	}

	if _, err := repo.Course.GetByID(ctx, createdID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatal("期望回滚后查不到课程，但实际查到了")
	}
}

func TestTransaction_Commit(t *testing.T) {
	year := uniqueYear()
	defer cleanupTerm(t, year)

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	var courseID int64
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		c := createCourse(t, txRepo, year, "커밋 과목", "")
		courseID = c.ID
		return txRepo.MeetingSlot.BatchCreate(ctx, []model.MeetingSlot{
			{CourseID: c.ID, DayOfWeek: 2, StartMinute: 600, EndMinute: 710},
			{CourseID: c.ID, DayOfWeek: 0, StartMinute: 600, EndMinute: 710},
		})
	})
	if err != nil {
		t.Fatalf("事务提交失败: %v", err)
	}

	found, err := repo.Course.GetByIDWithSlots(ctx, courseID)
	if err != nil {
		t.Fatalf("提交后查询课程失败: %v", err)
	}
	if len(found.MeetingSlots) != 2 || found.MeetingSlots[0].DayOfWeek != 0 {
		t.Errorf("上课时段应按星期排序，实际 %+v", found.MeetingSlots)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Timetable / Entry
// ═══════════════════════════════════════════════════════════

func TestTimetable_LockAndEntries(t *testing.T) {
	year := uniqueYear()
	defer cleanupTerm(t, year)

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	tt := &model.Timetable{UserID: "user-it", Name: "메인", Year: year, Semester: 1}
	if err := repo.Timetable.Create(ctx, tt); err != nil {
		t.Fatalf("创建课表失败: %v", err)
	}
	course := createCourse(t, repo, year, "운영체제", "박교수")

	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if _, err := txRepo.Timetable.GetByIDForUpdate(ctx, tt.ID); err != nil {
			return err
		}
		return txRepo.TimetableEntry.Create(ctx, &model.TimetableEntry{TimetableID: tt.ID, CourseID: course.ID})
	})
	if err != nil {
		t.Fatalf("事务内添加课程失败: %v", err)
	}

	exists, _ := repo.TimetableEntry.Exists(ctx, tt.ID, course.ID)
	if !exists {
		t.Fatal("添加后关联应存在")
	}

	// 唯一约束：重复添加失败
	if err := repo.TimetableEntry.Create(ctx, &model.TimetableEntry{TimetableID: tt.ID, CourseID: course.ID}); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("重复添加应返回 gorm.ErrDuplicatedKey，实际: %v", err)
	}

	// 同一用户同学期同名课表
	if err := repo.Timetable.Create(ctx, &model.Timetable{UserID: "user-it", Name: "메인", Year: year, Semester: 1}); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("同名课表应返回 gorm.ErrDuplicatedKey，实际: %v", err)
	}

	dup, _ := repo.Timetable.ExistsByName(ctx, "user-it", "메인", year, 1)
	if !dup {
		t.Error("ExistsByName 应返回 true")
	}

	n, err := repo.TimetableEntry.Delete(ctx, tt.ID, course.ID)
	if err != nil || n != 1 {
		t.Errorf("期望删除 1 行，实际 %d (%v)", n, err)
	}
}
