package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"coursebook/internal/dto"
	apperrors "coursebook/pkg/errors"
)

func setupTestTimetableService() (TimetableService, *fakeDB) {
	db := newFakeDB()
	return NewTimetableService(newFakeRepository(db), zap.NewNop()), db
}

func strPtr(s string) *string { return &s }

// ── Create 测试 ──

func TestTimetableCreate(t *testing.T) {
	svc, db := setupTestTimetableService()

	resp, err := svc.Create(context.Background(), &dto.CreateTimetableRequest{Name: "1안", Year: 2025, Semester: 1}, "user-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.ID == 0 || resp.Name != "1안" || resp.Year != 2025 || resp.Semester != 1 {
		t.Errorf("返回值错误: %+v", resp)
	}
	if got := db.timetables[resp.ID]; got.UserID != "user-1" {
		t.Errorf("归属错误: %q", got.UserID)
	}
}

func TestTimetableCreate_BlankName(t *testing.T) {
	svc, _ := setupTestTimetableService()

	for _, name := range []string{"", "   "} {
		_, err := svc.Create(context.Background(), &dto.CreateTimetableRequest{Name: name, Year: 2025, Semester: 1}, "user-1")
		if !errors.Is(err, ErrTimetableBlankName) {
			t.Errorf("名称 %q 应返回 ErrTimetableBlankName，实际: %v", name, err)
		}
	}
}

func TestTimetableCreate_InvalidSemester(t *testing.T) {
	svc, _ := setupTestTimetableService()

	_, err := svc.Create(context.Background(), &dto.CreateTimetableRequest{Name: "1안", Year: 2025, Semester: 7}, "user-1")
	if !errors.Is(err, ErrInvalidTerm) {
		t.Errorf("期望 ErrInvalidTerm，实际: %v", err)
	}
}

func TestTimetableCreate_DuplicateName(t *testing.T) {
	svc, db := setupTestTimetableService()
	seedTimetable(db, "user-1", "1안", 2025, 1)

	_, err := svc.Create(context.Background(), &dto.CreateTimetableRequest{Name: "1안", Year: 2025, Semester: 1}, "user-1")
	if !errors.Is(err, ErrTimetableNameConflict) {
		t.Errorf("期望 ErrTimetableNameConflict，实际: %v", err)
	}

	// 不同学期或不同用户可同名
	if _, err := svc.Create(context.Background(), &dto.CreateTimetableRequest{Name: "1안", Year: 2025, Semester: 2}, "user-1"); err != nil {
		t.Errorf("不同学期应可同名: %v", err)
	}
	if _, err := svc.Create(context.Background(), &dto.CreateTimetableRequest{Name: "1안", Year: 2025, Semester: 1}, "user-2"); err != nil {
		t.Errorf("不同用户应可同名: %v", err)
	}
}

// ── List / Detail 测试 ──

func TestTimetableList_OnlyOwn(t *testing.T) {
	svc, db := setupTestTimetableService()
	seedTimetable(db, "user-1", "A", 2025, 1)
	seedTimetable(db, "user-1", "B", 2025, 2)
	seedTimetable(db, "user-2", "C", 2025, 1)

	list, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("期望 2 个课表，实际 %d", len(list))
	}

	empty, _ := svc.List(context.Background(), "user-3")
	if empty == nil || len(empty) != 0 {
		t.Error("无课表时应返回空切片")
	}
}

func TestTimetableDetail(t *testing.T) {
	svc, db := setupTestTimetableService()
	tt := seedTimetable(db, "user-1", "1안", 2025, 1)
	a := seedCourse(db, 2025, 1, "A", 3, slot(0, 540, 600))
	b := seedCourse(db, 2025, 1, "B", 2, slot(1, 540, 600), slot(3, 540, 600))
	db.entries = append(db.entries,
		entry(db, tt.ID, b.ID),
		entry(db, tt.ID, a.ID),
	)

	detail, err := svc.Detail(context.Background(), tt.ID, "user-1")
	if err != nil {
		t.Fatalf("Detail 应成功: %v", err)
	}
	if detail.Credits != 5 {
		t.Errorf("总学分应为 5，实际 %d", detail.Credits)
	}
	if len(detail.Courses) != 2 || detail.Courses[0].Title != "B" || detail.Courses[1].Title != "A" {
		t.Fatalf("课程应按加入顺序返回: %+v", detail.Courses)
	}
	if len(detail.Courses[0].MeetingSlots) != 2 {
		t.Errorf("B 应有 2 个时段，实际 %d", len(detail.Courses[0].MeetingSlots))
	}
}

func TestTimetableDetail_Empty(t *testing.T) {
	svc, db := setupTestTimetableService()
	tt := seedTimetable(db, "user-1", "빈 시간표", 2025, 1)

	detail, err := svc.Detail(context.Background(), tt.ID, "user-1")
	if err != nil {
		t.Fatalf("Detail 应成功: %v", err)
	}
	if detail.Credits != 0 || len(detail.Courses) != 0 {
		t.Errorf("空课表详情错误: %+v", detail)
	}
}

func TestTimetableOwnership(t *testing.T) {
	svc, db := setupTestTimetableService()
	tt := seedTimetable(db, "user-1", "1안", 2025, 1)
	ctx := context.Background()

	if _, err := svc.Detail(ctx, tt.ID, "user-2"); !errors.Is(err, ErrTimetableForbidden) {
		t.Errorf("他人课表应返回 ErrTimetableForbidden，实际: %v", err)
	}
	if _, err := svc.Detail(ctx, 999, "user-1"); !errors.Is(err, ErrTimetableNotFound) {
		t.Errorf("不存在的课表应返回 ErrTimetableNotFound，实际: %v", err)
	}
	if _, err := svc.Update(ctx, tt.ID, &dto.UpdateTimetableRequest{Name: strPtr("x")}, "user-2"); !errors.Is(err, ErrTimetableForbidden) {
		t.Errorf("重命名他人课表应返回 ErrTimetableForbidden，实际: %v", err)
	}
	if err := svc.Delete(ctx, tt.ID, "user-2"); !errors.Is(err, ErrTimetableForbidden) {
		t.Errorf("删除他人课表应返回 ErrTimetableForbidden，实际: %v", err)
	}
	if _, ok := db.timetables[tt.ID]; !ok {
		t.Error("越权删除不应生效")
	}
}

// ── Update / Delete 测试 ──

func TestTimetableUpdate_Rename(t *testing.T) {
	svc, db := setupTestTimetableService()
	tt := seedTimetable(db, "user-1", "1안", 2025, 1)
	seedTimetable(db, "user-1", "2안", 2025, 1)
	ctx := context.Background()

	resp, err := svc.Update(ctx, tt.ID, &dto.UpdateTimetableRequest{Name: strPtr("최종")}, "user-1")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.Name != "최종" || db.timetables[tt.ID].Name != "최종" {
		t.Errorf("重命名未生效: %+v", resp)
	}

	if _, err := svc.Update(ctx, tt.ID, &dto.UpdateTimetableRequest{Name: strPtr("2안")}, "user-1"); !errors.Is(err, ErrTimetableNameConflict) {
		t.Errorf("重名应返回 ErrTimetableNameConflict，实际: %v", err)
	}
	if _, err := svc.Update(ctx, tt.ID, &dto.UpdateTimetableRequest{Name: strPtr(" ")}, "user-1"); !errors.Is(err, ErrTimetableBlankName) {
		t.Errorf("空白名称应返回 ErrTimetableBlankName，实际: %v", err)
	}

	// 名称不变视为成功
	if _, err := svc.Update(ctx, tt.ID, &dto.UpdateTimetableRequest{Name: strPtr("최종")}, "user-1"); err != nil {
		t.Errorf("名称不变不应报错: %v", err)
	}
	if _, err := svc.Update(ctx, tt.ID, &dto.UpdateTimetableRequest{}, "user-1"); err != nil {
		t.Errorf("空请求不应报错: %v", err)
	}
}

func TestTimetableDelete(t *testing.T) {
	svc, db := setupTestTimetableService()
	tt := seedTimetable(db, "user-1", "1안", 2025, 1)
	c := seedCourse(db, 2025, 1, "A", 3)
	db.entries = append(db.entries, entry(db, tt.ID, c.ID))

	if err := svc.Delete(context.Background(), tt.ID, "user-1"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := db.timetables[tt.ID]; ok {
		t.Error("课表应被删除")
	}
	if len(db.entries) != 0 {
		t.Error("课表关联应一并删除")
	}
	if _, ok := db.courses[c.ID]; !ok {
		t.Error("课程本身不应被删除")
	}

	if err := svc.Delete(context.Background(), tt.ID, "user-1"); !errors.Is(err, ErrTimetableNotFound) {
		t.Errorf("重复删除应返回 ErrTimetableNotFound，实际: %v", err)
	}
}

// ── 唯一索引兜底 ──

func TestTimetableCreate_UniqueIndexConflict(t *testing.T) {
	svc, db := setupTestTimetableService()
	seedTimetable(db, "user-1", "1안", 2025, 1)
	db.skipExistsChecks = true

	_, err := svc.Create(context.Background(), &dto.CreateTimetableRequest{Name: "1안", Year: 2025, Semester: 1}, "user-1")
	if !errors.Is(err, ErrTimetableNameConflict) {
		t.Errorf("唯一索引冲突应返回 ErrTimetableNameConflict，实际: %v", err)
	}
	if apperrors.KindOf(err) != apperrors.KindConflict {
		t.Errorf("期望 KindConflict，实际 %v", apperrors.KindOf(err))
	}
	if len(db.timetables) != 1 {
		t.Errorf("不应写入重名课表，实际 %d 个", len(db.timetables))
	}
}

func TestTimetableUpdate_UniqueIndexConflict(t *testing.T) {
	svc, db := setupTestTimetableService()
	tt := seedTimetable(db, "user-1", "1안", 2025, 1)
	seedTimetable(db, "user-1", "2안", 2025, 1)
	db.skipExistsChecks = true

	_, err := svc.Update(context.Background(), tt.ID, &dto.UpdateTimetableRequest{Name: strPtr("2안")}, "user-1")
	if !errors.Is(err, ErrTimetableNameConflict) {
		t.Errorf("唯一索引冲突应返回 ErrTimetableNameConflict，实际: %v", err)
	}
	if db.timetables[tt.ID].Name != "1안" {
		t.Error("冲突时不应修改名称")
	}
}
