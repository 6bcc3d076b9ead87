package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"coursebook/internal/model"
	"coursebook/internal/repository"
)

// ── 内存数据库 ──
//
// 所有 mock repo 共享同一个 fakeDB。Transaction 在副本上执行，
// fn 成功才整体替换回原对象，失败时副本直接丢弃，与真实回滚语义一致。

var errInjected = errors.New("injected store failure")

type fakeDB struct {
	courses    map[int64]model.Course
	slots      []model.MeetingSlot
	timetables map[int64]model.Timetable
	entries    []model.TimetableEntry
	nextID     int64

	// 故障注入：第 N 次写入课程时失败（0 表示不注入）
	failCourseCreateAt int
	courseCreates      int
	failSlotCreate     bool
	// 存在性检查总是返回 false，模拟并发请求同时通过检查，由唯一索引拦截
	skipExistsChecks bool

	lastSearch *repository.CourseSearchParams
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		courses:    make(map[int64]model.Course),
		timetables: make(map[int64]model.Timetable),
	}
}

func (db *fakeDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *fakeDB) clone() *fakeDB {
	cp := *db
	cp.courses = make(map[int64]model.Course, len(db.courses))
	for k, v := range db.courses {
		cp.courses[k] = v
	}
	cp.timetables = make(map[int64]model.Timetable, len(db.timetables))
	for k, v := range db.timetables {
		cp.timetables[k] = v
	}
	cp.slots = append([]model.MeetingSlot(nil), db.slots...)
	cp.entries = append([]model.TimetableEntry(nil), db.entries...)
	return &cp
}

// newFakeRepository 基于 fakeDB 组装 Repository
func newFakeRepository(db *fakeDB) *repository.Repository {
	repo := newFakeTxRepository(db)
	repo.TxRunner = func(ctx context.Context, fn func(txRepo *repository.Repository) error) error {
		tx := db.clone()
		if err := fn(newFakeTxRepository(tx)); err != nil {
			return err
		}
		*db = *tx
		return nil
	}
	return repo
}

func newFakeTxRepository(db *fakeDB) *repository.Repository {
	return &repository.Repository{
		Course:         &mockCourseRepo{db: db},
		MeetingSlot:    &mockMeetingSlotRepo{db: db},
		Timetable:      &mockTimetableRepo{db: db},
		TimetableEntry: &mockTimetableEntryRepo{db: db},
	}
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	db *fakeDB
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	m.db.courseCreates++
	if m.db.failCourseCreateAt > 0 && m.db.courseCreates == m.db.failCourseCreateAt {
		return errInjected
	}
	course.ID = m.db.id()
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt
	stored := *course
	stored.MeetingSlots = nil
	m.db.courses[course.ID] = stored
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id int64) (*model.Course, error) {
	if c, ok := m.db.courses[id]; ok {
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByIDWithSlots(ctx context.Context, id int64) (*model.Course, error) {
	c, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	slots, _ := (&mockMeetingSlotRepo{db: m.db}).ListByCourse(ctx, id)
	c.MeetingSlots = slots
	return c, nil
}

func (m *mockCourseRepo) ListByIDs(_ context.Context, ids []int64) ([]model.Course, error) {
	var result []model.Course
	for _, id := range ids {
		if c, ok := m.db.courses[id]; ok {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockCourseRepo) Search(_ context.Context, params repository.CourseSearchParams) ([]model.Course, error) {
	p := params
	m.db.lastSearch = &p

	var result []model.Course
	for _, c := range m.db.courses {
		if c.Year != params.Year || c.Semester != params.Semester {
			continue
		}
		if params.Keyword != "" &&
			!strings.Contains(c.Title, params.Keyword) &&
			!strings.Contains(c.Instructor, params.Keyword) {
			continue
		}
		if params.Cursor != nil && c.ID <= *params.Cursor {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if params.Limit > 0 && len(result) > params.Limit {
		result = result[:params.Limit]
	}
	return result, nil
}

func (m *mockCourseRepo) CountByTerm(_ context.Context, year, semester int) (int64, error) {
	var n int64
	for _, c := range m.db.courses {
		if c.Year == year && c.Semester == semester {
			n++
		}
	}
	return n, nil
}

// ── Mock MeetingSlotRepository ──

type mockMeetingSlotRepo struct {
	db *fakeDB
}

func (m *mockMeetingSlotRepo) BatchCreate(_ context.Context, slots []model.MeetingSlot) error {
	if len(slots) == 0 {
		return nil
	}
	if m.db.failSlotCreate {
		return errInjected
	}
	for i := range slots {
		slots[i].ID = m.db.id()
		m.db.slots = append(m.db.slots, slots[i])
	}
	return nil
}

func (m *mockMeetingSlotRepo) ListByCourse(_ context.Context, courseID int64) ([]model.MeetingSlot, error) {
	var result []model.MeetingSlot
	for _, sl := range m.db.slots {
		if sl.CourseID == courseID {
			result = append(result, sl)
		}
	}
	return result, nil
}

func (m *mockMeetingSlotRepo) ListByCourses(_ context.Context, courseIDs []int64) ([]model.MeetingSlot, error) {
	want := make(map[int64]bool, len(courseIDs))
	for _, id := range courseIDs {
		want[id] = true
	}
	var result []model.MeetingSlot
	for _, sl := range m.db.slots {
		if want[sl.CourseID] {
			result = append(result, sl)
		}
	}
	return result, nil
}

// ── Mock TimetableRepository ──

type mockTimetableRepo struct {
	db *fakeDB
}

// nameTaken 模拟 (user_id, name, year, semester) 唯一索引
func (db *fakeDB) nameTaken(exceptID int64, userID, name string, year, semester int) bool {
	for _, t := range db.timetables {
		if t.ID != exceptID && t.UserID == userID && t.Name == name && t.Year == year && t.Semester == semester {
			return true
		}
	}
	return false
}

func (m *mockTimetableRepo) Create(_ context.Context, t *model.Timetable) error {
	if m.db.nameTaken(0, t.UserID, t.Name, t.Year, t.Semester) {
		return gorm.ErrDuplicatedKey
	}
	t.ID = m.db.id()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	m.db.timetables[t.ID] = *t
	return nil
}

func (m *mockTimetableRepo) GetByID(_ context.Context, id int64) (*model.Timetable, error) {
	if t, ok := m.db.timetables[id]; ok {
		return &t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) GetByIDForUpdate(ctx context.Context, id int64) (*model.Timetable, error) {
	return m.GetByID(ctx, id)
}

func (m *mockTimetableRepo) ListByUser(_ context.Context, userID string) ([]model.Timetable, error) {
	var result []model.Timetable
	for _, t := range m.db.timetables {
		if t.UserID == userID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockTimetableRepo) ExistsByName(_ context.Context, userID, name string, year, semester int) (bool, error) {
	if m.db.skipExistsChecks {
		return false, nil
	}
	return m.db.nameTaken(0, userID, name, year, semester), nil
}

func (m *mockTimetableRepo) UpdateName(_ context.Context, id int64, name string) error {
	t, ok := m.db.timetables[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if m.db.nameTaken(id, t.UserID, name, t.Year, t.Semester) {
		return gorm.ErrDuplicatedKey
	}
	t.Name = name
	m.db.timetables[id] = t
	return nil
}

func (m *mockTimetableRepo) Delete(_ context.Context, id int64) error {
	delete(m.db.timetables, id)
	kept := m.db.entries[:0]
	for _, e := range m.db.entries {
		if e.TimetableID != id {
			kept = append(kept, e)
		}
	}
	m.db.entries = kept
	return nil
}

// ── Mock TimetableEntryRepository ──

type mockTimetableEntryRepo struct {
	db *fakeDB
}

func (m *mockTimetableEntryRepo) Create(_ context.Context, e *model.TimetableEntry) error {
	for _, existing := range m.db.entries {
		if existing.TimetableID == e.TimetableID && existing.CourseID == e.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	e.ID = m.db.id()
	e.CreatedAt = time.Now()
	m.db.entries = append(m.db.entries, *e)
	return nil
}

func (m *mockTimetableEntryRepo) Exists(_ context.Context, timetableID, courseID int64) (bool, error) {
	if m.db.skipExistsChecks {
		return false, nil
	}
	for _, e := range m.db.entries {
		if e.TimetableID == timetableID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTimetableEntryRepo) ListCourseIDs(_ context.Context, timetableID int64) ([]int64, error) {
	var ids []int64
	for _, e := range m.db.entries {
		if e.TimetableID == timetableID {
			ids = append(ids, e.CourseID)
		}
	}
	return ids, nil
}

func (m *mockTimetableEntryRepo) Delete(_ context.Context, timetableID, courseID int64) (int64, error) {
	var n int64
	kept := m.db.entries[:0]
	for _, e := range m.db.entries {
		if e.TimetableID == timetableID && e.CourseID == courseID {
			n++
			continue
		}
		kept = append(kept, e)
	}
	m.db.entries = kept
	return n, nil
}

// ── 测试数据辅助 ──

// seedCourse 直接写入一门课程及其时段
func seedCourse(db *fakeDB, year, semester int, title string, credit int, slots ...model.MeetingSlot) model.Course {
	c := model.Course{Year: year, Semester: semester, Title: title, Credit: credit}
	c.ID = db.id()
	db.courses[c.ID] = c
	for _, sl := range slots {
		sl.ID = db.id()
		sl.CourseID = c.ID
		db.slots = append(db.slots, sl)
	}
	return c
}

func seedTimetable(db *fakeDB, userID, name string, year, semester int) model.Timetable {
	t := model.Timetable{UserID: userID, Name: name, Year: year, Semester: semester}
	t.ID = db.id()
	db.timetables[t.ID] = t
	return t
}

func slot(day, start, end int) model.MeetingSlot {
	return model.MeetingSlot{DayOfWeek: day, StartMinute: start, EndMinute: end}
}

// entry 构造课表-课程关联（由调用方追加到 db.entries）
func entry(db *fakeDB, timetableID, courseID int64) model.TimetableEntry {
	return model.TimetableEntry{ID: db.id(), TimetableID: timetableID, CourseID: courseID}
}
