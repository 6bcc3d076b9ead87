package service

import apperrors "coursebook/pkg/errors"

// ── 课程模块业务错误（20xxx）──

var (
	ErrCourseNotFound     = apperrors.New(apperrors.KindNotFound, 20001, "课程不存在")
	ErrInvalidTerm        = apperrors.New(apperrors.KindInvalid, 20002, "学年或学期无效")
	ErrCatalogUnavailable = apperrors.New(apperrors.KindUnavailable, 20003, "课程目录下载失败")
	ErrSyncInProgress     = apperrors.New(apperrors.KindConflict, 20004, "该学期课程同步正在进行中")
	ErrCatalogUnreadable  = apperrors.New(apperrors.KindInternal, 20005, "课程表文件无法解析")
	ErrCatalogStoreFailed = apperrors.New(apperrors.KindInternal, 20006, "课程写入失败，本次同步已回滚")
)

// ── 课表模块业务错误（21xxx）──

var (
	ErrTimetableNotFound     = apperrors.New(apperrors.KindNotFound, 21001, "课表不存在")
	ErrTimetableBlankName    = apperrors.New(apperrors.KindInvalid, 21002, "课表名称不能为空")
	ErrTimetableNameConflict = apperrors.New(apperrors.KindConflict, 21003, "同一学期下已存在同名课表")
	ErrTimetableForbidden    = apperrors.New(apperrors.KindForbidden, 21004, "无权操作此课表")
	ErrCourseTimeConflict    = apperrors.New(apperrors.KindConflict, 21005, "课程时间冲突")
	ErrCourseAlreadyAdded    = apperrors.New(apperrors.KindConflict, 21006, "课程已在课表中")
	ErrTimetableEntryMissing = apperrors.New(apperrors.KindNotFound, 21007, "课表中不存在该课程")
	ErrExportParamInvalid    = apperrors.New(apperrors.KindInvalid, 21008, "导出参数无效")
	ErrExportGenerateFail    = apperrors.New(apperrors.KindInternal, 21009, "生成导出文件失败")
)
