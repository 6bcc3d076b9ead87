package classtime

import "fmt"

// ConflictError 候选时段与已有时段冲突
type ConflictError struct {
	Candidate Slot
	Existing  Slot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("时间冲突: %s 与 %s", e.Candidate, e.Existing)
}

// CheckConflict 检查候选时段集合与已有时段集合之间是否存在冲突
// 返回第一个冲突对；两者任一为空时不会冲突
func CheckConflict(candidate, existing []Slot) error {
	for _, c := range candidate {
		for _, e := range existing {
			if c.Overlaps(e) {
				return &ConflictError{Candidate: c, Existing: e}
			}
		}
	}
	return nil
}
