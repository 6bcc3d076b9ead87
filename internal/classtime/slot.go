// Package classtime 描述课程的每周上课时段，并负责时段解析与冲突判断。
package classtime

import "fmt"

// MinutesPerDay 一天的分钟数
const MinutesPerDay = 24 * 60

// dayNames 星期编号 → 韩文星期（0=월 … 6=일）
var dayNames = [...]string{"월", "화", "수", "목", "금", "토", "일"}

// Slot 一个每周重复的上课时段
//
// 时间区间为半开区间 [Start, End)，单位为当天 0 点起的分钟数。
type Slot struct {
	Day      int // 0=월 … 6=일
	Start    int
	End      int
	Location *string
}

// Valid 时段是否合法：星期在 0-6 之间且 0 <= Start < End <= 1440
func (s Slot) Valid() bool {
	return s.Day >= 0 && s.Day < len(dayNames) &&
		s.Start >= 0 && s.Start < s.End && s.End <= MinutesPerDay
}

// Overlaps 判断两个时段是否冲突
// 同一天且区间相交才算冲突；首尾相接（a.End == b.Start）不算
func (s Slot) Overlaps(other Slot) bool {
	if s.Day != other.Day {
		return false
	}
	return s.Start < other.End && other.Start < s.End
}

// String 形如 "월(10:00~11:50)"
func (s Slot) String() string {
	return fmt.Sprintf("%s(%s~%s)", DayName(s.Day), FormatMinutes(s.Start), FormatMinutes(s.End))
}

// DayName 星期编号对应的韩文星期，越界返回 "?"
func DayName(day int) string {
	if day < 0 || day >= len(dayNames) {
		return "?"
	}
	return dayNames[day]
}

// FormatMinutes 分钟数 → "HH:MM"
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
