package classtime

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// tokenPattern 匹配 "<星期>(<HH:MM>~<HH:MM>)"，允许前后有其他字符
var tokenPattern = regexp.MustCompile(`([월화수목금토일])\((\d{2}:\d{2})~(\d{2}:\d{2})\)`)

// tokenSeparator 上课时间与教室字段内部的分隔符
const tokenSeparator = "/"

// ParseDay 韩文星期 → 0..6，无法识别返回 -1
func ParseDay(day string) int {
	for i, name := range dayNames {
		if name == day {
			return i
		}
	}
	return -1
}

// ToMinutes 将 "HH:MM" 转为当天分钟数
// 格式不合法时记录警告并返回 0，不中断解析
func ToMinutes(hhmm string, logger *zap.Logger) int {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		logger.Warn("上课时间格式无效", zap.String("value", hhmm))
		return 0
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil {
		logger.Warn("上课时间格式无效", zap.String("value", hhmm))
		return 0
	}
	return h*60 + m
}

// ParseSlots 解析一门课的上课时间与教室字段
//
//   - classTimes 以 "/" 分隔，例如 "월(10:00~11:50)/수(10:00~11:50)"
//   - locations 以 "/" 分隔，第 i 个教室对应第 i 个上课时间（缺失或为空时为 nil）
//   - 不匹配格式的 token 直接丢弃；classTimes 为空时返回空切片
func ParseSlots(classTimes, locations string, logger *zap.Logger) []Slot {
	classTimes = strings.TrimSpace(classTimes)
	if classTimes == "" {
		return []Slot{}
	}

	var locs []string
	if strings.TrimSpace(locations) != "" {
		locs = strings.Split(locations, tokenSeparator)
	}

	tokens := strings.Split(classTimes, tokenSeparator)
	slots := make([]Slot, 0, len(tokens))
	for i, token := range tokens {
		match := tokenPattern.FindStringSubmatch(token)
		if match == nil {
			continue
		}

		slot := Slot{
			Day:   ParseDay(match[1]),
			Start: ToMinutes(match[2], logger),
			End:   ToMinutes(match[3], logger),
		}
		if i < len(locs) {
			if loc := strings.TrimSpace(locs[i]); loc != "" {
				slot.Location = &loc
			}
		}
		slots = append(slots, slot)
	}
	return slots
}
