package utils

import "strings"

// ParseBoolLoose 宽松布尔解析：1/true/on/yes（不区分大小写）为 true，其余为 false
func ParseBoolLoose(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
