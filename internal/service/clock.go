package service

import "time"

// Clock 时间来源。业务层只通过 Clock 读取"现在"，
// 模块期与周次计算本身不读取系统时钟。
type Clock interface {
	Now() time.Time
}

// SystemClock 以指定时区返回当前时间
type SystemClock struct {
	Location *time.Location
}

// Now 返回 Location 时区下的当前时间；未设置时区时使用本地时区
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}
