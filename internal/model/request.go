package model

// PageRef 布局计划中的一项：文档 id + 从 1 开始的页码
type PageRef struct {
	Doc  string `json:"doc"`
	Page int    `json:"page"`
}

// MergeOptions 合并请求解析后的控制参数
type MergeOptions struct {
	Quality   int
	Linearize bool
	Layout    []PageRef
}
