package layout

// BuildOptions 配置布局阶段所需的依赖，例如排版后端。
type BuildOptions struct {
	Typesetter Typesetter
	Debug      DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	RawUnits bool // 在调试 JSON 中输出 debug.rawUnits 影子字段
}

// Typesetter 负责根据字体与最大行宽将文本拆成可绘制的行。
// 返回行的 Y 由布局阶段回填。
type Typesetter interface {
	LayoutLines(content string, maxWidth float64, font FontSpec) ([]TextLine, error)
}
