package consts

const (
	B = 1 << (iota * 10)
	KB
	MB
	GB
)

const HelpTemplate = `NAME:
   {{.Name}} - {{.Usage}}
USAGE:
   {{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}
   {{if len .Authors}}
AUTHOR:
   {{range .Authors}}{{ . }}{{end}}
   {{end}}{{if .Commands}}
COMMANDS:
{{range .Commands}}{{if not .HideHelp}}   {{join .Names ", "}}{{ "\t"}}{{.Usage}}{{ "\n" }}{{end}}{{end}}{{end}}{{if .VisibleFlags}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}{{end}}{{if .Copyright }}
COPYRIGHT:
   {{.Copyright}}
   {{end}}{{if .Version}}
VERSION:
   {{.Version}}
   {{end}}
`

// 访问方法名，对应 storage/core.BuilderMap 中的key
const (
	MethodEmblcd = "emblcd"
	MethodBlast  = "blast"
	MethodGcg    = "gcg"
)

// 日志字段
const (
	LogFieldParams   = "params"
	LogFieldValue    = "value"
	LogFieldPath     = "path"
	LogFieldOffset   = "offset"
	LogFieldMethod   = "method"
	LogFieldDivision = "division"
	LogFieldField    = "field"
	LogFieldCount    = "count"
	LogFieldQuery    = "query"
	LogFieldDatabase = "database"
	LogFieldMode     = "mode"
)

const (
	Module       = "module"
	ModuleCore   = "core"
	ModuleAccess = "access"
	ModuleCli    = "cli"
)
