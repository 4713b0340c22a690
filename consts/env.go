package consts

const (
	Env         = "EGGIE_SEQDB_ENV"          // 运行环境，test时使用开发日志
	Config      = "EGGIE_SEQDB_CONFIG"       // 配置文件路径
	Database    = "EGGIE_SEQDB_DB"           // 默认查询的数据库名
	PushGateway = "EGGIE_SEQDB_PUSH_GATEWAY" // prometheus pushgateway地址
	Home        = "HOME"                     // 家目录
)
