package iface

import (
	"github.com/spf13/viper"
)

// ICore 一种访问方法（EMBL-CD / BLAST / GCG）打开后的数据库实例
// 三种查询方式的二分查找策略不同，因此分开实现
type ICore interface {
	// All 遍历数据库中的全部记录
	All(q *Query) (Session, error)
	// ById 精确查找一个条目名，未命中时回退到登录号等二级索引
	ById(q *Query) (Session, error)
	// ByQuery 多字段 / 通配符查询
	ByQuery(q *Query) (Session, error)
	// Info 数据库元信息
	Info() *Info
	Close() error
}

// Session 一次查询的会话状态，独占其打开的数据文件句柄
// 不可并发使用
type Session interface {
	// Next 取出下一条记录，命中列表耗尽时返回 io.EOF
	Next() (*Record, error)
	// Pending 尚未取出的命中数量
	Pending() int
	Close() error
}

// Builder 根据单个数据库的配置构建 ICore
type Builder func(config *viper.Viper) (ICore, error)

// Info 数据库元信息，取自索引文件头
type Info struct {
	Method    string
	Name      string
	Release   string
	Date      string
	Divisions []string
	Entries   uint32
	Fields    []Field
}
