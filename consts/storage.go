package consts

import (
	"fmt"
	"github.com/mitchellh/go-homedir"
)

func init() {
	home, _ := homedir.Dir()
	BaseDir = fmt.Sprintf("%s/eggie_seqdb", home)
	DefaultConfigPath = fmt.Sprintf("%s/config", BaseDir)
}

var (
	BaseDir           string
	DefaultConfigPath string
)

// 配置文件名，位于 DefaultConfigPath 下
const (
	ConfigFileName = "config"
	ConfigFileType = "yaml"
)

// 数据库配置项，位于 databases.<name> 之下
const (
	ConfigDatabases  = "databases"
	ConfigMethod     = "method"
	ConfigIndexDir   = "index"
	ConfigDataDir    = "directory"
	ConfigEndian     = "endian"
	ConfigMmap       = "mmap"
	ConfigVerify     = "verify"
	ConfigTableCache = "table_cache"
	ConfigInclude    = "include"
	ConfigExclude    = "exclude"
)

// EMBL-CD 索引目录下的固定文件名
const (
	DivisionFile = "division.lkp"
	EntryFile    = "entrynam.idx"
	TargetSuffix = ".trg"
	HitSuffix    = ".hit"
)
