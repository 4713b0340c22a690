package cdindex

import (
	"encoding/binary"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/binfile"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultTableCache = 8

// Options 单个数据库的访问选项
type Options struct {
	IndexDir string           // IndexDir 索引目录
	DataDir  string           // DataDir 数据文件目录，默认同索引目录
	Order    binary.ByteOrder // Order 为nil时打开索引时探测
	Mmap     bool             // Mmap 索引文件映射到内存
	Verify   bool             // Verify 打开时校验索引有序

	TableCache int // TableCache BLAST 表缓存数量

	// Include / Exclude 数据库级的文件名过滤，与查询中的过滤条件合并
	Include []string
	Exclude []string
}

// OptionsFromConfig 从 databases.<name> 配置子树构建选项
func OptionsFromConfig(config *viper.Viper) (*Options, error) {
	if config == nil {
		e := errs.NewConfigErr().WithErr(errors.New("nil database config"))
		logs.Error(e.Error())
		return nil, e
	}

	config.SetDefault(consts.ConfigEndian, binfile.OrderAuto)
	config.SetDefault(consts.ConfigTableCache, defaultTableCache)

	opts := &Options{
		IndexDir:   config.GetString(consts.ConfigIndexDir),
		DataDir:    config.GetString(consts.ConfigDataDir),
		Mmap:       config.GetBool(consts.ConfigMmap),
		Verify:     config.GetBool(consts.ConfigVerify),
		TableCache: config.GetInt(consts.ConfigTableCache),
		Include:    config.GetStringSlice(consts.ConfigInclude),
		Exclude:    config.GetStringSlice(consts.ConfigExclude),
	}

	order, _, err := binfile.ParseOrder(config.GetString(consts.ConfigEndian))
	if err != nil {
		logs.Error(err.Error(), zap.String(consts.LogFieldParams, consts.ConfigEndian))
		return nil, err
	}
	opts.Order = order

	return opts, opts.check()
}

func (opts *Options) check() error {
	if opts.IndexDir == "" {
		e := errs.NewConfigErr().WithErr(errors.New("index directory not set"))
		logs.Error(e.Error(), zap.String(consts.LogFieldParams, consts.ConfigIndexDir))
		return e
	}

	if opts.DataDir == "" {
		opts.DataDir = opts.IndexDir
	}

	if opts.TableCache < 0 {
		e := errs.NewConfigErr().WithErr(errors.Errorf("table cache %d < 0", opts.TableCache))
		logs.Error(e.Error(), zap.String(consts.LogFieldParams, consts.ConfigTableCache), zap.Int(consts.LogFieldValue, opts.TableCache))
		return e
	}
	return nil
}

// Filters 合并数据库级和查询级的过滤条件
func (opts *Options) Filters(include, exclude []string) ([]string, []string) {
	return append(append([]string(nil), opts.Include...), include...),
		append(append([]string(nil), opts.Exclude...), exclude...)
}
