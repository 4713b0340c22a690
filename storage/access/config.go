package access

import (
	"sort"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// LoadConfig 读取 YAML 配置文件
// path 为空时在 consts.DefaultConfigPath 下查找 config.yaml
func LoadConfig(path string) (*viper.Viper, error) {
	config := viper.New()
	if path != "" {
		config.SetConfigFile(path)
	} else {
		config.AddConfigPath(consts.DefaultConfigPath)
		config.SetConfigName(consts.ConfigFileName)
	}
	config.SetConfigType(consts.ConfigFileType)

	if err := config.ReadInConfig(); err != nil {
		e := errs.NewConfigErr().WithErr(errors.Wrap(err, "read config"))
		logger.Error(e.Error(), zap.String(consts.LogFieldPath, path))
		return nil, e
	}
	return config, nil
}

// Databases 配置中的全部数据库名，已排序
func Databases(config *viper.Viper) []string {
	names := make([]string, 0)
	for name := range config.GetStringMap(consts.ConfigDatabases) {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DatabaseConfig 取出 databases.<name> 配置子树
func DatabaseConfig(config *viper.Viper, name string) (*viper.Viper, error) {
	sub := config.Sub(consts.ConfigDatabases + "." + name)
	if sub == nil {
		e := errs.NewDatabaseNotFoundErr().WithErr(errors.Errorf("database %q not configured", name))
		logger.Error(e.Error(), zap.String(consts.LogFieldDatabase, name))
		return nil, e
	}

	if sub.GetString(consts.ConfigMethod) == "" {
		e := errs.NewConfigErr().WithErr(errors.Errorf("database %q has no access method", name))
		logger.Error(e.Error(), zap.String(consts.LogFieldDatabase, name), zap.String(consts.LogFieldParams, consts.ConfigMethod))
		return nil, e
	}

	if sub.GetString(consts.ConfigIndexDir) == "" {
		e := errs.NewConfigErr().WithErr(errors.Errorf("database %q has no index directory", name))
		logger.Error(e.Error(), zap.String(consts.LogFieldDatabase, name), zap.String(consts.LogFieldParams, consts.ConfigIndexDir))
		return nil, e
	}
	return sub, nil
}
