package utils

import (
	"errors"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"os"
)

// OpenReadOnly 只读打开文件
// 索引和数据文件在查询生命周期内不可变，因此不存在写打开的场景
func OpenReadOnly(filePath string) (*os.File, int64, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return nil, 0, errs.NewFileNoPermissionErr().WithErr(err)
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, errs.NewOpenFileErr().WithErr(err)
		}
		return nil, 0, errs.NewFileStatErr().WithErr(err)
	}

	if stat.IsDir() {
		return nil, 0, errs.NewInvalidParamErr().WithErr(errors.New(filePath + " is a directory"))
	}

	fd, err := os.Open(filePath)
	if err != nil {
		return nil, 0, errs.NewOpenFileErr().WithErr(err)
	}
	return fd, stat.Size(), nil
}

// FileExists 判断普通文件是否存在
func FileExists(filePath string) bool {
	stat, err := os.Stat(filePath)
	return err == nil && !stat.IsDir()
}

// CheckDir 检查目录存在且确实是目录
func CheckDir(dir string) error {
	stat, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return errs.NewDirNotExistErr().WithErr(err)
	} else if err != nil {
		return errs.NewFileStatErr().WithErr(err)
	}

	if !stat.IsDir() {
		return errs.NewDirNotExistErr().WithErr(errors.New(dir + " is not a directory"))
	}
	return nil
}
