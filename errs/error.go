package errs

import (
	"errors"
	"fmt"
)

type SeqErr struct {
	msg  string
	code int64
	err  error
}

// Error 输出格式：
// [错误码] 错误类型描述 ( => 包含错误详细描述 )
// 解释：(xxx) 表示可选内容
func (se *SeqErr) Error() string {
	details := fmt.Sprintf("[%d] %s", se.code, se.msg)
	if se.err != nil {
		details += fmt.Sprintf(" => %s", se.err)
	}

	return details
}

func (se *SeqErr) Code() int64 {
	return se.code
}

func (se *SeqErr) Unwrap() error {
	return se.err
}

func (se *SeqErr) WithErr(err error) *SeqErr {
	se.err = err
	return se
}

func GetCode(err error) int64 {
	var se *SeqErr
	if errors.As(err, &se) {
		return se.code
	}
	return UnknownErrCode
}

const (
	UnknownErrCode           int64 = 0
	InvalidParamErrCode      int64 = 100001
	OpenFileErrCode          int64 = 100002
	DirNotExistErrCode       int64 = 100003
	FileNoPermissionErrCode  int64 = 100004
	FileStatErrCode          int64 = 100005
	ReadFileErrCode          int64 = 100006
	SeekFileErrCode          int64 = 100007
	ShortReadErrCode         int64 = 100008
	CloseFileErrCode         int64 = 100009
	FileClosedErrCode        int64 = 100010
	MmapFileErrCode          int64 = 100011
	CorruptErrCode           int64 = 100012
	UnsupportedFormatErrCode int64 = 100013
	CursorClosedErrCode      int64 = 100014
	UnknownMethodErrCode     int64 = 200001
	ConfigErrCode            int64 = 200002
	FieldNotIndexedErrCode   int64 = 200003
	DatabaseNotFoundErrCode  int64 = 200004
)

func NewUnknownErr() *SeqErr {
	return &SeqErr{msg: "unknown error", code: UnknownErrCode}
}

func NewInvalidParamErr() *SeqErr {
	return &SeqErr{msg: "invalid params", code: InvalidParamErrCode}
}

func NewOpenFileErr() *SeqErr {
	return &SeqErr{msg: "open file failed", code: OpenFileErrCode}
}

func NewDirNotExistErr() *SeqErr {
	return &SeqErr{msg: "directory not exist", code: DirNotExistErrCode}
}

func NewFileNoPermissionErr() *SeqErr {
	return &SeqErr{msg: "file no permission", code: FileNoPermissionErrCode}
}

func NewFileStatErr() *SeqErr {
	return &SeqErr{msg: "file stat failed", code: FileStatErrCode}
}

func NewReadFileErr() *SeqErr {
	return &SeqErr{msg: "read file failed", code: ReadFileErrCode}
}

func NewSeekFileErr() *SeqErr {
	return &SeqErr{msg: "seek file failed", code: SeekFileErrCode}
}

func NewShortReadErr() *SeqErr {
	return &SeqErr{msg: "short read", code: ShortReadErrCode}
}

func NewCloseFileErr() *SeqErr {
	return &SeqErr{msg: "close file failed", code: CloseFileErrCode}
}

func NewFileClosedErr() *SeqErr {
	return &SeqErr{msg: "file already closed", code: FileClosedErrCode}
}

func NewMmapFileErr() *SeqErr {
	return &SeqErr{msg: "mmap file failed", code: MmapFileErrCode}
}

func NewCorruptErr() *SeqErr {
	return &SeqErr{msg: "file content corrupt", code: CorruptErrCode}
}

func NewUnsupportedFormatErr() *SeqErr {
	return &SeqErr{msg: "unsupported database format", code: UnsupportedFormatErrCode}
}

func NewCursorClosedErr() *SeqErr {
	return &SeqErr{msg: "cursor already closed", code: CursorClosedErrCode}
}

func NewUnknownMethodErr() *SeqErr {
	return &SeqErr{msg: "unknown access method", code: UnknownMethodErrCode}
}

func NewConfigErr() *SeqErr {
	return &SeqErr{msg: "invalid configuration", code: ConfigErrCode}
}

func NewFieldNotIndexedErr() *SeqErr {
	return &SeqErr{msg: "query field not indexed", code: FieldNotIndexedErrCode}
}

func NewDatabaseNotFoundErr() *SeqErr {
	return &SeqErr{msg: "database not configured", code: DatabaseNotFoundErrCode}
}
