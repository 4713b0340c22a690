package access

import (
	"io"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"go.uber.org/zap"
)

// Cursor 一次查询的迭代器，不可并发使用
// 命中耗尽后返回 io.EOF；其他错误使查询终止，之后每次 Next 都返回同一个错误
type Cursor struct {
	session iface.Session
	method  string
	metrics *MetricsHelper
	err     error
	release func(c *Cursor)
}

func newCursor(session iface.Session, method string, metrics *MetricsHelper, release func(c *Cursor)) *Cursor {
	return &Cursor{
		session: session,
		method:  method,
		metrics: metrics,
		release: release,
	}
}

func (c *Cursor) Next() (*iface.Record, error) {
	if c.err != nil {
		return nil, c.err
	}

	record, err := c.session.Next()
	if err == io.EOF {
		c.finish(io.EOF)
		return nil, io.EOF
	}
	if err != nil {
		logger.Error("query aborted", zap.String(consts.LogFieldMethod, c.method), zap.Error(err))
		c.metrics.countError(err)
		c.finish(err)
		return nil, err
	}

	c.metrics.RecordCounter.WithLabelValues(c.method).Inc()
	return record, nil
}

// Pending 尚未取出的命中数量
func (c *Cursor) Pending() int {
	if c.err != nil {
		return 0
	}
	return c.session.Pending()
}

// Method 记录来源的访问方法
func (c *Cursor) Method() string {
	return c.method
}

// Close 提前放弃查询，之后 Next 返回 CursorClosedErr
func (c *Cursor) Close() error {
	if c.err != nil {
		return nil
	}
	return c.finish(errs.NewCursorClosedErr())
}

func (c *Cursor) finish(err error) error {
	c.err = err
	closeErr := c.session.Close()
	if c.release != nil {
		c.release(c)
	}
	return closeErr
}
