package access

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/bytedance/gopkg/util/gopool"
	"github.com/luci/go-render/render"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// dbKey 同一索引目录、同一访问方法的数据库只打开一次
type dbKey struct {
	indexDir string
	method   string
}

func (k dbKey) String() string {
	return k.method + ":" + k.indexDir
}

// cursorKey 同一个数据库上同一个查询对象复用游标
type cursorKey struct {
	database string
	query    *iface.Query
}

type database struct {
	core   iface.ICore
	method string
}

// Dispatcher 根据配置把查询分发给对应访问方法的数据库实例
// 打开的数据库被缓存，直到 Close 才统一关闭
type Dispatcher struct {
	config  *viper.Viper
	metrics *MetricsHelper

	mu      sync.Mutex
	dbs     map[dbKey]*database
	cursors map[cursorKey]*Cursor
	closed  bool
	group   singleflight.Group
}

func NewDispatcher(config *viper.Viper, metrics *MetricsHelper) *Dispatcher {
	if metrics == nil {
		metrics = NewMetricsHelper()
	}
	return &Dispatcher{
		config:  config,
		metrics: metrics,
		dbs:     make(map[dbKey]*database),
		cursors: make(map[cursorKey]*Cursor),
	}
}

func (d *Dispatcher) Config() *viper.Viper {
	return d.config
}

func (d *Dispatcher) Metrics() *MetricsHelper {
	return d.metrics
}

// Database 取得已打开的数据库，未打开时按配置构建
// 并发打开同一个数据库只会真正执行一次
func (d *Dispatcher) Database(name string) (iface.ICore, error) {
	db, err := d.database(name)
	if err != nil {
		return nil, err
	}
	return db.core, nil
}

func (d *Dispatcher) database(name string) (*database, error) {
	config, err := DatabaseConfig(d.config, name)
	if err != nil {
		d.metrics.countError(err)
		return nil, err
	}

	key := dbKey{
		indexDir: filepath.Clean(config.GetString(consts.ConfigIndexDir)),
		method:   strings.ToLower(strings.TrimSpace(config.GetString(consts.ConfigMethod))),
	}

	v, err, _ := d.group.Do(key.String(), func() (interface{}, error) {
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			return nil, errs.NewInvalidParamErr().WithErr(errors.New("dispatcher closed"))
		}
		db, ok := d.dbs[key]
		d.mu.Unlock()
		if ok {
			return db, nil
		}

		builder, err := core.Resolve(key.method)
		if err != nil {
			return nil, err
		}
		c, err := builder(config)
		if err != nil {
			return nil, err
		}
		db = &database{core: c, method: key.method}

		d.mu.Lock()
		defer d.mu.Unlock()
		if d.closed {
			_ = c.Close()
			return nil, errs.NewInvalidParamErr().WithErr(errors.New("dispatcher closed"))
		}
		d.dbs[key] = db
		logger.Info("database opened", zap.String(consts.LogFieldDatabase, name), zap.String(consts.LogFieldMethod, key.method), zap.String(consts.LogFieldPath, key.indexDir))
		return db, nil
	})
	if err != nil {
		d.metrics.countError(err)
		return nil, err
	}
	return v.(*database), nil
}

// Open 在数据库 name 上执行查询，返回游标
// 同一个查询对象的游标尚有未取出的命中时直接复用
func (d *Dispatcher) Open(name string, q *iface.Query) (*Cursor, error) {
	if q == nil {
		e := errs.NewInvalidParamErr().WithErr(errors.New("nil query"))
		logger.Error(e.Error(), zap.String(consts.LogFieldDatabase, name))
		return nil, e
	}

	ck := cursorKey{database: name, query: q}
	d.mu.Lock()
	if c, ok := d.cursors[ck]; ok && c.Pending() > 0 {
		d.mu.Unlock()
		return c, nil
	}
	d.mu.Unlock()

	db, err := d.database(name)
	if err != nil {
		return nil, err
	}

	mode := q.Classify()
	logger.Debug(fmt.Sprintf("query: %s", render.Render(q)), zap.String(consts.LogFieldDatabase, name))

	session, err := Dispatch(db.core, q)
	if err != nil {
		d.metrics.countError(err)
		return nil, err
	}
	d.metrics.QueryCounter.WithLabelValues(db.method, mode.String()).Inc()
	d.metrics.HitCounter.WithLabelValues(db.method).Add(float64(session.Pending()))

	c := newCursor(session, db.method, d.metrics, func(c *Cursor) {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.cursors[ck] == c {
			delete(d.cursors, ck)
		}
	})

	d.mu.Lock()
	d.cursors[ck] = c
	d.mu.Unlock()
	return c, nil
}

// Info 数据库元信息
func (d *Dispatcher) Info(name string) (*iface.Info, error) {
	db, err := d.Database(name)
	if err != nil {
		return nil, err
	}
	return db.Info(), nil
}

// Dispatch 按查询方式选择访问方法的查找函数
func Dispatch(c iface.ICore, q *iface.Query) (iface.Session, error) {
	switch q.Classify() {
	case iface.ModeAll:
		return c.All(q)
	case iface.ModeEntry:
		return c.ById(q)
	case iface.ModeQuery:
		return c.ByQuery(q)
	}
	e := errs.NewInvalidParamErr().WithErr(errors.Errorf("query mode %d", q.Mode))
	logger.Error(e.Error(), zap.String(consts.LogFieldParams, "mode"), zap.Int64(consts.LogFieldValue, int64(q.Mode)))
	return nil, e
}

// Close 关闭全部游标和数据库，数据库并行关闭
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	cursors := make([]*Cursor, 0, len(d.cursors))
	for _, c := range d.cursors {
		cursors = append(cursors, c)
	}
	dbs := make([]*database, 0, len(d.dbs))
	for _, db := range d.dbs {
		dbs = append(dbs, db)
	}
	d.dbs = make(map[dbKey]*database)
	d.mu.Unlock()

	for _, c := range cursors {
		_ = c.Close()
	}

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	for _, db := range dbs {
		db := db
		wg.Add(1)
		gopool.Go(func() {
			defer wg.Done()
			if err := db.core.Close(); err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
			}
		})
	}
	wg.Wait()
	return firstErr
}
