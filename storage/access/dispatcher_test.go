package access

import (
	"io"
	"sync"
	"testing"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario(t *testing.T) {
	d := newDispatcher(t)

	c, err := d.Open("embl", &iface.Query{Id: "beta"})
	require.Nil(t, err)
	r, err := c.Next()
	require.Nil(t, err)
	assert.Equal(t, "BETA", r.Name)
	assert.Equal(t, "abc.dat", r.Division)
	assert.Equal(t, embl("BETA", "ggcc"), string(r.Text))
	assert.Equal(t, "ggcc", string(r.Seq))
	_, err = c.Next()
	assert.Equal(t, io.EOF, err)

	// BETA 同样以 A 结尾，通配符按字面匹配，*A 命中全部三条而不只是 ALPHA、GAMMA
	// 只取 ALPHA、GAMMA 需要 *A 之外的条件，例如 *a*a
	assert.Equal(t, []string{"ALPHA", "BETA", "GAMMA"}, query(t, d, "embl", &iface.Query{Id: "*A"}))
	assert.Equal(t, []string{"ALPHA", "GAMMA"}, query(t, d, "embl", &iface.Query{Id: "*a*a"}))
	assert.Empty(t, query(t, d, "embl", &iface.Query{Id: "missing"}))
	assert.Equal(t, []string{"ALPHA", "BETA", "GAMMA"}, query(t, d, "embl", &iface.Query{}))

	assert.Equal(t, []string{"HSFAU"}, query(t, d, "gcg", &iface.Query{Id: "hsfau"}))
}

func TestDatabaseCache(t *testing.T) {
	d := newDispatcher(t)

	embl, err := d.Database("embl")
	require.Nil(t, err)
	alias, err := d.Database("alias")
	require.Nil(t, err)
	assert.Same(t, embl, alias)

	gcg, err := d.Database("gcg")
	require.Nil(t, err)
	assert.NotSame(t, embl, gcg)

	var wg sync.WaitGroup
	cores := make([]iface.ICore, 8)
	for i := range cores {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cores[i], _ = d.Database("gcg")
		}(i)
	}
	wg.Wait()
	for _, c := range cores {
		assert.Same(t, gcg, c)
	}
}

func TestDatabaseErrors(t *testing.T) {
	d := newDispatcher(t)

	_, err := d.Open("srs", &iface.Query{Id: "x"})
	assert.Equal(t, errs.UnknownMethodErrCode, errs.GetCode(err))
	_, err = d.Open("unknown", &iface.Query{Id: "x"})
	assert.Equal(t, errs.DatabaseNotFoundErrCode, errs.GetCode(err))
	_, err = d.Open("embl", nil)
	assert.Equal(t, errs.InvalidParamErrCode, errs.GetCode(err))
}

func TestInfo(t *testing.T) {
	d := newDispatcher(t)

	info, err := d.Info("embl")
	require.Nil(t, err)
	assert.Equal(t, consts.MethodEmblcd, info.Method)
	assert.Equal(t, "abc", info.Name)
	assert.Equal(t, uint32(3), info.Entries)
	assert.Equal(t, []string{"abc.dat"}, info.Divisions)

	info, err = d.Info("gcg")
	require.Nil(t, err)
	assert.Equal(t, consts.MethodGcg, info.Method)
}

func TestDispatch(t *testing.T) {
	d := newDispatcher(t)
	core, err := d.Database("embl")
	require.Nil(t, err)

	_, err = Dispatch(core, &iface.Query{Id: "x", Mode: iface.Mode(9)})
	assert.Equal(t, errs.InvalidParamErrCode, errs.GetCode(err))

	// 显式指定的方式优先于推断
	s, err := Dispatch(core, &iface.Query{Mode: iface.ModeAll, Id: "BETA"})
	require.Nil(t, err)
	assert.Equal(t, 3, s.Pending())
	require.Nil(t, s.Close())
}

func TestCursorReuse(t *testing.T) {
	d := newDispatcher(t)

	q := &iface.Query{}
	c1, err := d.Open("embl", q)
	require.Nil(t, err)
	r, err := c1.Next()
	require.Nil(t, err)
	assert.Equal(t, "ALPHA", r.Name)
	assert.Equal(t, 2, c1.Pending())

	c2, err := d.Open("embl", q)
	require.Nil(t, err)
	assert.Same(t, c1, c2)
	assert.Equal(t, []string{"BETA", "GAMMA"}, drain(t, c2))

	// 耗尽后重新查询
	c3, err := d.Open("embl", q)
	require.Nil(t, err)
	assert.NotSame(t, c1, c3)
	assert.Equal(t, 3, c3.Pending())

	// 不同数据库不复用
	c4, err := d.Open("alias", q)
	require.Nil(t, err)
	assert.NotSame(t, c3, c4)
}

func TestCursorClose(t *testing.T) {
	d := newDispatcher(t)

	c, err := d.Open("embl", &iface.Query{})
	require.Nil(t, err)
	assert.Equal(t, consts.MethodEmblcd, c.Method())
	require.Nil(t, c.Close())
	assert.Equal(t, 0, c.Pending())

	_, err = c.Next()
	assert.Equal(t, errs.CursorClosedErrCode, errs.GetCode(err))
	require.Nil(t, c.Close())

	// 耗尽后保持 io.EOF
	c, err = d.Open("embl", &iface.Query{Id: "ALPHA"})
	require.Nil(t, err)
	assert.Equal(t, []string{"ALPHA"}, drain(t, c))
	_, err = c.Next()
	assert.Equal(t, io.EOF, err)
	require.Nil(t, c.Close())
	_, err = c.Next()
	assert.Equal(t, io.EOF, err)
}

func TestCursorFatal(t *testing.T) {
	d := newDispatcher(t)

	c, err := d.Open("nodata", &iface.Query{})
	require.Nil(t, err)
	assert.Equal(t, 3, c.Pending())

	_, err = c.Next()
	assert.Equal(t, errs.OpenFileErrCode, errs.GetCode(err))
	assert.Equal(t, 0, c.Pending())
	_, again := c.Next()
	assert.Equal(t, err, again)
}

func TestDispatcherClose(t *testing.T) {
	d := newDispatcher(t)

	c, err := d.Open("embl", &iface.Query{})
	require.Nil(t, err)
	_, err = d.Database("gcg")
	require.Nil(t, err)

	require.Nil(t, d.Close())
	require.Nil(t, d.Close())

	_, err = c.Next()
	assert.Equal(t, errs.CursorClosedErrCode, errs.GetCode(err))

	_, err = d.Open("embl", &iface.Query{})
	assert.Equal(t, errs.InvalidParamErrCode, errs.GetCode(err))
}

func TestMetrics(t *testing.T) {
	d := newDispatcher(t)
	m := d.Metrics()

	query(t, d, "embl", &iface.Query{Id: "beta"})
	query(t, d, "embl", &iface.Query{Id: "missing"})
	query(t, d, "embl", &iface.Query{Id: "*a*a"})

	assert.Equal(t, float64(2), testutil.ToFloat64(m.QueryCounter.WithLabelValues(consts.MethodEmblcd, iface.ModeEntry.String())))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.QueryCounter.WithLabelValues(consts.MethodEmblcd, iface.ModeQuery.String())))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.HitCounter.WithLabelValues(consts.MethodEmblcd)))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.RecordCounter.WithLabelValues(consts.MethodEmblcd)))

	c, err := d.Open("nodata", &iface.Query{Id: "ALPHA"})
	require.Nil(t, err)
	_, err = c.Next()
	require.NotNil(t, err)
	_, err = d.Open("srs", &iface.Query{})
	require.NotNil(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorCounter.WithLabelValues("100002")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorCounter.WithLabelValues("200001")))

	families, err := m.Registry().Gather()
	require.Nil(t, err)
	assert.NotEmpty(t, families)
}
