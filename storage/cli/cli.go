package cli

import (
	"io"
	"os"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/access"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	flagConfig = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path of config.yaml, default ~/eggie_seqdb/config/config.yaml.",
		EnvVars: []string{consts.Config},
	}
	flagDatabase = &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "database name configured under databases.",
		EnvVars: []string{consts.Database},
	}
	flagPushGateway = &cli.StringFlag{
		Name:    "push-gateway",
		Usage:   "prometheus pushgateway url, metrics are pushed before exit when set.",
		EnvVars: []string{consts.PushGateway},
	}

	flagInclude = &cli.StringSliceFlag{
		Name:  "include",
		Usage: "only search division files matching these wildcards.",
	}
	flagExclude = &cli.StringSliceFlag{
		Name:  "exclude",
		Usage: "skip division files matching these wildcards.",
	}
)

// queryFlags query 命令的字段 flag，与 fieldAliases 同名
var queryFlags = []struct {
	name  string
	field iface.Field
	usage string
}{
	{"id", iface.FieldId, "entry name, wildcards * and ? are allowed."},
	{"acc", iface.FieldAccession, "accession number."},
	{"sv", iface.FieldSequenceVersion, "sequence version."},
	{"des", iface.FieldDescription, "description word."},
	{"key", iface.FieldKeyword, "keyword."},
	{"org", iface.FieldOrganism, "organism / taxon."},
}

type Wrapper struct {
	app        *cli.App
	dispatcher *access.Dispatcher
	color      bool
}

func NewWrapper() *Wrapper {
	wrapper := &Wrapper{
		app: &cli.App{
			Name:    "eggie_seqdb",
			Usage:   "read-only index and retrieval for EMBL-CD / BLAST / GCG sequence databases",
			Version: "0.0.1.261018_alpha",
		},
	}
	wrapper.modifyDefaultHelp()
	wrapper.withFlags()
	wrapper.withLifecycle()
	wrapper.withCommands()
	wrapper.withAuthor()
	return wrapper
}

// WithWriter 重定向记录输出
func (wrapper *Wrapper) WithWriter(w io.Writer) *Wrapper {
	wrapper.app.Writer = w
	return wrapper
}

func (wrapper *Wrapper) Run(args []string) error {
	return wrapper.app.Run(args)
}

func (wrapper *Wrapper) modifyDefaultHelp() {
	cli.HelpFlag = &cli.BoolFlag{
		Name: "help",
	}
	cli.AppHelpTemplate = consts.HelpTemplate
}

func (wrapper *Wrapper) withFlags() {
	wrapper.app.Flags = []cli.Flag{
		flagConfig,
		flagDatabase,
		flagPushGateway,
	}
}

// withLifecycle 命令执行前加载配置，结束后关闭数据库并推送指标
func (wrapper *Wrapper) withLifecycle() {
	wrapper.app.Before = func(ctx *cli.Context) error {
		config, err := access.LoadConfig(ctx.String(flagConfig.Name))
		if err != nil {
			return err
		}
		wrapper.dispatcher = access.NewDispatcher(config, nil)
		return nil
	}

	wrapper.app.After = func(ctx *cli.Context) error {
		if wrapper.dispatcher == nil {
			return nil
		}
		defer func() {
			wrapper.dispatcher = nil
		}()

		if url := ctx.String(flagPushGateway.Name); url != "" {
			if err := wrapper.dispatcher.Metrics().Push(url); err != nil {
				logs.Warn("prometheus pusher push failed", zap.String(consts.LogFieldPath, url), zap.Error(err))
			}
		}
		return wrapper.dispatcher.Close()
	}
}

func (wrapper *Wrapper) withCommands() {
	queryCmdFlags := []cli.Flag{flagInclude, flagExclude}
	for _, f := range queryFlags {
		queryCmdFlags = append(queryCmdFlags, &cli.StringFlag{Name: f.name, Usage: f.usage})
	}

	wrapper.app.Commands = []*cli.Command{
		{
			Name:      "entry",
			Usage:     "fetch one entry by name, falling back to accession and keyword indices",
			ArgsUsage: "<id>",
			Action: func(ctx *cli.Context) error {
				if ctx.NArg() != 1 {
					e := errs.NewInvalidParamErr().WithErr(errors.New("entry expects exactly one id"))
					logs.Error(e.Error(), zap.Int(consts.LogFieldCount, ctx.NArg()))
					return e
				}
				return wrapper.query(ctx.App.Writer, ctx.String(flagDatabase.Name), &iface.Query{Id: ctx.Args().First()})
			},
		},
		{
			Name:  "query",
			Usage: "search by one or more indexed fields",
			Flags: queryCmdFlags,
			Action: func(ctx *cli.Context) error {
				q := &iface.Query{
					Include: ctx.StringSlice(flagInclude.Name),
					Exclude: ctx.StringSlice(flagExclude.Name),
				}
				for _, f := range queryFlags {
					setField(q, f.field, ctx.String(f.name))
				}
				if len(q.Populated()) > 0 {
					q.Mode = iface.ModeQuery
				}
				return wrapper.query(ctx.App.Writer, ctx.String(flagDatabase.Name), q)
			},
		},
		{
			Name:  "all",
			Usage: "dump every record of the database",
			Flags: []cli.Flag{flagInclude, flagExclude},
			Action: func(ctx *cli.Context) error {
				return wrapper.query(ctx.App.Writer, ctx.String(flagDatabase.Name), &iface.Query{
					Mode:    iface.ModeAll,
					Include: ctx.StringSlice(flagInclude.Name),
					Exclude: ctx.StringSlice(flagExclude.Name),
				})
			},
		},
		{
			Name:  "info",
			Usage: "show index header of --db, or of every configured database",
			Action: func(ctx *cli.Context) error {
				return wrapper.info(ctx.App.Writer, ctx.String(flagDatabase.Name))
			},
		},
		{
			Name:  "shell",
			Usage: "interactive query shell",
			Action: func(ctx *cli.Context) error {
				wrapper.color = true
				return wrapper.shell(ctx.App.Writer, ctx.String(flagDatabase.Name))
			},
		},
	}
}

func (wrapper *Wrapper) withAuthor() {
	wrapper.app.Authors = []*cli.Author{
		{
			Name:  "Trino",
			Email: "sujun.trinoooo@gmail.com",
		},
	}
}

// query 执行一次查询并输出全部记录
func (wrapper *Wrapper) query(w io.Writer, db string, q *iface.Query) error {
	if db == "" {
		e := errs.NewInvalidParamErr().WithErr(errors.New("no database selected, use --db"))
		logs.Error(e.Error(), zap.String(consts.LogFieldParams, flagDatabase.Name))
		return e
	}

	cursor, err := wrapper.dispatcher.Open(db, q)
	if err != nil {
		return err
	}
	defer cursor.Close()

	p := newPrinter(writer(w), wrapper.color)
	for {
		record, err := cursor.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err = p.record(record); err != nil {
			return err
		}
	}
}

func (wrapper *Wrapper) info(w io.Writer, db string) error {
	names := []string{db}
	if db == "" {
		names = access.Databases(wrapper.dispatcher.Config())
	}

	p := newPrinter(writer(w), wrapper.color)
	for i, name := range names {
		info, err := wrapper.dispatcher.Info(name)
		if err != nil {
			return err
		}
		if i > 0 {
			p.line("")
		}
		if err = p.info(name, info); err != nil {
			return err
		}
	}
	return nil
}

func writer(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
