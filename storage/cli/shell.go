package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/Trinoooo/eggie_seqdb/utils"
	"github.com/chzyer/readline"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

const shellUsage = `commands:
  use <db>                   switch database
  entry <id>                 fetch one entry
  query field=value ...      fields: id acc sv des key org include exclude
  all [include=..] [exclude=..]
  info
  exit`

func (wrapper *Wrapper) shell(w io.Writer, db string) error {
	input, err := readline.NewEx(&readline.Config{
		Prompt: prompt(db),
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("use"),
			readline.PcItem("entry"),
			readline.PcItem("query",
				readline.PcItem("id="),
				readline.PcItem("acc="),
				readline.PcItem("sv="),
				readline.PcItem("des="),
				readline.PcItem("key="),
				readline.PcItem("org="),
			),
			readline.PcItem("all"),
			readline.PcItem("info"),
			readline.PcItem("help"),
			readline.PcItem("exit"),
		),
		HistoryFile: fmt.Sprintf("/tmp/eggie_seqdb/cli/cmd_history_%s", time.Now().Format("20060102")),
	})
	if err != nil {
		return err
	}
	defer input.Close()
	input.CaptureExitSignal()

	out := writer(w)
	for {
		str, err := input.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			logs.Error("read line failed", zap.Error(err))
			continue
		}

		exit, err := wrapper.handleLine(out, &db, str)
		if err != nil {
			fmt.Fprintln(out, utils.WrapError("%v", err))
		}
		if exit {
			return nil
		}
		input.SetPrompt(prompt(db))
	}
}

func prompt(db string) string {
	if db == "" {
		return "> "
	}
	return db + "> "
}

// handleLine 执行一行交互命令，db 可能被 use 修改
func (wrapper *Wrapper) handleLine(w io.Writer, db *string, line string) (bool, error) {
	tokens, err := splitLine(line)
	if err != nil {
		return false, err
	}
	if len(tokens) == 0 {
		return false, nil
	}

	cmd, args := strings.ToLower(tokens[0]), tokens[1:]
	switch cmd {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprintln(w, shellUsage)
		return false, nil
	case "use":
		if len(args) != 1 {
			return false, invalidLine(line)
		}
		if _, err := wrapper.dispatcher.Database(args[0]); err != nil {
			return false, err
		}
		*db = args[0]
		return false, nil
	case "info":
		return false, wrapper.info(w, *db)
	case "entry":
		if len(args) != 1 {
			return false, invalidLine(line)
		}
		return false, wrapper.query(w, *db, &iface.Query{Id: args[0]})
	case "query", "all":
		q, err := parseAssignments(joinAssignments(args))
		if err != nil {
			return false, err
		}
		if cmd == "all" {
			if len(q.Populated()) > 0 {
				return false, invalidLine(line)
			}
			q.Mode = iface.ModeAll
		} else if len(q.Populated()) == 0 {
			return false, invalidLine(line)
		} else {
			q.Mode = iface.ModeQuery
		}
		return false, wrapper.query(w, *db, q)
	}
	return false, invalidLine(line)
}

func invalidLine(line string) error {
	e := errs.NewInvalidParamErr().WithErr(pkgerrors.Errorf("cannot parse %q, type help for usage", line))
	logs.Error(e.Error(), zap.String(consts.LogFieldParams, line))
	return e
}

// splitLine 按空白切分，单引号或双引号内的空白保留，引号本身去掉
func splitLine(line string) ([]string, error) {
	var (
		tokens  []string
		cur     strings.Builder
		quote   rune
		inToken bool
	)
	for _, c := range line {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
				continue
			}
			cur.WriteRune(c)
		case c == '"' || c == '\'':
			quote = c
			inToken = true
		case unicode.IsSpace(c):
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(c)
			inToken = true
		}
	}
	if quote != 0 {
		e := errs.NewInvalidParamErr().WithErr(pkgerrors.Errorf("unterminated %c in %q", quote, line))
		logs.Error(e.Error(), zap.String(consts.LogFieldParams, line))
		return nil, e
	}
	if inToken {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

// joinAssignments 不含 = 的词接到前一个 field=value 的值后面
// org=Homo sapiens 得到 "org=Homo sapiens"
func joinAssignments(tokens []string) []string {
	var out []string
	for _, token := range tokens {
		if n := len(out); n > 0 && !strings.Contains(token, "=") {
			out[n-1] += " " + token
			continue
		}
		out = append(out, token)
	}
	return out
}
