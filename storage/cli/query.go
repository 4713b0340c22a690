package cli

import (
	"strings"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/errs"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// fieldAliases 交互命令 query 中 key=value 的 key，同时接受命令行 flag 名和字段名
var fieldAliases = map[string]iface.Field{
	"id":      iface.FieldId,
	"acc":     iface.FieldAccession,
	"acnum":   iface.FieldAccession,
	"sv":      iface.FieldSequenceVersion,
	"seqvn":   iface.FieldSequenceVersion,
	"des":     iface.FieldDescription,
	"key":     iface.FieldKeyword,
	"keyword": iface.FieldKeyword,
	"org":     iface.FieldOrganism,
	"taxon":   iface.FieldOrganism,
}

func setField(q *iface.Query, f iface.Field, value string) {
	switch f {
	case iface.FieldId:
		q.Id = value
	case iface.FieldAccession:
		q.Accession = value
	case iface.FieldSequenceVersion:
		q.SequenceVersion = value
	case iface.FieldDescription:
		q.Description = value
	case iface.FieldKeyword:
		q.Keyword = value
	case iface.FieldOrganism:
		q.Organism = value
	}
}

// parseAssignments 解析 field=value 列表，include / exclude 的取值以逗号分隔
func parseAssignments(tokens []string) (*iface.Query, error) {
	q := &iface.Query{}
	for _, token := range tokens {
		key, value, ok := strings.Cut(token, "=")
		if !ok || value == "" {
			e := errs.NewInvalidParamErr().WithErr(errors.Errorf("expect field=value, got %q", token))
			logs.Error(e.Error(), zap.String(consts.LogFieldParams, token))
			return nil, e
		}

		key = strings.ToLower(key)
		switch key {
		case "include":
			q.Include = append(q.Include, splitList(value)...)
			continue
		case "exclude":
			q.Exclude = append(q.Exclude, splitList(value)...)
			continue
		}

		f, ok := fieldAliases[key]
		if !ok {
			e := errs.NewInvalidParamErr().WithErr(errors.Errorf("unknown field %q", key))
			logs.Error(e.Error(), zap.String(consts.LogFieldField, key))
			return nil, e
		}
		setField(q, f, value)
	}
	return q, nil
}

func splitList(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
