package iface

import (
	"github.com/Trinoooo/eggie_seqdb/utils"
)

// Mode 查询方式
type Mode int64

const (
	ModeUnknown Mode = 0 // ModeUnknown 由 Query.Classify 推断
	ModeAll     Mode = 1 // ModeAll 全部记录
	ModeEntry   Mode = 2 // ModeEntry 精确条目名
	ModeQuery   Mode = 3 // ModeQuery 多字段 / 通配符
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeEntry:
		return "entry"
	case ModeQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Field 可检索字段，对应索引目录下的 <name>.trg / <name>.hit
type Field string

const (
	FieldId              Field = "id"
	FieldAccession       Field = "acnum"
	FieldSequenceVersion Field = "seqvn"
	FieldDescription     Field = "des"
	FieldKeyword         Field = "keyword"
	FieldOrganism        Field = "taxon"
)

// TargetFields 拥有二级索引文件的字段，按固定顺序检索
var TargetFields = []Field{
	FieldAccession,
	FieldSequenceVersion,
	FieldDescription,
	FieldKeyword,
	FieldOrganism,
}

// Query 调用方预先解析好的查询
type Query struct {
	Id              string
	Accession       string
	SequenceVersion string
	Description     string
	Keyword         string
	Organism        string
	Mode            Mode

	// Include / Exclude 按数据文件名过滤 division，支持通配符
	Include []string
	Exclude []string
}

// Value 字段对应的查询值
func (q *Query) Value(f Field) string {
	switch f {
	case FieldId:
		return q.Id
	case FieldAccession:
		return q.Accession
	case FieldSequenceVersion:
		return q.SequenceVersion
	case FieldDescription:
		return q.Description
	case FieldKeyword:
		return q.Keyword
	case FieldOrganism:
		return q.Organism
	}
	return ""
}

// Populated 非空的查询字段，Id 排在最前
func (q *Query) Populated() []Field {
	var fields []Field
	if q.Id != "" {
		fields = append(fields, FieldId)
	}
	for _, f := range TargetFields {
		if q.Value(f) != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Classify 调用方未指定 Mode 时推断查询方式
func (q *Query) Classify() Mode {
	if q.Mode != ModeUnknown {
		return q.Mode
	}

	fields := q.Populated()
	switch {
	case len(fields) == 0:
		q.Mode = ModeAll
	case len(fields) == 1 && fields[0] == FieldId && !utils.HasWildcard(q.Id):
		q.Mode = ModeEntry
	default:
		q.Mode = ModeQuery
	}
	return q.Mode
}
