package blast

import (
	"bytes"
	"io"
	"path/filepath"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/storage/core/cdindex"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"go.uber.org/zap"
)

// session 一次查询，独占当前 division 的 BLAST 文件句柄
type session struct {
	db   *Blast
	hits *cdindex.HitList

	division uint16
	files    *files
	closed   bool
}

func newSession(db *Blast, hits *cdindex.HitList) *session {
	return &session{db: db, hits: hits}
}

func (s *session) Next() (*iface.Record, error) {
	if s.closed {
		return nil, io.EOF
	}

	h, ok := s.hits.Pop()
	if !ok {
		_ = s.Close()
		return nil, io.EOF
	}

	if s.files == nil || s.division != h.Division {
		if err := s.switchDivision(h.Division); err != nil {
			return nil, err
		}
	}

	text, err := s.files.header(h.AnnOffset)
	if err != nil {
		return nil, err
	}
	seq, err := s.files.sequence(h.AnnOffset)
	if err != nil {
		return nil, err
	}

	name := h.Name
	if name == "" {
		name = headerName(text)
	}
	return &iface.Record{
		Name:      name,
		Division:  filepath.Base(s.files.base),
		AnnOffset: h.AnnOffset,
		SeqOffset: h.SeqOffset,
		Text:      append(text, '\n'),
		Seq:       seq,
	}, nil
}

func (s *session) switchDivision(code uint16) error {
	if s.files != nil {
		s.files.close()
		s.files = nil
	}

	table, base, err := s.db.table(code)
	if err != nil {
		return err
	}
	fs, err := openFiles(base, table)
	if err != nil {
		return err
	}
	s.files, s.division = fs, code

	logs.Debug("switch division",
		zap.Uint16(consts.LogFieldDivision, code),
		zap.String(consts.LogFieldPath, base),
		zap.String("kind", table.Kind.String()),
	)
	return nil
}

// headerName 标题行 '>' 之后的第一个词
func headerName(text []byte) string {
	fields := bytes.Fields(bytes.TrimPrefix(text, []byte(">")))
	if len(fields) == 0 {
		return ""
	}
	return string(fields[0])
}

func (s *session) Pending() int {
	if s.closed {
		return 0
	}
	return s.hits.Len()
}

func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.files != nil {
		s.files.close()
		s.files = nil
	}
	return nil
}
