package emblcd

import (
	"io"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/storage/core/binfile"
	"github.com/Trinoooo/eggie_seqdb/storage/core/cdindex"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"go.uber.org/zap"
)

// session 一次查询，独占当前 division 的数据文件和序列文件句柄
type session struct {
	idx  *cdindex.Index
	hits *cdindex.HitList

	division *cdindex.Division
	data     *binfile.File
	seq      *binfile.File // seq 为nil时序列取自数据文件中的记录本身
	closed   bool
}

func newSession(idx *cdindex.Index, hits *cdindex.HitList) *session {
	return &session{idx: idx, hits: hits}
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

	if s.division == nil || s.division.Code != h.Division {
		if err := s.switchDivision(h.Division); err != nil {
			return nil, err
		}
	}

	text, err := s.data.ReadLines(int64(h.AnnOffset), recordExtent)
	if err != nil {
		return nil, err
	}

	var seq []byte
	if s.seq != nil {
		body, err := s.seq.ReadLines(int64(h.SeqOffset), fastaExtent)
		if err != nil {
			return nil, err
		}
		seq = fastaResidues(body)
	} else {
		seq = recordResidues(text)
	}

	return &iface.Record{
		Name:      h.Name,
		Division:  s.division.File,
		AnnOffset: h.AnnOffset,
		SeqOffset: h.SeqOffset,
		Text:      text,
		Seq:       seq,
	}, nil
}

// switchDivision 关闭上一个 division 的文件，打开新的
func (s *session) switchDivision(code uint16) error {
	d, err := s.idx.Division(code)
	if err != nil {
		return err
	}
	s.closeFiles()

	order := s.idx.Order()
	data, err := binfile.Open(s.idx.Path(d.File), order, false)
	if err != nil {
		return err
	}
	s.data = data

	if d.SeqFile != "" {
		seq, err := binfile.Open(s.idx.Path(d.SeqFile), order, false)
		if err != nil {
			return err
		}
		s.seq = seq
	}
	s.division = d

	logs.Debug("switch division",
		zap.Uint16(consts.LogFieldDivision, code),
		zap.String(consts.LogFieldPath, d.File),
	)
	return nil
}

func (s *session) closeFiles() {
	if s.data != nil {
		_ = s.data.Close()
		s.data = nil
	}
	if s.seq != nil {
		_ = s.seq.Close()
		s.seq = nil
	}
	s.division = nil
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
	s.closeFiles()
	return nil
}
