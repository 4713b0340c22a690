package gcg

import (
	"io"

	"github.com/Trinoooo/eggie_seqdb/consts"
	"github.com/Trinoooo/eggie_seqdb/storage/core/binfile"
	"github.com/Trinoooo/eggie_seqdb/storage/core/cdindex"
	"github.com/Trinoooo/eggie_seqdb/storage/core/iface"
	"github.com/Trinoooo/eggie_seqdb/storage/core/logs"
	"go.uber.org/zap"
)

type session struct {
	idx  *cdindex.Index
	hits *cdindex.HitList

	division *cdindex.Division
	ref      *binfile.File
	seq      *binfile.File
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

	text, err := s.ref.ReadLines(int64(h.AnnOffset), annotationExtent)
	if err != nil {
		return nil, err
	}
	c, err := readSequence(s.seq, int64(h.SeqOffset))
	if err != nil {
		return nil, err
	}

	return &iface.Record{
		Name:      h.Name,
		Division:  s.division.File,
		AnnOffset: h.AnnOffset,
		SeqOffset: h.SeqOffset,
		Text:      text,
		Seq:       c.seq,
	}, nil
}

func (s *session) switchDivision(code uint16) error {
	d, err := s.idx.Division(code)
	if err != nil {
		return err
	}
	s.closeFiles()

	refPath, seqPath := paths(d)
	order := s.idx.Order()
	if s.ref, err = binfile.Open(s.idx.Path(refPath), order, false); err != nil {
		return err
	}
	if s.seq, err = binfile.Open(s.idx.Path(seqPath), order, false); err != nil {
		return err
	}
	s.division = d

	logs.Debug("switch division",
		zap.Uint16(consts.LogFieldDivision, code),
		zap.String(consts.LogFieldPath, seqPath),
	)
	return nil
}

func (s *session) closeFiles() {
	if s.ref != nil {
		_ = s.ref.Close()
		s.ref = nil
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
