package iface

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		desc  string
		query *Query
		want  Mode
	}{
		{"no field", &Query{}, ModeAll},
		{"exact id", &Query{Id: "BETA"}, ModeEntry},
		{"wildcard id", &Query{Id: "*A"}, ModeQuery},
		{"accession", &Query{Accession: "X12345"}, ModeQuery},
		{"id and keyword", &Query{Id: "BETA", Keyword: "kinase"}, ModeQuery},
		{"explicit mode kept", &Query{Id: "BETA", Mode: ModeQuery}, ModeQuery},
		{"filters only", &Query{Include: []string{"*.dat"}}, ModeAll},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, c.query.Classify(), c.desc)
		assert.Equal(t, c.want, c.query.Mode, c.desc)
	}
}

func TestPopulated(t *testing.T) {
	q := &Query{Organism: "Homo sapiens", Id: "HS*", Accession: "X1"}
	assert.Equal(t, []Field{FieldId, FieldAccession, FieldOrganism}, q.Populated())
	assert.Equal(t, "Homo sapiens", q.Value(FieldOrganism))
	assert.Equal(t, "", q.Value(FieldKeyword))
}

func TestHitOrder(t *testing.T) {
	a := Hit{Division: 1, AnnOffset: 500}
	b := Hit{Division: 2, AnnOffset: 0}
	c := Hit{Division: 1, AnnOffset: 500, SeqOffset: 10}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.True(t, a.Less(c))
	assert.False(t, a.Same(c))
	assert.True(t, a.Same(Hit{Name: "other", Division: 1, AnnOffset: 500}))
}

func TestRecordLines(t *testing.T) {
	r := &Record{Text: []byte("ID   BETA\nDE   second entry\n//\n")}
	sc := r.Lines()
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	assert.Nil(t, sc.Err())
	assert.Equal(t, []string{"ID   BETA", "DE   second entry", "//"}, lines)
}
