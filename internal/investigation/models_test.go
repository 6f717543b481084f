package investigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"argus/pkg/platform/sentinel"
)

type StateSuite struct {
	suite.Suite
}

func TestStateSuite(t *testing.T) {
	suite.Run(t, new(StateSuite))
}

func (s *StateSuite) TestEntityTypeValid() {
	for _, t := range []EntityType{EntityUser, EntityDevice, EntityIP, EntityEmail, EntityMerchant} {
		s.True(t.Valid(), string(t))
	}
	s.False(EntityType("account").Valid())
	s.False(EntityType("").Valid())
}

func (s *StateSuite) TestNewState() {
	st := NewState("user-1", EntityUser, map[string]any{"results": []any{}}, map[string]any{"ipinfo": map[string]any{}})

	s.NotEmpty(st.ID)
	s.Equal("user-1", st.EntityID)
	s.Equal(EntityUser, st.EntityType)
	s.Equal(1, st.ToolCount())
	s.Empty(st.AllFindings())
}

// =============================================================================
// Single writer per findings key
// =============================================================================

func (s *StateSuite) TestPutFindings() {
	s.Run("first write per domain accepted", func() {
		st := NewState("user-1", EntityUser, nil, nil)
		s.Require().NoError(st.PutFindings(NewFindings(DomainNetwork)))

		f, ok := st.Findings(DomainNetwork)
		s.True(ok)
		s.Equal(DomainNetwork, f.Domain)
	})

	s.Run("second write to the same domain rejected", func() {
		st := NewState("user-1", EntityUser, nil, nil)
		s.Require().NoError(st.PutFindings(NewFindings(DomainNetwork)))

		err := st.PutFindings(NewFindings(DomainNetwork))
		s.ErrorIs(err, ErrDomainAlreadyWritten)
		s.ErrorIs(err, sentinel.ErrConflict, "duplicate writes are conflicts to callers")
	})

	s.Run("findings without a domain rejected", func() {
		st := NewState("user-1", EntityUser, nil, nil)
		s.ErrorIs(st.PutFindings(&Findings{}), ErrInvalidFindings)
		s.ErrorIs(st.PutFindings(nil), ErrInvalidFindings)
	})
}

func (s *StateSuite) TestAllFindingsIsACopy() {
	st := NewState("user-1", EntityUser, nil, nil)
	s.Require().NoError(st.PutFindings(NewFindings(DomainNetwork)))

	snapshot := st.AllFindings()
	delete(snapshot, DomainNetwork)

	_, ok := st.Findings(DomainNetwork)
	s.True(ok, "mutating the snapshot must not touch the state")
}

// =============================================================================
// Raw fact extraction
// =============================================================================

func TestRecords(t *testing.T) {
	t.Run("nil raw facts are a valid empty answer", func(t *testing.T) {
		records, ok := Records(nil)
		assert.True(t, ok)
		assert.Empty(t, records)
	})

	t.Run("bare string means the upstream response was not structured", func(t *testing.T) {
		_, ok := Records("ERROR: retrieval backend timed out")
		assert.False(t, ok)
	})

	t.Run("non-map payload is not structured", func(t *testing.T) {
		_, ok := Records([]any{map[string]any{"amount": 10.0}})
		assert.False(t, ok)
	})

	t.Run("results rows become records, non-map rows are skipped", func(t *testing.T) {
		raw := map[string]any{"results": []any{
			map[string]any{"amount": 10.0},
			"stray line",
			map[string]any{"amount": 20.0},
		}}
		records, ok := Records(raw)
		require.True(t, ok)
		require.Len(t, records, 2)
		v, numOK := records[1].Float("amount")
		assert.True(t, numOK)
		assert.Equal(t, 20.0, v)
	})

	t.Run("missing results key is a zero-record answer", func(t *testing.T) {
		records, ok := Records(map[string]any{"status": "ok"})
		assert.True(t, ok)
		assert.Empty(t, records)
	})
}

func TestRecordIsNull(t *testing.T) {
	rec := Record{
		"present": "value",
		"empty":   "",
		"upper":   "NULL",
		"lower":   "null",
		"nilval":  nil,
		"zero":    0,
	}
	assert.False(t, rec.IsNull("present"))
	assert.True(t, rec.IsNull("empty"))
	assert.True(t, rec.IsNull("upper"))
	assert.True(t, rec.IsNull("lower"))
	assert.True(t, rec.IsNull("nilval"))
	assert.True(t, rec.IsNull("absent"))
	assert.False(t, rec.IsNull("zero"), "numeric zero is a value, not a gap")
}
