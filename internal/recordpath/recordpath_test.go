package recordpath_test

import (
	"testing"

	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/scanset/ESP-Agent-SDK/internal/recordpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_NameSegment(t *testing.T) {
	rec := model.NewRecord(model.NewRecordMap(model.RecordField{Name: "size", Value: model.NewInt(42)}))
	got := recordpath.Evaluate(rec, []model.PathSegment{model.NamePath("size")})
	require.Len(t, got, 1)
	assert.Equal(t, int64(42), got[0].Int)
}

func TestEvaluate_MissingNameYieldsEmpty(t *testing.T) {
	rec := model.NewRecord(model.NewRecordMap(model.RecordField{Name: "size", Value: model.NewInt(42)}))
	got := recordpath.Evaluate(rec, []model.PathSegment{model.NamePath("missing")})
	assert.Empty(t, got)
}

func TestEvaluate_IndexOutOfRangeYieldsEmpty(t *testing.T) {
	rec := model.NewRecord(model.NewRecordSeq(model.NewString("a"), model.NewString("b")))
	got := recordpath.Evaluate(rec, []model.PathSegment{model.IndexPath(5)})
	assert.Empty(t, got)
}

func TestEvaluate_WildcardOnSequence(t *testing.T) {
	rec := model.NewRecord(model.NewRecordSeq(model.NewInt(1), model.NewInt(2), model.NewInt(3)))
	got := recordpath.Evaluate(rec, []model.PathSegment{model.WildcardPath()})
	assert.Len(t, got, 3)
}

func TestEvaluate_WildcardOnMapping(t *testing.T) {
	rec := model.NewRecord(model.NewRecordMap(
		model.RecordField{Name: "a", Value: model.NewInt(1)},
		model.RecordField{Name: "b", Value: model.NewInt(2)},
	))
	got := recordpath.Evaluate(rec, []model.PathSegment{model.WildcardPath()})
	assert.Len(t, got, 2)
}

func TestEvaluate_MultipleWildcardsCombineMultiplicatively(t *testing.T) {
	inner1 := model.NewRecord(model.NewRecordSeq(model.NewInt(1), model.NewInt(2)))
	inner2 := model.NewRecord(model.NewRecordSeq(model.NewInt(3), model.NewInt(4), model.NewInt(5)))
	rec := model.NewRecord(model.NewRecordSeq(inner1, inner2))

	got := recordpath.Evaluate(rec, []model.PathSegment{model.WildcardPath(), model.WildcardPath()})
	assert.Len(t, got, 5)
}

func TestCheckEntity_AllRequiresNonEmpty(t *testing.T) {
	allTrue := func(model.Value) (bool, error) { return true, nil }
	ok, err := recordpath.CheckEntity(nil, model.EntityAll, allTrue)
	require.NoError(t, err)
	assert.False(t, ok, "all over zero values must not vacuously pass")
}

func TestCheckEntity_NoneOverEmptyPasses(t *testing.T) {
	allTrue := func(model.Value) (bool, error) { return true, nil }
	ok, err := recordpath.CheckEntity(nil, model.EntityNone, allTrue)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckEntity_OnlyOne(t *testing.T) {
	values := []model.Value{model.NewInt(1), model.NewInt(2), model.NewInt(3)}
	isTwo := func(v model.Value) (bool, error) { return v.Int == 2, nil }
	ok, err := recordpath.CheckEntity(values, model.EntityOnlyOne, isTwo)
	require.NoError(t, err)
	assert.True(t, ok)
}
