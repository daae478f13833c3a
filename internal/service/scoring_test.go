package service

import (
	"testing"

	"campus_erp_backend/internal/model"
)

// fourQuestionBlueprint builds an in-memory blueprint with fixed sub-question
// ids: Q1 owns 11/12, Q2 owns 21/22, and so on.
func fourQuestionBlueprint() *model.CIEBlueprint {
	bp := &model.CIEBlueprint{PartRules: model.DefaultPartRules()}
	for no := 1; no <= 4; no++ {
		q := model.BlueprintQuestion{QuestionNo: no}
		for part := 1; part <= 2; part++ {
			sq := model.SubQuestion{MaxMarks: 5}
			sq.ID = uint(no*10 + part)
			q.SubQuestions = append(q.SubQuestions, sq)
		}
		bp.Questions = append(bp.Questions, q)
	}
	return bp
}

func TestComputeAggregateBestOfEachPart(t *testing.T) {
	bp := fourQuestionBlueprint()

	// question totals 8, 6, 9, 7
	marks := map[uint]float64{
		11: 4, 12: 4,
		21: 3, 22: 3,
		31: 5, 32: 4,
		41: 4, 42: 3,
	}

	agg := ComputeAggregate(bp, marks)

	wantTotals := []float64{8, 6, 9, 7}
	if len(agg.QuestionTotals) != 4 {
		t.Fatalf("expected 4 question totals, got %d", len(agg.QuestionTotals))
	}
	for i, qt := range agg.QuestionTotals {
		if qt.QuestionNo != i+1 || qt.Total != wantTotals[i] {
			t.Errorf("question %d: got total %g, want %g", qt.QuestionNo, qt.Total, wantTotals[i])
		}
	}

	if len(agg.PartBests) != 2 {
		t.Fatalf("expected 2 part bests, got %d", len(agg.PartBests))
	}
	if agg.PartBests[0].Part != "A" || agg.PartBests[0].Best != 8 {
		t.Errorf("part A: got %+v, want best 8", agg.PartBests[0])
	}
	if agg.PartBests[1].Part != "B" || agg.PartBests[1].Best != 9 {
		t.Errorf("part B: got %+v, want best 9", agg.PartBests[1])
	}

	if agg.Total != 17 {
		t.Errorf("total: got %d, want 17", agg.Total)
	}
}

func TestComputeAggregateMissingMarksScoreZero(t *testing.T) {
	bp := fourQuestionBlueprint()

	agg := ComputeAggregate(bp, nil)

	for _, qt := range agg.QuestionTotals {
		if qt.Total != 0 {
			t.Errorf("question %d: got %g, want 0", qt.QuestionNo, qt.Total)
		}
	}
	if agg.Total != 0 {
		t.Errorf("total: got %d, want 0", agg.Total)
	}
}

func TestComputeAggregateRoundsOnlyFinalSum(t *testing.T) {
	bp := fourQuestionBlueprint()

	// part bests 8.25 and 8.5: per-part rounding would give 8+9=17 or
	// 8+8=16 depending on mode; only 8.25+8.5=16.75 → 17 is correct.
	marks := map[uint]float64{
		11: 4.25, 12: 4,
		31: 4.5, 32: 4,
	}

	agg := ComputeAggregate(bp, marks)
	if agg.PartBests[0].Best != 8.25 {
		t.Errorf("part A best: got %g, want 8.25 unrounded", agg.PartBests[0].Best)
	}
	if agg.PartBests[1].Best != 8.5 {
		t.Errorf("part B best: got %g, want 8.5 unrounded", agg.PartBests[1].Best)
	}
	if agg.Total != 17 {
		t.Errorf("total: got %d, want round(16.75) = 17", agg.Total)
	}
}

func TestComputeAggregateIsDeterministic(t *testing.T) {
	bp := fourQuestionBlueprint()
	marks := map[uint]float64{11: 4, 21: 5, 31: 3, 41: 2}

	first := ComputeAggregate(bp, marks)
	for i := 0; i < 10; i++ {
		again := ComputeAggregate(bp, marks)
		if len(again.QuestionTotals) != len(first.QuestionTotals) {
			t.Fatalf("question total count changed between runs")
		}
		for j := range first.QuestionTotals {
			if again.QuestionTotals[j] != first.QuestionTotals[j] {
				t.Fatalf("run %d: question totals diverged at %d", i, j)
			}
		}
		if again.Total != first.Total {
			t.Fatalf("run %d: total diverged", i)
		}
	}
}

func TestComputeAggregateCustomPartRules(t *testing.T) {
	bp := fourQuestionBlueprint()
	bp.PartRules = []model.PartRule{
		{Part: "C", QuestionNos: "1,2,3,4", Order: 1},
	}

	marks := map[uint]float64{11: 4, 12: 4, 31: 5, 32: 5}
	agg := ComputeAggregate(bp, marks)

	if len(agg.PartBests) != 1 || agg.PartBests[0].Part != "C" {
		t.Fatalf("expected single part C, got %+v", agg.PartBests)
	}
	if agg.PartBests[0].Best != 10 {
		t.Errorf("best across all questions: got %g, want 10", agg.PartBests[0].Best)
	}
	if agg.Total != 10 {
		t.Errorf("total: got %d, want 10", agg.Total)
	}
}

func TestComputeAggregateRuleNamingAbsentQuestion(t *testing.T) {
	bp := fourQuestionBlueprint()
	bp.PartRules = []model.PartRule{
		{Part: "A", QuestionNos: "1,9", Order: 1},
	}

	marks := map[uint]float64{11: 3}
	agg := ComputeAggregate(bp, marks)

	// question 9 does not exist; it contributes 0, never an error
	if agg.PartBests[0].Best != 3 {
		t.Errorf("got best %g, want 3", agg.PartBests[0].Best)
	}
}
