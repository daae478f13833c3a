package repository

import (
	"errors"
	"testing"

	"campus_erp_backend/internal/model"
	"campus_erp_backend/internal/util"
)

func twoQuestionStructure(maxMarks float64) []model.BlueprintQuestion {
	return []model.BlueprintQuestion{
		{QuestionNo: 1, SubQuestions: []model.SubQuestion{
			{Label: "a", MaxMarks: maxMarks},
			{Label: "b", MaxMarks: maxMarks},
		}},
		{QuestionNo: 2, SubQuestions: []model.SubQuestion{
			{Label: "a", MaxMarks: maxMarks},
		}},
	}
}

func TestCreateOrReplaceCreatesBlueprint(t *testing.T) {
	repo := NewBlueprintRepository(newTestDB(t))

	bp, err := repo.CreateOrReplace(1, 2, twoQuestionStructure(5), model.DefaultPartRules())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if bp.SubjectID != 1 || bp.CIENumber != 2 {
		t.Errorf("key mismatch: got subject=%d cie=%d", bp.SubjectID, bp.CIENumber)
	}
	if len(bp.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(bp.Questions))
	}
	if len(bp.Questions[0].SubQuestions) != 2 {
		t.Errorf("Q1 should have 2 sub-questions, got %d", len(bp.Questions[0].SubQuestions))
	}
	if len(bp.PartRules) != 2 {
		t.Errorf("expected 2 part rules, got %d", len(bp.PartRules))
	}

	found, err := repo.FindByKey(1, 2)
	if err != nil {
		t.Fatalf("find by key: %v", err)
	}
	if found.ID != bp.ID {
		t.Errorf("find by key returned a different blueprint")
	}
}

func TestReplaceKeepsMatchingSubQuestionIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewBlueprintRepository(db)
	marks := NewMarkRepository(db)

	bp, err := repo.CreateOrReplace(1, 1, twoQuestionStructure(5), model.DefaultPartRules())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	q1a := bp.Questions[0].SubQuestions[0]
	if err := marks.Upsert(&model.InternalMark{SubQuestionID: q1a.ID, StudentUSN: "1CR21CS001", Value: 4}); err != nil {
		t.Fatalf("seed mark: %v", err)
	}

	// same structure, raised max marks
	replaced, err := repo.CreateOrReplace(1, 1, twoQuestionStructure(10), model.DefaultPartRules())
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if replaced.ID != bp.ID {
		t.Errorf("replace must reuse the blueprint row, got new id %d", replaced.ID)
	}

	newQ1a := replaced.Questions[0].SubQuestions[0]
	if newQ1a.ID != q1a.ID {
		t.Errorf("Q1a id changed across replace: %d -> %d", q1a.ID, newQ1a.ID)
	}
	if newQ1a.MaxMarks != 10 {
		t.Errorf("max marks not updated: got %g", newQ1a.MaxMarks)
	}

	// the recorded mark must still resolve through the kept id
	if _, err := marks.FindByKey(q1a.ID, "1CR21CS001"); err != nil {
		t.Errorf("mark lost across structure replace: %v", err)
	}
}

func TestReplaceRejectsRemovingMarkedSubQuestions(t *testing.T) {
	db := newTestDB(t)
	repo := NewBlueprintRepository(db)
	marks := NewMarkRepository(db)

	bp, err := repo.CreateOrReplace(1, 1, twoQuestionStructure(5), model.DefaultPartRules())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	q2a := bp.Questions[1].SubQuestions[0]
	if err := marks.Upsert(&model.InternalMark{SubQuestionID: q2a.ID, StudentUSN: "1CR21CS001", Value: 3}); err != nil {
		t.Fatalf("seed mark: %v", err)
	}

	// drop question 2 entirely
	withoutQ2 := []model.BlueprintQuestion{
		{QuestionNo: 1, SubQuestions: []model.SubQuestion{
			{Label: "a", MaxMarks: 5},
			{Label: "b", MaxMarks: 5},
		}},
	}
	_, err = repo.CreateOrReplace(1, 1, withoutQ2, model.DefaultPartRules())

	var conflict *util.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(conflict.Keys) != 1 || conflict.Keys[0] != "Q2a" {
		t.Errorf("conflict should name Q2a, got %v", conflict.Keys)
	}

	// rejection must not have touched the stored structure
	current, err := repo.FindByKey(1, 1)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(current.Questions) != 2 {
		t.Errorf("structure mutated by rejected replace: %d questions", len(current.Questions))
	}
}

func TestReplaceDropsUnmarkedSubQuestions(t *testing.T) {
	repo := NewBlueprintRepository(newTestDB(t))

	if _, err := repo.CreateOrReplace(1, 1, twoQuestionStructure(5), model.DefaultPartRules()); err != nil {
		t.Fatalf("create: %v", err)
	}

	withoutQ2 := []model.BlueprintQuestion{
		{QuestionNo: 1, SubQuestions: []model.SubQuestion{
			{Label: "a", MaxMarks: 5},
		}},
	}
	replaced, err := repo.CreateOrReplace(1, 1, withoutQ2, model.DefaultPartRules())
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if len(replaced.Questions) != 1 {
		t.Fatalf("expected 1 question after replace, got %d", len(replaced.Questions))
	}
	if len(replaced.Questions[0].SubQuestions) != 1 {
		t.Errorf("expected Q1 trimmed to 1 sub-question, got %d", len(replaced.Questions[0].SubQuestions))
	}
}

func TestPartRulesReplacedWholesale(t *testing.T) {
	repo := NewBlueprintRepository(newTestDB(t))

	if _, err := repo.CreateOrReplace(1, 1, twoQuestionStructure(5), model.DefaultPartRules()); err != nil {
		t.Fatalf("create: %v", err)
	}

	custom := []model.PartRule{{Part: "A", QuestionNos: "1,2", Order: 1}}
	replaced, err := repo.CreateOrReplace(1, 1, twoQuestionStructure(5), custom)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if len(replaced.PartRules) != 1 {
		t.Fatalf("expected 1 part rule after replace, got %d", len(replaced.PartRules))
	}
	if got := replaced.PartRules[0].Numbers(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("rule numbers wrong: %v", got)
	}
}
