package service

import (
	"errors"
	"testing"

	"campus_erp_backend/internal/util"
)

func TestCreateBlueprintValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		req  BlueprintRequest
	}{
		{
			name: "cie number out of range",
			req: BlueprintRequest{
				SubjectID: env.subject.ID,
				CIENumber: 4,
				Questions: standardQuestions(),
			},
		},
		{
			name: "no questions",
			req: BlueprintRequest{
				SubjectID: env.subject.ID,
				CIENumber: 1,
			},
		},
		{
			name: "question without sub-questions",
			req: BlueprintRequest{
				SubjectID: env.subject.ID,
				CIENumber: 1,
				Questions: []QuestionRequest{{QuestionNo: 1}},
			},
		},
		{
			name: "zero max marks",
			req: BlueprintRequest{
				SubjectID: env.subject.ID,
				CIENumber: 1,
				Questions: []QuestionRequest{
					{QuestionNo: 1, Subs: []SubQuestionRequest{{Label: "a", MaxMarks: 0}}},
				},
			},
		},
		{
			name: "blank label",
			req: BlueprintRequest{
				SubjectID: env.subject.ID,
				CIENumber: 1,
				Questions: []QuestionRequest{
					{QuestionNo: 1, Subs: []SubQuestionRequest{{Label: "  ", MaxMarks: 5}}},
				},
			},
		},
		{
			name: "part rule names undeclared question",
			req: BlueprintRequest{
				SubjectID: env.subject.ID,
				CIENumber: 1,
				Questions: []QuestionRequest{
					{QuestionNo: 1, Subs: []SubQuestionRequest{{Label: "a", MaxMarks: 5}}},
				},
				PartRules: []PartRuleRequest{{Part: "A", QuestionNos: []int{1, 7}}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.blueprintSvc.CreateOrReplace(tc.req)
			var ve *util.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCreateBlueprintDuplicateKeysConflict(t *testing.T) {
	env := newTestEnv(t)

	dupQuestion := BlueprintRequest{
		SubjectID: env.subject.ID,
		CIENumber: 1,
		Questions: []QuestionRequest{
			{QuestionNo: 1, Subs: []SubQuestionRequest{{Label: "a", MaxMarks: 5}}},
			{QuestionNo: 1, Subs: []SubQuestionRequest{{Label: "a", MaxMarks: 5}}},
		},
	}
	var conflict *util.ConflictError
	if _, err := env.blueprintSvc.CreateOrReplace(dupQuestion); !errors.As(err, &conflict) {
		t.Errorf("duplicate question number: expected ConflictError, got %v", err)
	}

	dupLabel := BlueprintRequest{
		SubjectID: env.subject.ID,
		CIENumber: 1,
		Questions: []QuestionRequest{
			{QuestionNo: 1, Subs: []SubQuestionRequest{
				{Label: "a", MaxMarks: 5},
				{Label: "A", MaxMarks: 5}, // labels compare case-insensitively
			}},
		},
	}
	if _, err := env.blueprintSvc.CreateOrReplace(dupLabel); !errors.As(err, &conflict) {
		t.Errorf("duplicate label: expected ConflictError, got %v", err)
	}
}

func TestCreateBlueprintUnknownSubject(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.blueprintSvc.CreateOrReplace(BlueprintRequest{
		SubjectID: 9999,
		CIENumber: 1,
		Questions: standardQuestions(),
	})
	var nf *util.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCreateBlueprintAppliesDefaultPartRules(t *testing.T) {
	env := newTestEnv(t)
	bp := env.createStandardBlueprint(t, 1)

	if len(bp.PartRules) != 2 {
		t.Fatalf("expected default A/B rules, got %d rules", len(bp.PartRules))
	}
	if bp.PartRules[0].Part != "A" || bp.PartRules[0].QuestionNos != "1,2" {
		t.Errorf("rule A wrong: %+v", bp.PartRules[0])
	}
	if bp.PartRules[1].Part != "B" || bp.PartRules[1].QuestionNos != "3,4" {
		t.Errorf("rule B wrong: %+v", bp.PartRules[1])
	}
}

func TestCreateBlueprintKeepsExplicitRuleOrder(t *testing.T) {
	env := newTestEnv(t)

	bp, err := env.blueprintSvc.CreateOrReplace(BlueprintRequest{
		SubjectID: env.subject.ID,
		CIENumber: 2,
		Questions: standardQuestions(),
		PartRules: []PartRuleRequest{
			{Part: "B", QuestionNos: []int{3, 4}},
			{Part: "A", QuestionNos: []int{1, 2}},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if bp.PartRules[0].Part != "B" || bp.PartRules[1].Part != "A" {
		t.Errorf("declared order not preserved: %+v", bp.PartRules)
	}
}

func TestGetBlueprintByKey(t *testing.T) {
	env := newTestEnv(t)
	created := env.createStandardBlueprint(t, 3)

	found, err := env.blueprintSvc.Get(env.subject.ID, 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("got blueprint %d, want %d", found.ID, created.ID)
	}

	if _, err := env.blueprintSvc.Get(env.subject.ID, 2); err == nil {
		t.Errorf("expected error for unconfigured CIE")
	}
}

func TestUpdateBlueprintGuardedByRecordedMarks(t *testing.T) {
	env := newTestEnv(t)
	bp := env.createStandardBlueprint(t, 1)
	env.saveMark(t, env.subqID(t, bp, "Q4b"), "1CR21CS001", 3)

	// dropping Q4b while it holds a mark must fail
	trimmed := []QuestionRequest{
		{QuestionNo: 1, Subs: []SubQuestionRequest{{Label: "a", MaxMarks: 5}, {Label: "b", MaxMarks: 5}}},
		{QuestionNo: 2, Subs: []SubQuestionRequest{{Label: "a", MaxMarks: 5}, {Label: "b", MaxMarks: 5}}},
		{QuestionNo: 3, Subs: []SubQuestionRequest{{Label: "a", MaxMarks: 5}, {Label: "b", MaxMarks: 5}}},
		{QuestionNo: 4, Subs: []SubQuestionRequest{{Label: "a", MaxMarks: 5}}},
	}
	_, err := env.blueprintSvc.Update(bp.ID, trimmed, nil)
	var conflict *util.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(conflict.Keys) != 1 || conflict.Keys[0] != "Q4b" {
		t.Errorf("conflict should name Q4b, got %v", conflict.Keys)
	}
}

func TestUpdateBlueprintRaisesMaxMarksInPlace(t *testing.T) {
	env := newTestEnv(t)
	bp := env.createStandardBlueprint(t, 1)
	q1a := env.subqID(t, bp, "Q1a")
	env.saveMark(t, q1a, "1CR21CS002", 5)

	raised := standardQuestions()
	raised[0].Subs[0].MaxMarks = 8

	updated, err := env.blueprintSvc.Update(bp.ID, raised, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := env.subqID(t, updated, "Q1a"); got != q1a {
		t.Errorf("Q1a id changed across update: %d -> %d", q1a, got)
	}
	if _, err := env.marks.FindByKey(q1a, "1CR21CS002"); err != nil {
		t.Errorf("mark lost across update: %v", err)
	}
}
