package service

import (
	"campus_erp_backend/internal/model"
	"campus_erp_backend/internal/repository"
	"campus_erp_backend/internal/util"
	"sort"
	"strconv"

	"gorm.io/gorm"
)

// GridService joins roster + blueprint + marks + scoring engine into the
// renderable marks table. Aggregates are recomputed on every call.
type GridService struct {
	Blueprints *repository.BlueprintRepository
	Subjects   *repository.SubjectRepository
	Students   *repository.StudentRepository
	Marks      *repository.MarkRepository
}

func NewGridService(blueprints *repository.BlueprintRepository, subjects *repository.SubjectRepository, students *repository.StudentRepository, marks *repository.MarkRepository) *GridService {
	return &GridService{Blueprints: blueprints, Subjects: subjects, Students: students, Marks: marks}
}

type GridCell struct {
	SubQuestionID uint     `json:"subqId"`
	Value         *float64 `json:"value"`
	MaxMarks      float64  `json:"maxMarks"`
}

type GridRow struct {
	StudentUSN  string     `json:"studentId"`
	StudentName string     `json:"name"`
	Marks       []GridCell `json:"marks"`
	PartBests   []PartBest `json:"partBests"`
	Total       int        `json:"total"`
}

type Grid struct {
	BlueprintID uint      `json:"blueprintId"`
	SubjectID   uint      `json:"subjectId"`
	CIENumber   int       `json:"cieNumber"`
	Columns     []string  `json:"columns"`
	Rows        []GridRow `json:"rows"`
}

// orderedSub is a sub-question paired with its parent question number, in the
// deterministic (questionNo, label) column order.
type orderedSub struct {
	QuestionNo int
	Sub        model.SubQuestion
}

// orderedSubQuestions flattens the blueprint into stable column order. The sort
// key is (questionNo, label), so two consecutive builds of an unchanged
// blueprint always agree. UI diffing and exports depend on that.
func orderedSubQuestions(bp *model.CIEBlueprint) []orderedSub {
	var subs []orderedSub
	for _, q := range bp.Questions {
		for _, sq := range q.SubQuestions {
			subs = append(subs, orderedSub{QuestionNo: q.QuestionNo, Sub: sq})
		}
	}
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].QuestionNo != subs[j].QuestionNo {
			return subs[i].QuestionNo < subs[j].QuestionNo
		}
		return subs[i].Sub.Label < subs[j].Sub.Label
	})
	return subs
}

func sortedPartRules(bp *model.CIEBlueprint) []model.PartRule {
	rules := make([]model.PartRule, len(bp.PartRules))
	copy(rules, bp.PartRules)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Order < rules[j].Order })
	return rules
}

// BuildGrid assembles the full table for one (subject, CIE number) instance.
// An unconfigured blueprint is a NotFoundError; the caller prompts the
// instructor to create one.
func (s *GridService) BuildGrid(subjectID uint, cieNumber int) (*Grid, error) {
	subject, err := s.Subjects.FindByID(subjectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &util.NotFoundError{Resource: "subject", Key: strconv.Itoa(int(subjectID))}
		}
		return nil, err
	}

	bp, err := s.Blueprints.FindByKey(subjectID, cieNumber)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &util.NotFoundError{Resource: "blueprint"}
		}
		return nil, err
	}

	roster, err := s.Students.ListForSubject(subject)
	if err != nil {
		return nil, err
	}

	subs := orderedSubQuestions(bp)
	usns := make([]string, len(roster))
	for i, st := range roster {
		usns[i] = st.USN
	}

	marks, err := s.Marks.ListForBlueprint(bp.SubQuestionIDs(), usns)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[string]map[uint]float64, len(roster))
	for _, m := range marks {
		if byStudent[m.StudentUSN] == nil {
			byStudent[m.StudentUSN] = make(map[uint]float64)
		}
		byStudent[m.StudentUSN][m.SubQuestionID] = m.Value
	}

	grid := &Grid{
		BlueprintID: bp.ID,
		SubjectID:   subjectID,
		CIENumber:   cieNumber,
		Columns:     buildColumns(subs, sortedPartRules(bp)),
	}

	for _, st := range roster {
		studentMarks := byStudent[st.USN]
		agg := ComputeAggregate(bp, studentMarks)

		row := GridRow{
			StudentUSN:  st.USN,
			StudentName: st.Name,
			PartBests:   agg.PartBests,
			Total:       agg.Total,
		}
		for _, sub := range subs {
			cell := GridCell{SubQuestionID: sub.Sub.ID, MaxMarks: sub.Sub.MaxMarks}
			if v, ok := studentMarks[sub.Sub.ID]; ok {
				value := v
				cell.Value = &value
			}
			row.Marks = append(row.Marks, cell)
		}
		grid.Rows = append(grid.Rows, row)
	}

	return grid, nil
}

func buildColumns(subs []orderedSub, rules []model.PartRule) []string {
	columns := []string{"USN", "Name"}
	for _, s := range subs {
		columns = append(columns, s.Sub.DisplayLabel(s.QuestionNo))
	}
	for _, r := range rules {
		columns = append(columns, "Best Part "+r.Part)
	}
	columns = append(columns, "Total")
	return columns
}
