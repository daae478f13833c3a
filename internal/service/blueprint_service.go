package service

import (
	"campus_erp_backend/internal/model"
	"campus_erp_backend/internal/repository"
	"campus_erp_backend/internal/util"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

type BlueprintService struct {
	Repo        *repository.BlueprintRepository
	SubjectRepo *repository.SubjectRepository
}

func NewBlueprintService(repo *repository.BlueprintRepository, subjectRepo *repository.SubjectRepository) *BlueprintService {
	return &BlueprintService{Repo: repo, SubjectRepo: subjectRepo}
}

type SubQuestionRequest struct {
	Label    string  `json:"label" binding:"required"`
	MaxMarks float64 `json:"maxMarks" binding:"required"`
}

type QuestionRequest struct {
	QuestionNo int                  `json:"questionNo" binding:"required"`
	Subs       []SubQuestionRequest `json:"subs" binding:"required"`
}

type PartRuleRequest struct {
	Part        string `json:"part" binding:"required"`
	QuestionNos []int  `json:"questionNos" binding:"required"`
}

type BlueprintRequest struct {
	SubjectID uint              `json:"subjectId" binding:"required"`
	CIENumber int               `json:"cieNumber" binding:"required"`
	Questions []QuestionRequest `json:"questions" binding:"required"`
	PartRules []PartRuleRequest `json:"partRules"`
}

func validateBlueprint(cieNumber int, questions []QuestionRequest, rules []PartRuleRequest) error {
	if cieNumber < 1 || cieNumber > 3 {
		return util.NewValidationError("cieNumber", "must be 1, 2 or 3")
	}
	if len(questions) == 0 {
		return util.NewValidationError("questions", "at least one question is required")
	}

	seenNos := make(map[int]bool)
	for _, q := range questions {
		if q.QuestionNo < 1 {
			return util.NewValidationError("questionNo", "must be a positive integer")
		}
		if seenNos[q.QuestionNo] {
			return &util.ConflictError{Message: "duplicate question number", Keys: []string{strconv.Itoa(q.QuestionNo)}}
		}
		seenNos[q.QuestionNo] = true

		if len(q.Subs) == 0 {
			return util.NewValidationError(fmt.Sprintf("questions[%d].subs", q.QuestionNo), "every question needs at least one sub-question")
		}
		seenLabels := make(map[string]bool)
		for _, sq := range q.Subs {
			label := strings.TrimSpace(sq.Label)
			if label == "" {
				return util.NewValidationError("label", "sub-question label must not be empty")
			}
			key := strings.ToLower(label)
			if seenLabels[key] {
				return &util.ConflictError{Message: "duplicate sub-question label", Keys: []string{fmt.Sprintf("Q%d%s", q.QuestionNo, label)}}
			}
			seenLabels[key] = true
			if sq.MaxMarks <= 0 {
				return util.NewValidationError(fmt.Sprintf("Q%d%s.maxMarks", q.QuestionNo, label), "must be greater than zero")
			}
		}
	}

	seenParts := make(map[string]bool)
	for _, r := range rules {
		part := strings.TrimSpace(r.Part)
		if part == "" {
			return util.NewValidationError("partRules.part", "part name must not be empty")
		}
		if seenParts[strings.ToLower(part)] {
			return &util.ConflictError{Message: "duplicate part rule", Keys: []string{part}}
		}
		seenParts[strings.ToLower(part)] = true
		if len(r.QuestionNos) == 0 {
			return util.NewValidationError("partRules.questionNos", "part rule must name at least one question")
		}
		for _, no := range r.QuestionNos {
			if !seenNos[no] {
				return util.NewValidationError("partRules.questionNos", "part %s references undeclared question %d", part, no)
			}
		}
	}

	return nil
}

func buildStructure(questions []QuestionRequest, rules []PartRuleRequest) ([]model.BlueprintQuestion, []model.PartRule) {
	qs := make([]model.BlueprintQuestion, 0, len(questions))
	for _, q := range questions {
		mq := model.BlueprintQuestion{QuestionNo: q.QuestionNo}
		for _, sq := range q.Subs {
			mq.SubQuestions = append(mq.SubQuestions, model.SubQuestion{
				Label:    strings.TrimSpace(sq.Label),
				MaxMarks: sq.MaxMarks,
			})
		}
		qs = append(qs, mq)
	}

	if len(rules) == 0 {
		return qs, model.DefaultPartRules()
	}

	prs := make([]model.PartRule, 0, len(rules))
	for i, r := range rules {
		nos := make([]string, len(r.QuestionNos))
		for j, no := range r.QuestionNos {
			nos[j] = strconv.Itoa(no)
		}
		prs = append(prs, model.PartRule{
			Part:        strings.TrimSpace(r.Part),
			QuestionNos: strings.Join(nos, ","),
			Order:       i + 1,
		})
	}
	return qs, prs
}

// CreateOrReplace validates the request and persists the structure, replacing
// any existing blueprint for the same (subject, CIE number) in place.
func (s *BlueprintService) CreateOrReplace(req BlueprintRequest) (*model.CIEBlueprint, error) {
	if _, err := s.SubjectRepo.FindByID(req.SubjectID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &util.NotFoundError{Resource: "subject", Key: strconv.Itoa(int(req.SubjectID))}
		}
		return nil, err
	}

	if err := validateBlueprint(req.CIENumber, req.Questions, req.PartRules); err != nil {
		return nil, err
	}

	questions, rules := buildStructure(req.Questions, req.PartRules)
	return s.Repo.CreateOrReplace(req.SubjectID, req.CIENumber, questions, rules)
}

// Get returns the blueprint for the key, or gorm.ErrRecordNotFound when none
// is configured yet; the caller decides whether that is an error.
func (s *BlueprintService) Get(subjectID uint, cieNumber int) (*model.CIEBlueprint, error) {
	return s.Repo.FindByKey(subjectID, cieNumber)
}

// Update rewrites the question structure of an existing blueprint.
func (s *BlueprintService) Update(id uint, questions []QuestionRequest, partRules []PartRuleRequest) (*model.CIEBlueprint, error) {
	existing, err := s.Repo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &util.NotFoundError{Resource: "blueprint", Key: strconv.Itoa(int(id))}
		}
		return nil, err
	}

	if err := validateBlueprint(existing.CIENumber, questions, partRules); err != nil {
		return nil, err
	}

	qs, rules := buildStructure(questions, partRules)
	return s.Repo.ReplaceByID(id, qs, rules)
}
