package service

import (
	"campus_erp_backend/internal/model"
	"math"
	"sort"
)

// The scoring engine is pure: blueprint structure + one student's recorded
// marks in, aggregates out. No I/O, no failure modes; missing marks count as
// zero. Aggregates are derived on every read and never stored.

type QuestionTotal struct {
	QuestionNo int     `json:"questionNo"`
	Total      float64 `json:"total"`
}

type PartBest struct {
	Part string  `json:"part"`
	Best float64 `json:"best"`
}

type StudentAggregate struct {
	QuestionTotals []QuestionTotal `json:"questionTotals"`
	PartBests      []PartBest      `json:"partBests"`
	Total          int             `json:"total"`
}

// ComputeAggregate groups the student's marks by parent question, sums each
// question, takes the best question total within every part rule, and rounds
// only the final sum. Rounding never happens per question or per part, so
// fractional sub-question marks cannot compound.
//
// marks is keyed by sub-question id; absent keys contribute 0.
func ComputeAggregate(bp *model.CIEBlueprint, marks map[uint]float64) StudentAggregate {
	totalsByNo := make(map[int]float64, len(bp.Questions))
	var order []int
	for _, q := range bp.Questions {
		if _, seen := totalsByNo[q.QuestionNo]; !seen {
			order = append(order, q.QuestionNo)
		}
		for _, sq := range q.SubQuestions {
			totalsByNo[q.QuestionNo] += marks[sq.ID]
		}
	}
	sort.Ints(order)

	agg := StudentAggregate{}
	for _, no := range order {
		agg.QuestionTotals = append(agg.QuestionTotals, QuestionTotal{QuestionNo: no, Total: totalsByNo[no]})
	}

	rules := make([]model.PartRule, len(bp.PartRules))
	copy(rules, bp.PartRules)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Order < rules[j].Order })

	var sum float64
	for _, rule := range rules {
		best := 0.0
		for _, no := range rule.Numbers() {
			// question numbers a rule names but the blueprint lacks score 0
			if t := totalsByNo[no]; t > best {
				best = t
			}
		}
		agg.PartBests = append(agg.PartBests, PartBest{Part: rule.Part, Best: best})
		sum += best
	}

	agg.Total = int(math.Round(sum))
	return agg
}
