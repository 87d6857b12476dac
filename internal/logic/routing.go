package logic

import "github.com/pollwright/surveywizard/internal/types"

/*
 * Inter-question routing.
 *
 * Surveys advance through an explicit per-question next-question chain
 * overlaid on the linear sort order. A routed target may itself be hidden
 * by its visibility rules, in which case its own chain is chased; a visited
 * set guards against routing cycles. When a chain dead-ends, the walk falls
 * back to the next visible question in linear order.
 */

// NextDisplayable walks start's next-question chain and returns the first
// visible question, or nil when the chain is exhausted or cycles.
func NextDisplayable(start *types.Question, ordered []*types.Question, answers Answers) *types.Question {
	byID := indexByID(ordered)
	return nextDisplayable(start, byID, answers)
}

func nextDisplayable(start *types.Question, byID map[int64]*types.Question, answers Answers) *types.Question {
	visited := make(map[int64]bool)
	q := start
	for q != nil {
		if visited[q.ID] {
			break
		}
		visited[q.ID] = true
		if visible, _ := EvalDocument(q.VisibilityRules, answers); visible {
			return q
		}
		q = byID[q.NextQuestionID]
	}
	return nil
}

// FindNextVisibleAfter walks forward in linear order starting right after
// current, honoring each candidate's own routing chain and visibility.
func FindNextVisibleAfter(current *types.Question, ordered []*types.Question, answers Answers) *types.Question {
	byID := indexByID(ordered)

	startIdx := -1
	for i, q := range ordered {
		if current != nil && q.ID == current.ID {
			startIdx = i
			break
		}
	}

	for _, cand := range ordered[startIdx+1:] {
		if next := nextDisplayable(cand, byID, answers); next != nil {
			return next
		}
	}
	return nil
}

// SafeNextQuestion resolves where the survey goes after current:
//
//  1. the explicit routing target (and its chain), respecting visibility;
//  2. else the next visible question in linear order;
//  3. else nil, and the caller finalizes the survey.
func SafeNextQuestion(preferred, current *types.Question, ordered []*types.Question, answers Answers) *types.Question {
	if preferred != nil {
		if cand := nextDisplayable(preferred, indexByID(ordered), answers); cand != nil {
			return cand
		}
	}
	return FindNextVisibleAfter(current, ordered, answers)
}

func indexByID(ordered []*types.Question) map[int64]*types.Question {
	byID := make(map[int64]*types.Question, len(ordered))
	for _, q := range ordered {
		byID[q.ID] = q
	}
	return byID
}
