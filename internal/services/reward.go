package services

import (
	"github.com/thesurvey/api/internal/apperrors"
	"github.com/thesurvey/api/internal/domain"
)

// Point amounts are fixed per question type: the author pays the create cost
// per question up front, and a respondent earns the reward per question they
// actually answer.
var (
	createCostByType = map[domain.QuestionType]int{
		domain.QuestionSingleChoice:    2,
		domain.QuestionMultipleChoices: 3,
		domain.QuestionShortAnswer:     5,
		domain.QuestionLongAnswer:      10,
	}
	maxRewardByType = map[domain.QuestionType]int{
		domain.QuestionSingleChoice:    1,
		domain.QuestionMultipleChoices: 2,
		domain.QuestionShortAnswer:     3,
		domain.QuestionLongAnswer:      5,
	}
)

// SurveyCreatePoints returns the creation cost of one question. The question
// type set is closed, so an unknown type is a programming error surfaced as
// ErrInvalidQuestionType rather than silently costing zero.
func SurveyCreatePoints(qt domain.QuestionType) (int, error) {
	cost, ok := createCostByType[qt]
	if !ok {
		return 0, apperrors.ErrInvalidQuestionType
	}
	return cost, nil
}

// SurveyMaxRewardPoints returns the reward earned for answering one question.
func SurveyMaxRewardPoints(qt domain.QuestionType) (int, error) {
	reward, ok := maxRewardByType[qt]
	if !ok {
		return 0, apperrors.ErrInvalidQuestionType
	}
	return reward, nil
}

// TotalCreateCost sums the creation cost over the requested questions.
func TotalCreateCost(questions []QuestionRequest) (int, error) {
	total := 0
	for _, q := range questions {
		cost, err := SurveyCreatePoints(q.QuestionType)
		if err != nil {
			return 0, err
		}
		total += cost
	}
	return total, nil
}

// TotalMaxReward sums the maximum reward over a survey's question banks.
func TotalMaxReward(banks []*domain.QuestionBank) (int, error) {
	total := 0
	for _, b := range banks {
		reward, err := SurveyMaxRewardPoints(b.QuestionType)
		if err != nil {
			return 0, err
		}
		total += reward
	}
	return total, nil
}
