package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/thesurvey/api/internal/apperrors"
	"github.com/thesurvey/api/internal/domain"
)

type QuestionRequest struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	QuestionType domain.QuestionType `json:"question_type"`
	QuestionNo   int                 `json:"question_no"`
	IsRequired   bool                `json:"is_required"`
	Options      []string            `json:"options"`
}

type SurveyRequest struct {
	Title              string                     `json:"title"`
	Description        string                     `json:"description"`
	StartedDate        time.Time                  `json:"started_date"`
	EndedDate          time.Time                  `json:"ended_date"`
	CertificationTypes []domain.CertificationType `json:"certification_types"`
	Questions          []QuestionRequest          `json:"questions"`
}

// SurveyUpdateRequest patches only the fields that are present.
type SurveyUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartedDate *time.Time `json:"started_date"`
	EndedDate   *time.Time `json:"ended_date"`
}

type SurveyResponse struct {
	SurveyID           uuid.UUID                  `json:"survey_id"`
	AuthorID           uuid.UUID                  `json:"author_id"`
	Title              string                     `json:"title"`
	Description        string                     `json:"description"`
	StartedDate        time.Time                  `json:"started_date"`
	EndedDate          time.Time                  `json:"ended_date"`
	CertificationTypes []domain.CertificationType `json:"certification_types"`
	RewardPoints       int                        `json:"reward_points"`
	CreatedAt          time.Time                  `json:"created_at"`
}

type QuestionResponse struct {
	QuestionBankID uuid.UUID           `json:"question_bank_id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	QuestionType   domain.QuestionType `json:"question_type"`
	QuestionNo     int                 `json:"question_no"`
	IsRequired     bool                `json:"is_required"`
	Options        []string            `json:"options"`
}

type SurveyDetailResponse struct {
	SurveyResponse
	Questions []QuestionResponse `json:"questions"`
}

type SurveyPage struct {
	Surveys       []*SurveyResponse `json:"surveys"`
	Page          int               `json:"page"`
	TotalPages    int               `json:"total_pages"`
	TotalElements int64             `json:"total_elements"`
}

type AnswerItem struct {
	QuestionBankID  uuid.UUID `json:"question_bank_id"`
	SingleChoice    *int      `json:"single_choice"`
	MultipleChoices []int     `json:"multiple_choices"`
	ShortAnswer     string    `json:"short_answer"`
	LongAnswer      string    `json:"long_answer"`
}

type AnswerRequest struct {
	SurveyID uuid.UUID    `json:"survey_id"`
	Answers  []AnswerItem `json:"answers"`
}

type AnswerResponse struct {
	RewardPoints int `json:"reward_points"`
}

// normalizeCertTypes validates and dedupes a requested certification set. An
// empty set becomes the NONE sentinel so every survey persists at least one
// participation row per respondent.
func normalizeCertTypes(types []domain.CertificationType) ([]domain.CertificationType, error) {
	if len(types) == 0 {
		return []domain.CertificationType{domain.CertificationNone}, nil
	}
	seen := make(map[domain.CertificationType]bool, len(types))
	out := make([]domain.CertificationType, 0, len(types))
	for _, t := range types {
		if !t.Valid() {
			return nil, apperrors.ErrInvalidCertificationSet
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

func encodeCertTypes(types []domain.CertificationType) datatypes.JSON {
	b, _ := json.Marshal(types)
	return datatypes.JSON(b)
}

func decodeCertTypes(raw datatypes.JSON) []domain.CertificationType {
	var out []domain.CertificationType
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return out
}

func encodeOptions(options []string) datatypes.JSON {
	if options == nil {
		options = []string{}
	}
	b, _ := json.Marshal(options)
	return datatypes.JSON(b)
}

func decodeOptions(raw datatypes.JSON) []string {
	var out []string
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return out
}

// buildParticipations makes one row per certification type in the survey's
// requirement set for the given user.
func buildParticipations(surveyID, userID uuid.UUID, types []domain.CertificationType, now time.Time) []*domain.Participation {
	rows := make([]*domain.Participation, 0, len(types))
	for _, t := range types {
		rows = append(rows, &domain.Participation{
			ID:                uuid.New(),
			SurveyID:          surveyID,
			UserID:            userID,
			CertificationType: t,
			ParticipateDate:   now,
		})
	}
	return rows
}
