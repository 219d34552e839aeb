package services

import (
	"github.com/google/uuid"

	"github.com/thesurvey/api/internal/data/repos"
	"github.com/thesurvey/api/internal/domain"
	"github.com/thesurvey/api/internal/platform/dbctx"
	"github.com/thesurvey/api/internal/platform/logger"
)

// Command is one step of an orchestrator's commit phase. Commands run inside
// the caller's database transaction; the first failure stops the sequence and
// the transaction rolls back the earlier steps.
type Command interface {
	Execute() error
}

// CommandExecutor runs commands strictly in order. It carries no rollback
// logic of its own.
type CommandExecutor struct {
	log *logger.Logger
}

func NewCommandExecutor(baseLog *logger.Logger) *CommandExecutor {
	return &CommandExecutor{log: baseLog.With("service", "CommandExecutor")}
}

func (e *CommandExecutor) ExecuteCommands(commands []Command) error {
	for _, cmd := range commands {
		if err := cmd.Execute(); err != nil {
			return err
		}
	}
	return nil
}

// appendPointsCommand debits (negative delta) or credits the user's ledger.
type appendPointsCommand struct {
	points PointHistoryService
	dbc    dbctx.Context
	userID uuid.UUID
	delta  int
}

func (c *appendPointsCommand) Execute() error {
	_, err := c.points.Append(c.dbc, c.userID, c.delta)
	return err
}

type saveSurveyCommand struct {
	surveys repos.SurveyRepo
	dbc     dbctx.Context
	survey  *domain.Survey
}

func (c *saveSurveyCommand) Execute() error {
	_, err := c.surveys.Create(c.dbc, c.survey)
	return err
}

type saveQuestionsCommand struct {
	questions repos.QuestionRepo
	dbc       dbctx.Context
	banks     []*domain.QuestionBank
	rows      []*domain.Question
}

func (c *saveQuestionsCommand) Execute() error {
	if _, err := c.questions.CreateBanks(c.dbc, c.banks); err != nil {
		return err
	}
	_, err := c.questions.CreateQuestions(c.dbc, c.rows)
	return err
}

type saveParticipationsCommand struct {
	participations repos.ParticipationRepo
	dbc            dbctx.Context
	rows           []*domain.Participation
}

func (c *saveParticipationsCommand) Execute() error {
	_, err := c.participations.Create(c.dbc, c.rows)
	return err
}

type saveAnswersCommand struct {
	answers repos.AnsweredQuestionRepo
	dbc     dbctx.Context
	rows    []*domain.AnsweredQuestion
}

func (c *saveAnswersCommand) Execute() error {
	_, err := c.answers.Create(c.dbc, c.rows)
	return err
}

// deleteSurveyCascadeCommand removes a survey and everything hanging off it.
// Child rows go first so the delete never trips a foreign key.
type deleteSurveyCascadeCommand struct {
	surveys        repos.SurveyRepo
	questions      repos.QuestionRepo
	answers        repos.AnsweredQuestionRepo
	participations repos.ParticipationRepo
	dbc            dbctx.Context
	surveyID       uuid.UUID
}

func (c *deleteSurveyCascadeCommand) Execute() error {
	if err := c.answers.DeleteBySurveyID(c.dbc, c.surveyID); err != nil {
		return err
	}
	if err := c.participations.DeleteBySurveyID(c.dbc, c.surveyID); err != nil {
		return err
	}
	if err := c.questions.DeleteBySurveyID(c.dbc, c.surveyID); err != nil {
		return err
	}
	return c.surveys.Delete(c.dbc, c.surveyID)
}
