package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/thesurvey/api/internal/domain"
	"github.com/thesurvey/api/internal/platform/logger"
	"github.com/thesurvey/api/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "thesurvey", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&domain.User{},
		&domain.PointHistory{},
		&domain.Survey{},
		&domain.QuestionBank{},
		&domain.Question{},
		&domain.AnsweredQuestion{},
		&domain.Participation{},
		&domain.UserCertification{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	// The survey exclusively owns its questions, participations and answers:
	// deleting the survey row cascades to all three. The point ledger is
	// append-only, so user deletion is restricted while entries reference it.
	constraints := []struct {
		table string
		name  string
		fk    string
	}{
		{"question", "fk_question_survey_id",
			`FOREIGN KEY ("survey_id") REFERENCES "survey"("id") ON DELETE CASCADE`},
		{"question", "fk_question_question_bank_id",
			`FOREIGN KEY ("question_bank_id") REFERENCES "question_bank"("id") ON DELETE CASCADE`},
		{"participation", "fk_participation_survey_id",
			`FOREIGN KEY ("survey_id") REFERENCES "survey"("id") ON DELETE CASCADE`},
		{"answered_question", "fk_answered_question_survey_id",
			`FOREIGN KEY ("survey_id") REFERENCES "survey"("id") ON DELETE CASCADE`},
		{"point_history", "fk_point_history_user_id",
			`FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE RESTRICT`},
		{"user_certification", "fk_user_certification_user_id",
			`FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`},
	}
	for _, c := range constraints {
		drop := fmt.Sprintf(`ALTER TABLE %q DROP CONSTRAINT IF EXISTS %q`, c.table, c.name)
		if err := s.db.Exec(drop).Error; err != nil {
			return fmt.Errorf("drop constraint %s: %w", c.name, err)
		}
		add := fmt.Sprintf(`ALTER TABLE %q ADD CONSTRAINT %q %s`, c.table, c.name, c.fk)
		if err := s.db.Exec(add).Error; err != nil {
			return fmt.Errorf("add constraint %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
