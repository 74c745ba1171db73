// Command seed fills a local database with users of every role plus sample
// surveys, votes and tasks.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-services/api/internal/config"
	identityapp "github.com/sngm3741/survey-services/api/internal/identity/application"
	"github.com/sngm3741/survey-services/api/internal/identity/domain"
	mongodoc "github.com/sngm3741/survey-services/api/internal/infrastructure/mongo"
	"github.com/sngm3741/survey-services/api/internal/logging"
	"github.com/sngm3741/survey-services/api/internal/server"
	surveyapp "github.com/sngm3741/survey-services/api/internal/survey/application"
	surveydomain "github.com/sngm3741/survey-services/api/internal/survey/domain"
	taskapp "github.com/sngm3741/survey-services/api/internal/task/application"
)

type seedOptions struct {
	app             string
	configPath      string
	dropCollections bool
	timeout         time.Duration
}

// seedUser は投入するユーザーとロール。
type seedUser struct {
	Email string
	Name  string
	Role  domain.Role
}

var seedUsers = []seedUser{
	{Email: "admin@example.com", Name: "Admin", Role: domain.RoleAdmin},
	{Email: "surveyor@example.com", Name: "Surveyor", Role: domain.RoleSurveyor},
	{Email: "pro@example.com", Name: "Pro User", Role: domain.RoleProUser},
	{Email: "user@example.com", Name: "User", Role: domain.RoleUser},
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Seed the survey or task database with sample data",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts)
		},
	}
	cmd.Flags().StringVar(&opts.app, "app", string(config.AppSurvey), "which database to seed: survey or task")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "YAML config file")
	cmd.Flags().BoolVar(&opts.dropCollections, "drop", false, "drop the app collections before seeding")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 60*time.Second, "overall timeout")
	return cmd
}

func run(opts seedOptions) error {
	app := config.App(opts.app)
	if app != config.AppSurvey && app != config.AppTask {
		return fmt.Errorf("unknown app %q", opts.app)
	}
	cfg, err := config.LoadStoreOnly(app, opts.configPath)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: "console"})

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	client, err := mongodoc.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.Mongo.Database)
	cols := cfg.Mongo.Collections
	if opts.dropCollections {
		dropCollections(ctx, db, logger, appCollections(app, cols))
	}
	if err := mongodoc.EnsureUniqueIndexes(ctx, db, server.UniqueIndexes(app, cols)); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	users := identityapp.NewUserService(mongodoc.NewUserRepository(db, cols.Users))
	if err := seedIdentity(ctx, users); err != nil {
		return err
	}

	switch app {
	case config.AppSurvey:
		surveys := mongodoc.NewSurveyRepository(db, cols.Surveys)
		votes := mongodoc.NewVoteRepository(db, cols.Votes, cols.Surveys, cfg.Mongo.UseTransactions)
		ids, err := seedSurveys(ctx, surveyapp.NewSurveyService(surveys, votes), surveyapp.NewVoteService(surveys, votes))
		if err != nil {
			return err
		}
		logger.Info().Int("users", len(seedUsers)).Strs("surveys", ids).Msg("seed complete")
	case config.AppTask:
		tasks := taskapp.NewTaskService(
			mongodoc.NewTaskRepository(db, cols.Tasks),
			mongodoc.NewActivityRepository(db, cols.Activities),
		)
		id, err := seedTasks(ctx, tasks)
		if err != nil {
			return err
		}
		logger.Info().Int("users", len(seedUsers)).Str("task", id).Msg("seed complete")
	}
	logger.Info().Str("database", cfg.Mongo.Database).Msg("done")
	return nil
}

func appCollections(app config.App, cols config.Collections) []string {
	if app == config.AppTask {
		return []string{cols.Users, cols.Tasks, cols.Activities}
	}
	return []string{cols.Users, cols.Surveys, cols.Votes, cols.Payments, cols.Reports, cols.Comments}
}

func dropCollections(ctx context.Context, db *mongo.Database, logger zerolog.Logger, names []string) {
	for _, name := range names {
		if err := db.Collection(name).Drop(ctx); err != nil {
			// Drop は存在しない場合も err を返すので warning ログにとどめる
			logger.Warn().Err(err).Str("collection", name).Msg("drop failed")
		}
	}
}

// seedIdentity registers every seed user and assigns its role. Re-running is safe.
func seedIdentity(ctx context.Context, users identityapp.UserService) error {
	for _, u := range seedUsers {
		if _, _, err := users.Register(ctx, identityapp.RegisterUserCommand{Email: u.Email, Name: u.Name}); err != nil {
			return fmt.Errorf("register %s: %w", u.Email, err)
		}
		if u.Role == domain.RoleUser {
			continue
		}
		if _, err := users.SetRoleByEmail(ctx, u.Email, u.Role); err != nil {
			return fmt.Errorf("set role for %s: %w", u.Email, err)
		}
	}
	return nil
}

func seedSurveys(ctx context.Context, surveys surveyapp.SurveyService, votes surveyapp.VoteService) ([]string, error) {
	drafts := []surveyapp.CreateSurveyCommand{
		{
			Title:       "Remote work",
			Description: "Should the team keep working remotely?",
			Category:    "workplace",
			Options:     []any{0, 1},
			Deadline:    time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
			UserEmail:   "surveyor@example.com",
		},
		{
			Title:       "Four day week",
			Description: "Would you prefer a four day work week?",
			Category:    "workplace",
			Options:     []any{"yes", "no"},
			Deadline:    time.Now().AddDate(0, 2, 0).Format("2006-01-02"),
			UserEmail:   "surveyor@example.com",
		},
	}

	ids := make([]string, 0, len(drafts))
	for _, draft := range drafts {
		result, err := surveys.Create(ctx, draft)
		if err != nil {
			return nil, fmt.Errorf("create survey %q: %w", draft.Title, err)
		}
		ids = append(ids, result.InsertedID)
	}

	ballots := []struct {
		email  string
		option int
	}{
		{"user@example.com", 0},
		{"pro@example.com", 1},
	}
	for _, b := range ballots {
		_, err := votes.Cast(ctx, surveyapp.CastVoteCommand{
			SurveyID:  ids[0],
			UserEmail: b.email,
			Responses: []surveydomain.Response{{Question: drafts[0].Title, Option: b.option}},
		})
		if err != nil {
			return nil, fmt.Errorf("cast vote for %s: %w", b.email, err)
		}
	}
	return ids, nil
}

func seedTasks(ctx context.Context, tasks taskapp.TaskService) (string, error) {
	result, err := tasks.Create(ctx, taskapp.CreateTaskCommand{
		Title:       "Write onboarding guide",
		Description: "Document local setup and seed data",
		Priority:    "high",
		DueDate:     time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		UserEmail:   "user@example.com",
	})
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	for _, name := range []string{"outline", "draft"} {
		if _, err := tasks.AddActivity(ctx, result.InsertedID, name); err != nil {
			return "", fmt.Errorf("add activity %q: %w", name, err)
		}
	}
	return result.InsertedID, nil
}
