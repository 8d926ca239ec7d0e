package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env        string
	Simulation SimulationConfig
	Database   DatabaseConfig
	Content    ContentConfig
}

type SimulationConfig struct {
	OrgSize         int
	NumTeams        int
	NumProjects     int // 0 derives a count from OrgSize and NumTeams
	TasksPerProject int
	SubtaskRatio    float64
	Seed            int64
	StartDate       time.Time
	EndDate         time.Time
}

type DatabaseConfig struct {
	Path string
}

type ContentConfig struct {
	Provider       string // "template" or "llm"
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

func (c *ContentConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("ORG_SIZE", 7500)
	v.SetDefault("NUM_TEAMS", 50)
	v.SetDefault("NUM_PROJECTS", 0)
	v.SetDefault("TASKS_PER_PROJECT", 30)
	v.SetDefault("SUBTASK_RATIO", 0.20)
	v.SetDefault("SEED", 42)
	v.SetDefault("START_DATE", "2024-01-01")
	v.SetDefault("END_DATE", "2024-07-01")
	v.SetDefault("DATABASE_PATH", "output/worksim.sqlite")
	v.SetDefault("CONTENT_PROVIDER", "template")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("OPENAI_MODEL", "gpt-3.5-turbo")
	v.SetDefault("CONTENT_TIMEOUT_SECONDS", 15)

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	start, err := time.Parse("2006-01-02", v.GetString("START_DATE"))
	if err != nil {
		return nil, fmt.Errorf("parsing START_DATE: %w", err)
	}
	end, err := time.Parse("2006-01-02", v.GetString("END_DATE"))
	if err != nil {
		return nil, fmt.Errorf("parsing END_DATE: %w", err)
	}

	cfg := &Config{
		Env: v.GetString("ENV"),
		Simulation: SimulationConfig{
			OrgSize:         v.GetInt("ORG_SIZE"),
			NumTeams:        v.GetInt("NUM_TEAMS"),
			NumProjects:     v.GetInt("NUM_PROJECTS"),
			TasksPerProject: v.GetInt("TASKS_PER_PROJECT"),
			SubtaskRatio:    v.GetFloat64("SUBTASK_RATIO"),
			Seed:            v.GetInt64("SEED"),
			StartDate:       start,
			EndDate:         end,
		},
		Database: DatabaseConfig{
			Path: v.GetString("DATABASE_PATH"),
		},
		Content: ContentConfig{
			Provider:       v.GetString("CONTENT_PROVIDER"),
			APIKey:         v.GetString("OPENAI_API_KEY"),
			BaseURL:        v.GetString("OPENAI_BASE_URL"),
			Model:          v.GetString("OPENAI_MODEL"),
			TimeoutSeconds: v.GetInt("CONTENT_TIMEOUT_SECONDS"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	s := &c.Simulation
	if s.OrgSize < 1 {
		return fmt.Errorf("ORG_SIZE must be at least 1, got %d", s.OrgSize)
	}
	if s.NumTeams < 1 {
		return fmt.Errorf("NUM_TEAMS must be at least 1, got %d", s.NumTeams)
	}
	if s.TasksPerProject < 0 {
		return fmt.Errorf("TASKS_PER_PROJECT must not be negative, got %d", s.TasksPerProject)
	}
	if s.SubtaskRatio < 0 || s.SubtaskRatio > 1 {
		return fmt.Errorf("SUBTASK_RATIO must be between 0 and 1, got %v", s.SubtaskRatio)
	}
	if !s.StartDate.Before(s.EndDate) {
		return fmt.Errorf("START_DATE %s must be before END_DATE %s",
			s.StartDate.Format("2006-01-02"), s.EndDate.Format("2006-01-02"))
	}
	switch c.Content.Provider {
	case "template", "llm":
	default:
		return fmt.Errorf("CONTENT_PROVIDER must be %q or %q, got %q", "template", "llm", c.Content.Provider)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH must not be empty")
	}
	return nil
}
