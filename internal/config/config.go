package config

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Jira     JiraConfig     `mapstructure:"jira"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
}

// JiraConfig holds the fixed ticket metadata and credentials used for every
// created issue.
type JiraConfig struct {
	URL              string        `mapstructure:"url" validate:"required,url"`
	User             string        `mapstructure:"user" validate:"required"`
	APIToken         string        `mapstructure:"api_token" validate:"required"`
	ProjectKey       string        `mapstructure:"project_key" validate:"required"`
	IssueType        string        `mapstructure:"issue_type" validate:"required"`
	CustomFieldID    string        `mapstructure:"custom_field_id" validate:"omitempty,startswith=customfield_"`
	CustomFieldValue string        `mapstructure:"custom_field_value" validate:"required_with=CustomFieldID"`
	AssigneeID       string        `mapstructure:"assignee_id"`
	Timeout          time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// DatabaseConfig configures the ticket history store. An empty path
// disables history.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// Validate checks that everything needed to create an issue is set.
func (j JiraConfig) Validate() error {
	if err := validator.New().Struct(j); err != nil {
		return errors.Wrap(err, "invalid jira configuration")
	}
	return nil
}

func Load(configPath string) (*Config, error) {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	v.SetDefault("jira.url", "")
	v.SetDefault("jira.user", "")
	v.SetDefault("jira.api_token", "")
	v.SetDefault("jira.project_key", "")
	v.SetDefault("jira.issue_type", "Submit a request or incident")
	v.SetDefault("jira.custom_field_id", "")
	v.SetDefault("jira.custom_field_value", "")
	v.SetDefault("jira.assignee_id", "")
	v.SetDefault("jira.timeout", "30s")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("database.path", "")

	// ALERT2JIRA_JIRA_PROJECT_KEY and friends
	v.SetEnvPrefix("alert2jira")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "failed to read config")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}

	// Override with the conventional Jira environment variables if set
	if url := os.Getenv("JIRA_URL"); url != "" {
		config.Jira.URL = url
	}
	if user := os.Getenv("JIRA_USER"); user != "" {
		config.Jira.User = user
	}
	if token := os.Getenv("JIRA_API_TOKEN"); token != "" {
		config.Jira.APIToken = token
	}

	return &config, nil
}
