// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"fjacquet/fillcash/internal/dateutils"
	"fjacquet/fillcash/internal/models"
)

// EnvPrefix prefixes every environment override, e.g. FILLCASH_LOG_LEVEL.
const EnvPrefix = "FILLCASH"

// Output file names inside the outputs directory
const (
	StatementFileName = "current_account_statement.csv"
	SilverFileName    = "silver_statements.csv"
	SheetFilePrefix   = "format_sheet_"
)

// CardColorCount is the number of colors of a card palette: the header
// fill, then the fills of even and odd data rows.
const CardColorCount = 3

// Card is a configured credit card. Color, when set, holds CardColorCount
// hex colors used to paint the card column of the workbook.
type Card struct {
	Bank       string   `mapstructure:"bank" yaml:"bank"`
	Name       string   `mapstructure:"name" yaml:"name"`
	LastDigits string   `mapstructure:"last_digits" yaml:"last_digits"`
	DueDay     int      `mapstructure:"due_day" yaml:"due_day"`
	Color      []string `mapstructure:"color" yaml:"color,omitempty"`
}

// Recurring is a fixed monthly income or expense entry.
type Recurring struct {
	Day         int             `mapstructure:"day" yaml:"day"`
	Amount      decimal.Decimal `mapstructure:"amount" yaml:"amount"`
	Description string          `mapstructure:"description" yaml:"description"`
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	BankName        string `mapstructure:"bankname" yaml:"bankname"`
	StatementFormat string `mapstructure:"statement_format" yaml:"statement_format"`

	Cards         []Card      `mapstructure:"cards" yaml:"cards"`
	FixedIncome   []Recurring `mapstructure:"fixed_income" yaml:"fixed_income"`
	FixedExpenses []Recurring `mapstructure:"fixed_expenses" yaml:"fixed_expenses"`

	Bills struct {
		Months int `mapstructure:"months" yaml:"months"`
	} `mapstructure:"bills" yaml:"bills"`

	Paths struct {
		StatementsDir string `mapstructure:"statements_dir" yaml:"statements_dir"`
		OutputsDir    string `mapstructure:"outputs_dir" yaml:"outputs_dir"`
		BillsFile     string `mapstructure:"bills_file" yaml:"bills_file"`
	} `mapstructure:"paths" yaml:"paths"`
}

// InitializeConfig loads configuration with hierarchical precedence:
// defaults, then config.yml found in ., ./config or $HOME/.fillcash, then
// FILLCASH_* environment variables. A non-empty configFile replaces the
// search and must exist.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config")
		v.AddConfigPath("$HOME/.fillcash")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, viper.DecodeHook(decodeHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// decodeHook extends viper's default hooks with decimal amounts, so money
// is read from its textual form instead of through float64 arithmetic.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		stringToDecimalHook,
	)
}

func stringToDecimalHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(decimal.Decimal{}) {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		// YAML numbers arrive as float64; the shortest representation
		// round-trips the literal written in the file.
		return decimal.NewFromString(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return data, nil
	}
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", "|")

	v.SetDefault("bankname", "")
	v.SetDefault("statement_format", "csv")

	v.SetDefault("bills.months", 12)

	v.SetDefault("paths.statements_dir", "statements")
	v.SetDefault("paths.outputs_dir", "outputs")
	v.SetDefault("paths.bills_file", filepath.Join("statements", "future_card_bills.yaml"))
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Bills.Months < 1 || config.Bills.Months > 120 {
		return fmt.Errorf("bills.months must be between 1 and 120, got: %d", config.Bills.Months)
	}

	for _, card := range config.CardDefinitions() {
		if err := card.Validate(); err != nil {
			return err
		}
	}

	for _, card := range config.Cards {
		if err := validateColors(card); err != nil {
			return err
		}
	}

	for _, item := range config.RecurringItems() {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func validateColors(card Card) error {
	if len(card.Color) == 0 {
		return nil
	}
	key := models.CardKey(card.Bank, card.Name, card.LastDigits)
	if len(card.Color) != CardColorCount {
		return fmt.Errorf("card %s: color must list %d colors, got %d", key, CardColorCount, len(card.Color))
	}
	for _, c := range card.Color {
		if !hexColor.MatchString(c) {
			return fmt.Errorf("card %s: invalid color %q (want #RRGGBB)", key, c)
		}
	}
	return nil
}

// CardColors maps each card column key to its configured colors. Cards
// without colors are left out.
func (c *Config) CardColors() map[string][]string {
	colors := make(map[string][]string, len(c.Cards))
	for _, card := range c.Cards {
		if len(card.Color) == 0 {
			continue
		}
		key := models.CardKey(card.Bank, card.Name, card.LastDigits)
		if _, seen := colors[key]; !seen {
			colors[key] = card.Color
		}
	}
	return colors
}

// Delimiter returns the silver CSV delimiter.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return r
}

// CardDefinitions returns the configured cards in configuration order.
func (c *Config) CardDefinitions() []models.CardDefinition {
	cards := make([]models.CardDefinition, 0, len(c.Cards))
	for _, card := range c.Cards {
		cards = append(cards, models.CardDefinition{
			Bank:       card.Bank,
			Name:       card.Name,
			LastDigits: card.LastDigits,
			DueDay:     card.DueDay,
		})
	}
	return cards
}

// RecurringItems returns fixed income entries followed by fixed expenses.
func (c *Config) RecurringItems() []models.RecurringItem {
	items := make([]models.RecurringItem, 0, len(c.FixedIncome)+len(c.FixedExpenses))
	for _, r := range c.FixedIncome {
		items = append(items, r.toItem(models.KindIncome))
	}
	for _, r := range c.FixedExpenses {
		items = append(items, r.toItem(models.KindExpense))
	}
	return items
}

func (r Recurring) toItem(kind models.RecurringKind) models.RecurringItem {
	return models.RecurringItem{
		Day:         r.Day,
		Amount:      r.Amount,
		Kind:        kind,
		Description: r.Description,
	}
}

// StatementPath is the canonical statement written by extraction.
func (c *Config) StatementPath() string {
	return filepath.Join(c.Paths.OutputsDir, StatementFileName)
}

// SilverPath is the ledger CSV without balances.
func (c *Config) SilverPath() string {
	return filepath.Join(c.Paths.OutputsDir, SilverFileName)
}

// SheetPath is the cash-flow workbook for a run on day now.
func (c *Config) SheetPath(now time.Time) string {
	return filepath.Join(c.Paths.OutputsDir, SheetFilePrefix+now.Format(dateutils.StampLayout)+".xlsx")
}
