package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"fjacquet/fillcash/cmd/bills"
	"fjacquet/fillcash/cmd/extract"
	"fjacquet/fillcash/cmd/project"
	"fjacquet/fillcash/cmd/root"
	"fjacquet/fillcash/cmd/run"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// Environment first, so FILLCASH_* variables from .env reach viper
	loadEnvSilently()

	configureLogLevel()

	root.Init()

	root.Cmd.AddCommand(extract.Cmd)
	root.Cmd.AddCommand(bills.Cmd)
	root.Cmd.AddCommand(project.Cmd)
	root.Cmd.AddCommand(run.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// configureLogLevel sets the global logrus level from FILLCASH_LOG_LEVEL
func configureLogLevel() {
	level, err := logrus.ParseLevel(strings.ToLower(os.Getenv("FILLCASH_LOG_LEVEL")))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}
