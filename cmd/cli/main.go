package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"coursepick/internal/api/views"
	"coursepick/internal/cli"
	"coursepick/internal/clients/recommender"
	"coursepick/internal/config"
	"coursepick/internal/export"
	"coursepick/internal/models/request_models"
	"coursepick/internal/models/response_models"
	"coursepick/internal/repositories"
	"coursepick/internal/services"
	"coursepick/pkg/logger"
	mem "coursepick/pkg/memcache"
	"coursepick/pkg/utils"
)

func main() {
	cfg, _ := config.LoadWithDotEnv()

	var (
		endpoint  = flag.String("endpoint", cfg.RecommenderURL, "recommendation endpoint")
		splitMode = flag.String("split", cfg.CourseSplitMode, "completed courses split mode: comma | punctuation")
		timeout   = flag.Duration("timeout", cfg.RecommenderTimeout, "request timeout (0 = none)")
		attempts  = flag.Int("attempts", cfg.RecommenderMaxAttempts, "max request attempts")
		formPath  = flag.String("form", "", "read the form from a JSON file instead of prompting")
		outPath   = flag.String("out", "", "also write the schedule to a .csv or .xlsx file")
		verbose   = flag.Bool("v", false, "log requests to stderr")
	)
	flag.Parse()

	level := "error"
	if *verbose {
		level = "debug"
	}
	log, err := logger.New(level, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	state, err := readForm(*formPath)
	if err != nil {
		log.Fatal("read form", zap.Error(err))
	}

	retry := recommender.DefaultRetryConfig()
	retry.MaxAttempts = *attempts
	client := recommender.New(*endpoint, *timeout, retry, log)

	svc := services.NewRecommendationService(client, mem.NewFormSessions(), repositories.NoopSubmissionRepository{},
		services.RecommendationServiceConfig{SplitMode: config.ParseSplitMode(*splitMode)}, nil, log)

	outcome, err := svc.SubmitState(context.Background(), state)
	if err != nil && !errors.Is(err, utils.ErrInvalidForm) {
		log.Fatal("submit", zap.Error(err))
	}

	fmt.Println()
	if err := views.WriteText(os.Stdout, outcome); err != nil {
		log.Fatal("print schedule", zap.Error(err))
	}
	if outcome.Failed() {
		os.Exit(1)
	}

	if *outPath != "" && outcome.HasSchedule() {
		if err := writeSchedule(*outPath, outcome.Semesters); err != nil {
			log.Fatal("write schedule", zap.Error(err))
		}
		fmt.Printf("\n课表已保存到 %s\n", *outPath)
	}
}

func readForm(path string) (request_models.FormState, error) {
	if path == "" {
		return cli.NewPrompter(os.Stdin, os.Stdout).Collect()
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return request_models.FormState{}, err
	}
	state := request_models.DefaultFormState()
	if err := json.Unmarshal(b, &state); err != nil {
		return request_models.FormState{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return state, nil
}

func writeSchedule(path string, semesters []response_models.Semester) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return export.WriteScheduleXLSX(f, semesters)
	default:
		return export.WriteScheduleCSV(f, semesters)
	}
}
