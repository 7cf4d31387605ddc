// Package main implements studyctl, an admin CLI that works directly against
// the configured blob store.
package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/arqon-study-api/internal/repository"
	"github.com/noah-isme/arqon-study-api/internal/service"
	"github.com/noah-isme/arqon-study-api/pkg/config"
	"github.com/noah-isme/arqon-study-api/pkg/logger"
)

func main() {
	if err := newRootCmd(openConfiguredStore).Execute(); err != nil {
		os.Exit(1)
	}
}

// storeOpener returns the store every command runs against.
type storeOpener func() (repository.BlobStore, *zap.Logger, error)

// app bundles the services a command needs.
type app struct {
	store       repository.BlobStore
	courses     *service.CourseService
	assignments *service.AssignmentService
}

func (a *app) Close() error {
	return a.store.Close()
}

func newRootCmd(open storeOpener) *cobra.Command {
	root := &cobra.Command{
		Use:          "studyctl",
		Short:        "Inspect and export ARQON study data",
		SilenceUsage: true,
	}

	load := func() (*app, error) {
		store, logr, err := open()
		if err != nil {
			return nil, err
		}
		validate := validator.New()
		courseRepo := repository.NewCourseRepository(store, logr)
		return &app{
			store:   store,
			courses: service.NewCourseService(courseRepo, validate, logr),
			assignments: service.NewAssignmentService(
				repository.NewAssignmentRepository(store, logr),
				courseRepo,
				repository.NewPreferenceRepository(store, logr),
				validate,
				logr,
			),
		}, nil
	}

	root.AddCommand(newCoursesCmd(load), newAssignmentsCmd(load))
	return root
}

func openConfiguredStore() (repository.BlobStore, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	// Commands print their own results; only warnings are logged.
	cfg.Log.Level = "warn"
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	store, err := repository.Open(cfg, logr)
	if err != nil {
		return nil, nil, err
	}
	return store, logr, nil
}
